package services

import (
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/mercadopago"
	"smmpanel-backend/internal/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestGatewayClient(handler http.HandlerFunc) (*mercadopago.Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := mercadopago.New("test-token", "test-public-key")
	client.BaseURL = server.URL
	return client, server
}

func TestMapGatewayStatus(t *testing.T) {
	assert.Equal(t, models.PaymentStatusApproved, mapGatewayStatus("approved"))
	assert.Equal(t, models.PaymentStatusPending, mapGatewayStatus("pending"))
	assert.Equal(t, models.PaymentStatusPending, mapGatewayStatus("in_process"))
	assert.Equal(t, models.PaymentStatusRejected, mapGatewayStatus("rejected"))
	assert.Equal(t, models.PaymentStatusCancelled, mapGatewayStatus("cancelled"))
	assert.Equal(t, models.PaymentStatusRefunded, mapGatewayStatus("refunded"))
	assert.Equal(t, models.PaymentStatusPending, mapGatewayStatus("charged_back"))
	assert.Equal(t, models.PaymentStatusPending, mapGatewayStatus(""))
}

func TestApplyGatewayStatus_CreditsOnce(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 10.00)
	gatewayID := "987654"
	payment := &models.Payment{
		UserID:    user.ID,
		Amount:    25.00,
		PaymentID: &gatewayID,
		Status:    models.PaymentStatusPending,
	}
	database.DB.Create(payment)

	updated, err := ApplyGatewayStatus(payment.ID, "approved")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, updated.Status)

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 35.00, reloaded.Balance, 1e-9)

	// Re-observing approved must not credit again.
	_, err = ApplyGatewayStatus(payment.ID, "approved")
	assert.NoError(t, err)

	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 35.00, reloaded.Balance, 1e-9)

	var ledgerRows int64
	database.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&ledgerRows)
	assert.Equal(t, int64(1), ledgerRows)

	var transaction models.Transaction
	database.DB.Where("user_id = ?", user.ID).First(&transaction)
	assert.Equal(t, models.TransactionTypeUserTopup, transaction.Type)
	assert.InDelta(t, 25.00, transaction.Amount, 1e-9)
}

func TestApplyGatewayStatus_RejectedNoCredit(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 10.00)
	payment := &models.Payment{UserID: user.ID, Amount: 25.00, Status: models.PaymentStatusPending}
	database.DB.Create(payment)

	updated, err := ApplyGatewayStatus(payment.ID, "rejected")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, updated.Status)

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 10.00, reloaded.Balance, 1e-9)
}

func TestCreatePixPayment(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 0)

	client, server := newTestGatewayClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"id": 123456789,
			"status": "pending",
			"date_of_expiration": "2026-01-01T00:30:00.000Z",
			"point_of_interaction": {
				"transaction_data": {
					"qr_code": "00020126pixcode",
					"qr_code_base64": "aGVsbG8=",
					"ticket_url": "https://gateway.example/ticket/1"
				}
			}
		}`))
	})
	defer server.Close()

	payment, gatewayPayment, err := CreatePixPayment(user, 50.00, client)
	assert.NoError(t, err)
	assert.Equal(t, int64(123456789), gatewayPayment.ID)
	if assert.NotNil(t, payment.PaymentID) {
		assert.Equal(t, "123456789", *payment.PaymentID)
	}
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Contains(t, string(payment.PixData), "00020126pixcode")
}

func TestCreatePixPayment_GatewayFailure(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 0)

	client, server := newTestGatewayClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "invalid access token"}`))
	})
	defer server.Close()

	_, _, err := CreatePixPayment(user, 50.00, client)
	assert.Error(t, err)

	// The provisional row must not survive a gateway failure.
	var count int64
	database.DB.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestHandleWebhook(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 0)
	gatewayID := "424242"
	payment := &models.Payment{
		UserID:    user.ID,
		Amount:    30.00,
		PaymentID: &gatewayID,
		Status:    models.PaymentStatusPending,
	}
	database.DB.Create(payment)

	client, server := newTestGatewayClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/424242", r.URL.Path)
		w.Write([]byte(`{"id": 424242, "status": "approved"}`))
	})
	defer server.Close()

	err := HandleWebhook("424242", client)
	assert.NoError(t, err)

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 30.00, reloaded.Balance, 1e-9)
}

func TestHandleWebhook_UnknownPayment(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	err := HandleWebhook("does-not-exist", nil)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestApprovePayment(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 5.00)
	admin := createTestUser("admin", 0)
	admin.Role = "admin"
	database.DB.Save(admin)

	payment := &models.Payment{UserID: user.ID, Amount: 20.00, Status: models.PaymentStatusPending}
	database.DB.Create(payment)

	approved, err := ApprovePayment(payment.ID, admin)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, approved.Status)

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 25.00, reloaded.Balance, 1e-9)

	var transaction models.Transaction
	database.DB.Where("user_id = ?", user.ID).First(&transaction)
	assert.Equal(t, models.TransactionTypeManualTopup, transaction.Type)
	assert.Equal(t, "admin", transaction.Operator)

	// Only pending payments can be approved.
	_, err = ApprovePayment(payment.ID, admin)
	assert.ErrorIs(t, err, ErrPaymentNotPending)

	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 25.00, reloaded.Balance, 1e-9)
}

func TestRejectPayment(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 5.00)
	payment := &models.Payment{UserID: user.ID, Amount: 20.00, Status: models.PaymentStatusPending}
	database.DB.Create(payment)

	rejected, err := RejectPayment(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, rejected.Status)

	var reloaded models.User
	database.DB.First(&reloaded, user.ID)
	assert.InDelta(t, 5.00, reloaded.Balance, 1e-9)

	_, err = RejectPayment(payment.ID)
	assert.ErrorIs(t, err, ErrPaymentNotPending)
}

func TestRequestTopup(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	user := createTestUser("payer", 0)

	payment, err := RequestTopup(user.ID, 15.00)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaymentID)
	assert.InDelta(t, 15.00, payment.Amount, 1e-9)
}
