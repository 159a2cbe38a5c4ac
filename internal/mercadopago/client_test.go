package mercadopago

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := New("test-token", "test-public-key")
	client.BaseURL = server.URL
	return client, server
}

func TestCreatePayment(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, 50.0, body["transaction_amount"])
		assert.Equal(t, "pix", body["payment_method_id"])
		assert.Equal(t, "77", body["external_reference"])

		payer := body["payer"].(map[string]interface{})
		assert.Equal(t, "buyer@example.com", payer["email"])

		// Expiration must be an absolute timestamp roughly 30 minutes out
		expStr := body["date_of_expiration"].(string)
		exp, err := time.Parse("2006-01-02T15:04:05.000Z", expStr)
		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, time.Minute)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     12345678,
			"status": "pending",
			"point_of_interaction": map[string]interface{}{
				"transaction_data": map[string]interface{}{
					"qr_code":        "00020126pixcopy",
					"qr_code_base64": "aWF0",
					"ticket_url":     "https://gateway.example/ticket/1",
				},
			},
			"date_of_expiration": expStr,
		})
	})
	defer server.Close()

	payment, err := client.CreatePayment(50.0, "Balance topup", "buyer@example.com", "77")
	assert.NoError(t, err)
	assert.Equal(t, int64(12345678), payment.ID)
	assert.Equal(t, StatusPending, payment.Status)
	assert.Equal(t, "00020126pixcopy", payment.PointOfInteraction.TransactionData.QRCode)
}

func TestGetPayment(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payments/12345678", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     12345678,
			"status": "approved",
		})
	})
	defer server.Close()

	payment, err := client.GetPayment("12345678")
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, payment.Status)
}

func TestGetPayment_NotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Payment not found"}`))
	})
	defer server.Close()

	payment, err := client.GetPayment("999")
	assert.Error(t, err)
	assert.Nil(t, payment)
}

func TestCreatePreference(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		methods := body["payment_methods"].(map[string]interface{})
		assert.Equal(t, 1.0, methods["installments"])

		items := body["items"].([]interface{})
		item := items[0].(map[string]interface{})
		assert.Equal(t, "BRL", item["currency_id"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                 "pref-1",
			"init_point":         "https://gateway.example/init",
			"sandbox_init_point": "https://sandbox.gateway.example/init",
		})
	})
	defer server.Close()

	preference, err := client.CreatePreference([]PreferenceItem{
		{Title: "Balance topup", Quantity: 1, UnitPrice: 25.0, CurrencyID: "BRL"},
	}, &BackURLs{Success: "https://panel.example/ok"}, "12")
	assert.NoError(t, err)
	assert.Equal(t, "pref-1", preference.ID)
	assert.Equal(t, "https://gateway.example/init", preference.InitPoint)
}

func TestGetPaymentMethods(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_methods", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "pix", "name": "PIX", "payment_type_id": "bank_transfer"},
			{"id": "credit_card", "name": "Credit card", "payment_type_id": "credit_card"},
		})
	})
	defer server.Close()

	methods, err := client.GetPaymentMethods()
	assert.NoError(t, err)
	assert.Len(t, methods, 2)
	assert.Equal(t, "pix", methods[0].ID)
}
