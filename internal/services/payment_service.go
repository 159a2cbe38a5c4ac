package services

import (
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/mercadopago"
	"smmpanel-backend/internal/models"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentNotPending       = errors.New("payment is not pending")
	ErrPaymentMissingGatewayID = errors.New("payment has no gateway id")
)

// mapGatewayStatus translates a gateway status into the local vocabulary.
// Unrecognized values default to pending.
func mapGatewayStatus(gatewayStatus string) string {
	switch gatewayStatus {
	case mercadopago.StatusApproved:
		return models.PaymentStatusApproved
	case mercadopago.StatusPending, mercadopago.StatusInProcess:
		return models.PaymentStatusPending
	case mercadopago.StatusRejected:
		return models.PaymentStatusRejected
	case mercadopago.StatusCancelled:
		return models.PaymentStatusCancelled
	case mercadopago.StatusRefunded:
		return models.PaymentStatusRefunded
	default:
		return models.PaymentStatusPending
	}
}

// RequestTopup records a bare pending payment with no gateway involvement,
// left for manual admin approval.
func RequestTopup(userID uint, amount float64) (*models.Payment, error) {
	payment := &models.Payment{
		UserID: userID,
		Amount: amount,
		Status: models.PaymentStatusPending,
	}
	if err := database.DB.Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// CreatePixPayment creates the local pending row first, then the gateway
// payment. If the gateway rejects the creation, the local row is deleted so no
// orphan pending payment survives.
func CreatePixPayment(user *models.User, amount float64, client *mercadopago.Client) (*models.Payment, *mercadopago.Payment, error) {
	payment := &models.Payment{
		UserID: user.ID,
		Amount: amount,
		Status: models.PaymentStatusPending,
	}
	if err := database.DB.Create(payment).Error; err != nil {
		return nil, nil, err
	}

	description := fmt.Sprintf("Balance topup - payment %d", payment.ID)
	gatewayPayment, err := client.CreatePayment(amount, description, user.Email, strconv.FormatUint(uint64(payment.ID), 10))
	if err != nil || gatewayPayment.ID == 0 {
		database.DB.Delete(payment)
		if err == nil {
			err = errors.New("payment gateway did not assign a payment id")
		}
		return nil, nil, err
	}

	gatewayID := strconv.FormatInt(gatewayPayment.ID, 10)
	payment.PaymentID = &gatewayID
	payment.Status = mapGatewayStatus(gatewayPayment.Status)

	pixSnapshot := map[string]string{
		"qr_code":        gatewayPayment.PointOfInteraction.TransactionData.QRCode,
		"qr_code_base64": gatewayPayment.PointOfInteraction.TransactionData.QRCodeBase64,
		"ticket_url":     gatewayPayment.PointOfInteraction.TransactionData.TicketURL,
		"expires_at":     gatewayPayment.DateOfExpiration,
	}
	if data, err := json.Marshal(pixSnapshot); err == nil {
		payment.PixData = datatypes.JSON(data)
	}

	if err := database.DB.Save(payment).Error; err != nil {
		return nil, nil, err
	}

	return payment, gatewayPayment, nil
}

// CreateCheckoutPreference creates a local pending payment and a hosted
// checkout preference referencing it. The local row is deleted if the gateway
// call fails.
func CreateCheckoutPreference(user *models.User, amount float64, backURLs *mercadopago.BackURLs, client *mercadopago.Client) (*models.Payment, *mercadopago.Preference, error) {
	payment := &models.Payment{
		UserID: user.ID,
		Amount: amount,
		Status: models.PaymentStatusPending,
	}
	if err := database.DB.Create(payment).Error; err != nil {
		return nil, nil, err
	}

	items := []mercadopago.PreferenceItem{{
		Title:      "Balance topup",
		Quantity:   1,
		UnitPrice:  amount,
		CurrencyID: "BRL",
	}}

	preference, err := client.CreatePreference(items, backURLs, strconv.FormatUint(uint64(payment.ID), 10))
	if err != nil || preference.ID == "" {
		database.DB.Delete(payment)
		if err == nil {
			err = errors.New("payment gateway did not create a preference")
		}
		return nil, nil, err
	}

	return payment, preference, nil
}

// GetUserPayment fetches one payment scoped to its owner.
func GetUserPayment(userID, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	err := database.DB.Where("id = ? AND user_id = ?", paymentID, userID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListUserPayments returns a user's payments, newest first.
func ListUserPayments(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CheckPayment is the user-initiated reconciliation path: re-fetch the
// authoritative status from the gateway and apply the transition. Returns the
// updated payment and the raw gateway status.
func CheckPayment(userID, paymentID uint, client *mercadopago.Client) (*models.Payment, string, error) {
	payment, err := GetUserPayment(userID, paymentID)
	if err != nil {
		return nil, "", err
	}
	if payment.PaymentID == nil {
		return nil, "", ErrPaymentMissingGatewayID
	}

	gatewayPayment, err := client.GetPayment(*payment.PaymentID)
	if err != nil {
		return nil, "", err
	}

	updated, err := ApplyGatewayStatus(payment.ID, gatewayPayment.Status)
	if err != nil {
		return nil, "", err
	}
	return updated, gatewayPayment.Status, nil
}

// HandleWebhook is the gateway-notification reconciliation path. The payload
// only identifies the gateway payment; the authoritative status is always
// re-fetched from the gateway, never trusted from the notification body.
func HandleWebhook(gatewayPaymentID string, client *mercadopago.Client) error {
	var payment models.Payment
	err := database.DB.Where("payment_id = ?", gatewayPaymentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	gatewayPayment, err := client.GetPayment(gatewayPaymentID)
	if err != nil {
		return err
	}

	_, err = ApplyGatewayStatus(payment.ID, gatewayPayment.Status)
	return err
}

// ApplyGatewayStatus persists a gateway-observed status. The balance credit
// fires exactly once, on the transition into approved from any other status;
// re-observing approved is a no-op, so duplicate webhook deliveries are safe.
func ApplyGatewayStatus(paymentID uint, gatewayStatus string) (*models.Payment, error) {
	var payment models.Payment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		oldStatus := payment.Status
		newStatus := mapGatewayStatus(gatewayStatus)

		payment.Status = newStatus
		payment.UpdatedAt = time.Now()
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if oldStatus != models.PaymentStatusApproved && newStatus == models.PaymentStatusApproved {
			return creditPayment(tx, &payment, "system", 0, models.TransactionTypeUserTopup)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateUserCache(payment.UserID)

	return &payment, nil
}

// ApprovePayment is the manual admin transition. Only pending payments can be
// approved; the credit rule is the same as the gateway path.
func ApprovePayment(paymentID uint, operator *models.User) (*models.Payment, error) {
	var payment models.Payment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if payment.Status != models.PaymentStatusPending {
			return ErrPaymentNotPending
		}

		payment.Status = models.PaymentStatusApproved
		payment.UpdatedAt = time.Now()
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		return creditPayment(tx, &payment, operator.Username, operator.ID, models.TransactionTypeManualTopup)
	})
	if err != nil {
		return nil, err
	}

	InvalidateUserCache(payment.UserID)

	return &payment, nil
}

// RejectPayment marks a pending payment rejected. No balance is touched.
func RejectPayment(paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := database.DB.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status != models.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}

	payment.Status = models.PaymentStatusRejected
	payment.UpdatedAt = time.Now()
	if err := database.DB.Save(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// PaymentFilter drives the admin payment listing.
type PaymentFilter struct {
	UserID *uint
	Status *string
	Page   int
	Limit  int
}

// FindPayments queries payments with optional filters, newest first.
func FindPayments(filter PaymentFilter) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := database.DB.Model(&models.Payment{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// creditPayment adds the payment amount to the owner's balance and writes the
// ledger row, inside the caller's transaction.
func creditPayment(tx *gorm.DB, payment *models.Payment, operator string, operatorID uint, txType models.TransactionType) error {
	var user models.User
	if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&user, payment.UserID).Error; err != nil {
		return err
	}

	balanceBefore := user.Balance
	user.Balance += payment.Amount
	user.Version++
	if err := tx.Save(&user).Error; err != nil {
		return err
	}

	reason := fmt.Sprintf("Topup payment %d", payment.ID)
	return recordTransaction(tx, &user, payment.Amount, balanceBefore, reason, operator, operatorID, txType)
}
