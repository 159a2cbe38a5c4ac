package payment

import (
	"smmpanel-backend/internal/models"
	"encoding/json"
	"time"
)

type PaymentResponse struct {
	ID        uint            `json:"id"`
	Amount    float64         `json:"amount"`
	Status    string          `json:"status"`
	PaymentID *string         `json:"payment_id,omitempty"` // gateway id
	PixData   json.RawMessage `json:"pix_data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int               `json:"total"`
}

type PixPaymentResponse struct {
	Payment      PaymentResponse `json:"payment"`
	QRCode       string          `json:"qr_code"`
	QRCodeBase64 string          `json:"qr_code_base64"`
	TicketURL    string          `json:"ticket_url"`
	ExpiresAt    string          `json:"expires_at"`
}

type PreferenceResponse struct {
	Payment      PaymentResponse `json:"payment"`
	PreferenceID string          `json:"preference_id"`
	InitPoint    string          `json:"init_point"`
}

type CheckPaymentResponse struct {
	Payment       PaymentResponse `json:"payment"`
	GatewayStatus string          `json:"gateway_status"`
}

func toResponse(p *models.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID,
		Amount:    p.Amount,
		Status:    p.Status,
		PaymentID: p.PaymentID,
		CreatedAt: p.CreatedAt,
	}
	if len(p.PixData) > 0 {
		resp.PixData = json.RawMessage(p.PixData)
	}
	return resp
}
