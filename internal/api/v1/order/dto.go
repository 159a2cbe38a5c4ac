package order

import (
	"smmpanel-backend/internal/models"
	"time"
)

type OrderResponse struct {
	ID            uint      `json:"id"`
	ServiceID     int64     `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	Link          string    `json:"link"`
	Quantity      int       `json:"quantity"`
	Charge        float64   `json:"charge"`
	StartCount    int       `json:"start_count"`
	Status        string    `json:"status"`
	BaratoOrderID *int64    `json:"barato_order_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type SyncResponse struct {
	Updated int `json:"updated"`
}

func toResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		ServiceID:     o.ServiceID,
		ServiceName:   o.ServiceName,
		Link:          o.Link,
		Quantity:      o.Quantity,
		Charge:        o.Charge,
		StartCount:    o.StartCount,
		Status:        o.Status,
		BaratoOrderID: o.BaratoOrderID,
		CreatedAt:     o.CreatedAt,
	}
}
