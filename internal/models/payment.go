package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusApproved  = "approved"
	PaymentStatusRejected  = "rejected"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusRefunded  = "refunded"
)

// Payment is a balance top-up record. The balance credit happens at most once
// per payment, gated on the transition into approved from any other status.
type Payment struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint           `gorm:"index;not null"`
	Amount    float64        `gorm:"type:decimal(20,8);not null"`
	PaymentID *string        `gorm:"index"` // gateway-assigned id, nil until accepted
	Status    string         `gorm:"default:'pending'"`
	PixData   datatypes.JSON `gorm:"type:json"` // qr_code / qr_code_base64 / ticket_url / expires_at snapshot
}
