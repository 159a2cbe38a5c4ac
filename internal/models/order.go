package models

import "time"

// Upstream order status vocabulary. Status is stored as free text because the
// provider may introduce values beyond these; the constants cover the ones the
// panel reasons about.
const (
	OrderStatusPending    = "Pending"
	OrderStatusInProgress = "In progress"
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
)

// PendingOrderStatuses are the statuses bulk reconciliation considers open.
var PendingOrderStatuses = []string{OrderStatusPending, OrderStatusInProgress, OrderStatusProcessing}

type Order struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint    `gorm:"index;not null"`
	ServiceID     int64   `gorm:"not null"` // upstream id, snapshotted at order time
	ServiceName   string  `gorm:"not null"`
	Link          string  `gorm:"not null"`
	Quantity      int     `gorm:"not null"`
	Charge        float64 `gorm:"type:decimal(20,8);not null"` // amount actually debited
	StartCount    int     `gorm:"default:0"`
	Status        string  `gorm:"default:'Pending'"`
	BaratoOrderID *int64  `gorm:"index"` // upstream order id, nil if never returned
}
