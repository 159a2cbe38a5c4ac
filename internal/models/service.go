package models

import "time"

// Service mirrors one upstream catalog entry. Rows are created and refreshed
// only by catalog sync, keyed by the upstream ServiceID; IsActive is toggled
// independently by admins and never touched by sync.
type Service struct {
	ID          uint  `gorm:"primarykey"`
	ServiceID   int64 `gorm:"uniqueIndex;not null"`
	Name        string
	Type        string
	Rate        float64 `gorm:"type:decimal(20,8);not null"` // upstream price per 1000 units
	Min         int     `gorm:"not null"`
	Max         int     `gorm:"not null"`
	Category    string
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"default:true"`
	UpdatedAt   time.Time
}

// FinalRate returns the resale price per 1000 units after applying the
// profit margin percentage. Never persisted.
func (s *Service) FinalRate(profitMargin float64) float64 {
	return s.Rate * (1 + profitMargin/100)
}
