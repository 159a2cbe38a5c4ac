package models

import "time"

type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string  `gorm:"uniqueIndex;not null"`
	Email     string  `gorm:"uniqueIndex;not null"`
	Password  string  `gorm:"not null"`
	Balance   float64 `gorm:"type:decimal(20,8);not null;default:0"`
	Role      string  `gorm:"not null;default:'user'"`
	Version   int     `gorm:"default:1"`

	Orders []Order `gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
