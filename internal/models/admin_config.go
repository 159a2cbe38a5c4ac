package models

import "time"

// AdminConfig keys recognized by the panel.
const (
	ConfigKeyBaratoAPIKey   = "barato_api_key"
	ConfigKeyProfitMargin   = "profit_margin"
	ConfigKeyMPAccessToken  = "mp_access_token"
	ConfigKeyMPPublicKey    = "mp_public_key"
	ConfigKeyMPClientID     = "mp_client_id"
	ConfigKeyMPClientSecret = "mp_client_secret"
)

// AdminConfig is a generic key-value store for credentials and the profit
// margin percentage.
type AdminConfig struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;not null"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
