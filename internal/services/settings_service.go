package services

import (
	"smmpanel-backend/internal/baratosocial"
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/mercadopago"
	"smmpanel-backend/internal/models"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

const settingsCacheKey = "panel:settings"

var (
	ErrBaratoNotConfigured      = errors.New("reseller api is not configured")
	ErrMercadoPagoNotConfigured = errors.New("payment gateway is not configured")
)

// PanelSettings is the explicit configuration object threaded into the pricing
// engine and the two external clients. It is loaded once per request from the
// admin config table, cached in redis, and invalidated on every admin config
// write.
type PanelSettings struct {
	BaratoAPIKey  string  `json:"barato_api_key"`
	ProfitMargin  float64 `json:"profit_margin"`
	MPAccessToken string  `json:"mp_access_token"`
	MPPublicKey   string  `json:"mp_public_key"`
}

// BaratoClient builds a reseller client from the stored credentials.
func (s *PanelSettings) BaratoClient() (*baratosocial.Client, error) {
	if s.BaratoAPIKey == "" {
		return nil, ErrBaratoNotConfigured
	}
	return baratosocial.New(s.BaratoAPIKey), nil
}

// MercadoPagoClient builds a gateway client from the stored credentials.
func (s *PanelSettings) MercadoPagoClient() (*mercadopago.Client, error) {
	if s.MPAccessToken == "" {
		return nil, ErrMercadoPagoNotConfigured
	}
	return mercadopago.New(s.MPAccessToken, s.MPPublicKey), nil
}

// LoadPanelSettings reads the panel settings, going through the redis cache
// when available. An unset or unparseable margin falls back to 0.
func LoadPanelSettings() (*PanelSettings, error) {
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, settingsCacheKey).Result()
		if err == nil {
			var settings PanelSettings
			if err := json.Unmarshal([]byte(val), &settings); err == nil {
				return &settings, nil
			}
		}
	}

	values, err := GetAllConfig()
	if err != nil {
		return nil, err
	}

	margin := 0.0
	if raw, ok := values[models.ConfigKeyProfitMargin]; ok && raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			margin = parsed
		}
	}

	settings := &PanelSettings{
		BaratoAPIKey:  values[models.ConfigKeyBaratoAPIKey],
		ProfitMargin:  margin,
		MPAccessToken: values[models.ConfigKeyMPAccessToken],
		MPPublicKey:   values[models.ConfigKeyMPPublicKey],
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(settings); err == nil {
			database.RedisClient.Set(database.Ctx, settingsCacheKey, data, time.Hour)
		}
	}

	return settings, nil
}

// GetAllConfig returns the whole key-value config table.
func GetAllConfig() (map[string]string, error) {
	var configs []models.AdminConfig
	if err := database.DB.Find(&configs).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(configs))
	for _, c := range configs {
		values[c.Key] = c.Value
	}
	return values, nil
}

// SetConfigValue upserts one config key and invalidates the settings cache.
func SetConfigValue(key, value string) error {
	var config models.AdminConfig
	err := database.DB.Where("key = ?", key).First(&config).Error
	if err == nil {
		config.Value = value
		config.UpdatedAt = time.Now()
		if err := database.DB.Save(&config).Error; err != nil {
			return err
		}
	} else {
		config = models.AdminConfig{Key: key, Value: value}
		if err := database.DB.Create(&config).Error; err != nil {
			return err
		}
	}

	invalidateSettingsCache()
	return nil
}

// SetConfigValues upserts several config keys in one call.
func SetConfigValues(values map[string]string) error {
	for key, value := range values {
		if err := SetConfigValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDefaultConfig seeds the recognized config keys at first startup.
// Existing values are never overwritten.
func EnsureDefaultConfig() error {
	defaults := map[string]string{
		models.ConfigKeyProfitMargin:   "20",
		models.ConfigKeyBaratoAPIKey:   "",
		models.ConfigKeyMPAccessToken:  "",
		models.ConfigKeyMPPublicKey:    "",
		models.ConfigKeyMPClientID:     "",
		models.ConfigKeyMPClientSecret: "",
	}

	for key, value := range defaults {
		var existing models.AdminConfig
		err := database.DB.Where("key = ?", key).First(&existing).Error
		if err == nil {
			continue
		}
		if err := database.DB.Create(&models.AdminConfig{Key: key, Value: value}).Error; err != nil {
			return err
		}
	}
	return nil
}

func invalidateSettingsCache() {
	if database.RedisClient != nil {
		database.RedisClient.Del(database.Ctx, settingsCacheKey)
	}
}
