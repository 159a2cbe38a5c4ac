package services

import (
	"smmpanel-backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureDefaultConfig(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	err := EnsureDefaultConfig()
	assert.NoError(t, err)

	values, err := GetAllConfig()
	assert.NoError(t, err)
	assert.Equal(t, "20", values[models.ConfigKeyProfitMargin])
	assert.Contains(t, values, models.ConfigKeyBaratoAPIKey)
	assert.Contains(t, values, models.ConfigKeyMPAccessToken)

	// Seeding again never overwrites an admin-set value.
	err = SetConfigValue(models.ConfigKeyProfitMargin, "35")
	assert.NoError(t, err)
	err = EnsureDefaultConfig()
	assert.NoError(t, err)

	values, _ = GetAllConfig()
	assert.Equal(t, "35", values[models.ConfigKeyProfitMargin])
}

func TestLoadPanelSettings(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	assert.NoError(t, SetConfigValue(models.ConfigKeyBaratoAPIKey, "reseller-key"))
	assert.NoError(t, SetConfigValue(models.ConfigKeyProfitMargin, "25"))
	assert.NoError(t, SetConfigValue(models.ConfigKeyMPAccessToken, "gateway-token"))

	settings, err := LoadPanelSettings()
	assert.NoError(t, err)
	assert.Equal(t, "reseller-key", settings.BaratoAPIKey)
	assert.InDelta(t, 25, settings.ProfitMargin, 1e-9)
	assert.Equal(t, "gateway-token", settings.MPAccessToken)

	// Second load is served out of the cache.
	assert.True(t, mr.Exists("panel:settings"))

	// An admin write invalidates the cache and the new margin takes effect.
	assert.NoError(t, SetConfigValue(models.ConfigKeyProfitMargin, "30"))
	assert.False(t, mr.Exists("panel:settings"))

	settings, err = LoadPanelSettings()
	assert.NoError(t, err)
	assert.InDelta(t, 30, settings.ProfitMargin, 1e-9)
}

func TestLoadPanelSettings_BadMargin(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	assert.NoError(t, SetConfigValue(models.ConfigKeyProfitMargin, "not-a-number"))

	settings, err := LoadPanelSettings()
	assert.NoError(t, err)
	assert.InDelta(t, 0, settings.ProfitMargin, 1e-9)
}

func TestPanelSettingsClients(t *testing.T) {
	settings := &PanelSettings{}

	_, err := settings.BaratoClient()
	assert.ErrorIs(t, err, ErrBaratoNotConfigured)

	_, err = settings.MercadoPagoClient()
	assert.ErrorIs(t, err, ErrMercadoPagoNotConfigured)

	settings.BaratoAPIKey = "key"
	settings.MPAccessToken = "token"

	barato, err := settings.BaratoClient()
	assert.NoError(t, err)
	assert.Equal(t, "key", barato.APIKey)

	gateway, err := settings.MercadoPagoClient()
	assert.NoError(t, err)
	assert.Equal(t, "token", gateway.AccessToken)
}

func TestComputeChargeUsesLoadedMargin(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis()
	defer mr.Close()

	assert.NoError(t, EnsureDefaultConfig())

	settings, err := LoadPanelSettings()
	assert.NoError(t, err)
	assert.InDelta(t, 1.20, ComputeCharge(1.00, settings.ProfitMargin, 1000), 1e-9)
}
