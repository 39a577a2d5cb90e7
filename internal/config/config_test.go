package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

var envKeys = []string{
	"APP_PORT", "LOG_LEVEL", "BALANCE_MODE", "POLICY_FILE",
	"MIN_STORE_STOCK", "MAX_STORE_STOCK", "MIN_WAREHOUSE_STOCK", "MAX_WAREHOUSE_STOCK",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_INVENTORY_ID",
	"PLAN_CRON_SCHEDULE", "TIMEZONE", "ANTHROPIC_API_KEY",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_PLAN_RECIPIENT",
}

func clearEnv(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	envFile := clearEnv(t)

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, models.Policy{MinStore: 10, MaxStore: 50, MinWarehouse: 50, MaxWarehouse: 100, Mode: models.ModeMinMax}, cfg.Policy)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, "Inventario!A:P", cfg.Sheets.InventoryRange)
}

func TestLoad_EnvPolicy(t *testing.T) {
	envFile := clearEnv(t)
	t.Setenv("MIN_STORE_STOCK", "4")
	t.Setenv("MAX_STORE_STOCK", "8")
	t.Setenv("BALANCE_MODE", "min")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Policy.MinStore)
	assert.Equal(t, 8, cfg.Policy.MaxStore)
	assert.Equal(t, models.ModeMinOnly, cfg.Policy.Mode)
}

func TestLoad_PolicyFileOverridesEnv(t *testing.T) {
	envFile := clearEnv(t)
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy:\n  min_store: 12\n  max_warehouse: 300\n"), 0o600))
	t.Setenv("POLICY_FILE", path)
	t.Setenv("MIN_STORE_STOCK", "4")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Policy.MinStore)
	assert.Equal(t, 50, cfg.Policy.MaxStore)
	assert.Equal(t, 300, cfg.Policy.MaxWarehouse)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non numeric target", env: map[string]string{"MIN_STORE_STOCK": "ten"}},
		{name: "max below min", env: map[string]string{"MIN_STORE_STOCK": "60", "MAX_STORE_STOCK": "50"}},
		{name: "negative target", env: map[string]string{"MIN_WAREHOUSE_STOCK": "-1"}},
		{name: "unknown mode", env: map[string]string{"BALANCE_MODE": "fifo"}},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{name: "missing policy file", env: map[string]string{"POLICY_FILE": "/nonexistent/policy.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile := clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(envFile)
			assert.Error(t, err)
		})
	}
}
