package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	AI        AIConfig
	WhatsApp  WhatsAppConfig
	Policy    models.Policy
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	InventoryRange  string
	PlanRange       string
}

// Enabled reports whether a spreadsheet has been configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
	Model        string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to
// push scheduled plan summaries.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	RecipientID   string
}

// Enabled reports whether plan summaries can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.RecipientID != ""
}

// policyFile mirrors the optional YAML policy document.
type policyFile struct {
	Policy struct {
		MinStore     *int   `yaml:"min_store"`
		MaxStore     *int   `yaml:"max_store"`
		MinWarehouse *int   `yaml:"min_warehouse"`
		MaxWarehouse *int   `yaml:"max_warehouse"`
		Mode         string `yaml:"mode"`
	} `yaml:"policy"`
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	mode, err := models.ParsePolicyMode(os.Getenv("BALANCE_MODE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_INVENTORY_ID"),
			InventoryRange:  getenvWithDefault("INVENTORY_SHEET_RANGE", "Inventario!A:P"),
			PlanRange:       getenvWithDefault("PLAN_SHEET_RANGE", "Plan!A1"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("PLAN_CRON_SCHEDULE", "0 6 * * 1-6"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Bogota"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:        getenvWithDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			RecipientID:   os.Getenv("WHATSAPP_PLAN_RECIPIENT"),
		},
	}

	cfg.Policy = models.Policy{Mode: mode}
	if cfg.Policy.MinStore, err = getenvInt("MIN_STORE_STOCK", 10); err != nil {
		return nil, err
	}
	if cfg.Policy.MaxStore, err = getenvInt("MAX_STORE_STOCK", 50); err != nil {
		return nil, err
	}
	if cfg.Policy.MinWarehouse, err = getenvInt("MIN_WAREHOUSE_STOCK", 50); err != nil {
		return nil, err
	}
	if cfg.Policy.MaxWarehouse, err = getenvInt("MAX_WAREHOUSE_STOCK", 100); err != nil {
		return nil, err
	}

	if path := os.Getenv("POLICY_FILE"); path != "" {
		if err := cfg.applyPolicyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Sheets.Enabled() && c.Sheets.InventoryRange == "" {
		return errors.New("INVENTORY_SHEET_RANGE must not be empty")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("PLAN_CRON_SCHEDULE must be provided")
	}

	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Reporting.Timezone, err)
	}

	if c.WhatsApp.Enabled() && (c.WhatsApp.BaseURL == "" || c.WhatsApp.APIVersion == "") {
		return errors.New("WHATSAPP_BASE_URL and WHATSAPP_API_VERSION must not be empty")
	}

	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("default policy: %w", err)
	}

	return nil
}

func (c *Config) applyPolicyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file %s: %w", path, err)
	}

	var doc policyFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse policy file %s: %w", path, err)
	}

	p := doc.Policy
	if p.MinStore != nil {
		c.Policy.MinStore = *p.MinStore
	}
	if p.MaxStore != nil {
		c.Policy.MaxStore = *p.MaxStore
	}
	if p.MinWarehouse != nil {
		c.Policy.MinWarehouse = *p.MinWarehouse
	}
	if p.MaxWarehouse != nil {
		c.Policy.MaxWarehouse = *p.MaxWarehouse
	}
	if p.Mode != "" {
		mode, err := models.ParsePolicyMode(p.Mode)
		if err != nil {
			return fmt.Errorf("policy file %s: %w", path, err)
		}
		c.Policy.Mode = mode
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
