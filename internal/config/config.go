package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Log     LogConfig
	Sheets  SheetsConfig
	Export  ExportConfig
	MongoDB MongoDBConfig
}

// ServerConfig holds options for the HTTP editor gateway.
type ServerConfig struct {
	Port       string
	SessionTTL time.Duration
}

// APIConfig describes how to reach the stock backend.
type APIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	TokenFile    string
	ServiceToken string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// SheetsConfig contains configuration required to export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether a target spreadsheet is configured.
func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// ExportConfig holds scheduler-related settings.
type ExportConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for the submission audit log.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether a MongoDB connection is configured.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

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
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	timeout, err := getDurationWithDefault("ESTOQUE_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := getDurationWithDefault("EDITOR_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       getenvWithDefault("APP_PORT", "8080"),
			SessionTTL: ttl,
		},
		API: APIConfig{
			BaseURL:      getenvWithDefault("ESTOQUE_API_URL", "http://127.0.0.1:8000"),
			Timeout:      timeout,
			TokenFile:    os.Getenv("ESTOQUE_TOKEN_FILE"),
			ServiceToken: os.Getenv("ESTOQUE_SERVICE_TOKEN"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
			Range:           getenvWithDefault("EXPORT_SHEET_RANGE", "Entradas!A1"),
		},
		Export: ExportConfig{
			CronSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "estoque"),
		},
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
	if c.Server.SessionTTL <= 0 {
		return errors.New("EDITOR_SESSION_TTL must be positive")
	}

	if c.API.BaseURL == "" {
		return errors.New("ESTOQUE_API_URL must be provided")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("ESTOQUE_API_URL %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("ESTOQUE_API_TIMEOUT must be positive")
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_EXPORT_ID is set")
		}
		if c.Sheets.Range == "" {
			return errors.New("EXPORT_SHEET_RANGE must not be empty")
		}
	}

	if _, err := cron.ParseStandard(c.Export.CronSchedule); err != nil {
		return fmt.Errorf("EXPORT_CRON_SCHEDULE is invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.Export.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
