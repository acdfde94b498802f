package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "EDITOR_SESSION_TTL", "ESTOQUE_API_URL", "ESTOQUE_API_TIMEOUT",
		"ESTOQUE_TOKEN_FILE", "ESTOQUE_SERVICE_TOKEN", "LOG_LEVEL",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_EXPORT_ID", "EXPORT_SHEET_RANGE",
		"EXPORT_CRON_SCHEDULE", "TIMEZONE", "MONGODB_URI", "MONGODB_DB_NAME",
	} {
		t.Setenv(key, "")
		// godotenv never overrides variables that exist, even when empty.
		_ = os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("timeout = %s", cfg.API.Timeout)
	}
	if cfg.Server.Port != "8080" || cfg.Server.SessionTTL != 30*time.Minute {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Sheets.Enabled() || cfg.MongoDB.Enabled() {
		t.Fatalf("optional integrations must be disabled by default")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := strings.Join([]string{
		"ESTOQUE_API_URL=https://estoque.example.com",
		"ESTOQUE_API_TIMEOUT=5s",
		"GOOGLE_SHEET_EXPORT_ID=sheet-1",
		"GOOGLE_SHEETS_CREDENTIALS_PATH=/tmp/creds.json",
		"MONGODB_URI=mongodb://localhost:27017",
	}, "\n")
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://estoque.example.com" || cfg.API.Timeout != 5*time.Second {
		t.Fatalf("api = %+v", cfg.API)
	}
	if !cfg.Sheets.Enabled() || cfg.Sheets.Range != "Entradas!A1" {
		t.Fatalf("sheets = %+v", cfg.Sheets)
	}
	if !cfg.MongoDB.Enabled() || cfg.MongoDB.DBName != "estoque" {
		t.Fatalf("mongodb = %+v", cfg.MongoDB)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", SessionTTL: time.Minute},
			API:    APIConfig{BaseURL: "http://localhost:8000", Timeout: time.Second},
			Sheets: SheetsConfig{Range: "A1"},
			Export: ExportConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "/v1" }, "ESTOQUE_API_URL"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "ESTOQUE_API_TIMEOUT"},
		{"sheets without credentials", func(c *Config) { c.Sheets.SpreadsheetID = "x" }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"bad cron", func(c *Config) { c.Export.CronSchedule = "every day" }, "EXPORT_CRON_SCHEDULE"},
		{"bad timezone", func(c *Config) { c.Export.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"mongo without db", func(c *Config) { c.MongoDB.URI = "mongodb://x" }, "MONGODB_DB_NAME"},
		{"no port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %s", err, tt.want)
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("ESTOQUE_API_TIMEOUT", "fast")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected duration error")
	}
}
