package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CAISSE_LOG_LEVEL", "CAISSE_LOG_FORMAT", "CAISSE_STORE_BACKEND", "CAISSE_STORE_DATA_DIR",
		"CAISSE_STORE_SHEETS_SPREADSHEET_ID", "CAISSE_STORE_SHEETS_CREDENTIALS_FILE",
		"CAISSE_RETRY_MAX_ATTEMPTS", "GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_SPREADSHEET_ID",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, BackendCSV, cfg.Store.Backend)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, 60*time.Second, cfg.Store.Sheets.ExistenceTTL)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 32*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, "USD", cfg.Ledger.Currency)
	assert.Equal(t, 10.0, cfg.Ledger.RegistrationFee)
	assert.Equal(t, 150.0, cfg.Ledger.WorkFees.Thesis)
	assert.Equal(t, "admin", cfg.Auth.DefaultAdminUser)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("CAISSE_LOG_LEVEL", "debug")
	t.Setenv("CAISSE_STORE_BACKEND", "sheets")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("CAISSE_RETRY_MAX_ATTEMPTS", "3")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, BackendSheets, cfg.Store.Backend)
	assert.Equal(t, "sheet-123", cfg.Store.Sheets.SpreadsheetID)
	assert.Equal(t, "/secrets/sa.json", cfg.Store.Sheets.CredentialsFile)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestInitializeConfig_ConfigFileAndPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	content := `
log:
  level: warn
  format: json
store:
  data_dir: ledger-data
  sheets:
    existence_ttl: 30s
ledger:
  currency: CDF
  work_fees:
    thesis: 200
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "caisse.yaml"), []byte(content), 0o644))
	chdir(t, dir)
	t.Setenv("CAISSE_LOG_LEVEL", "error")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "env wins over file")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "ledger-data", cfg.Store.DataDir)
	assert.Equal(t, 30*time.Second, cfg.Store.Sheets.ExistenceTTL)
	assert.Equal(t, "CDF", cfg.Ledger.Currency)
	assert.Equal(t, 200.0, cfg.Ledger.WorkFees.Thesis)
	assert.Equal(t, 10.0, cfg.Ledger.WorkFees.Internship, "untouched keys keep defaults")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "xlsx" }, "invalid store backend"},
		{"sheets without id", func(c *Config) { c.Store.Backend = BackendSheets }, "spreadsheet_id"},
		{"csv without dir", func(c *Config) { c.Store.DataDir = "" }, "data_dir"},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, "max_attempts"},
		{"inverted delays", func(c *Config) { c.Retry.MaxDelay = time.Millisecond }, "retry delays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modifyConfig(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	assert.NoError(t, validateConfig(Default()))
}
