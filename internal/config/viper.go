package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Backend names accepted by store.backend.
const (
	BackendCSV    = "csv"
	BackendSheets = "sheets"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
		DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
		Sheets  struct {
			SpreadsheetID   string        `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
			CredentialsFile string        `mapstructure:"credentials_file" yaml:"credentials_file"`
			ExistenceTTL    time.Duration `mapstructure:"existence_ttl" yaml:"existence_ttl"`
		} `mapstructure:"sheets" yaml:"sheets"`
	} `mapstructure:"store" yaml:"store"`

	Retry struct {
		MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
		BaseDelay   time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
		MaxDelay    time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
	} `mapstructure:"retry" yaml:"retry"`

	Ledger struct {
		Currency        string  `mapstructure:"currency" yaml:"currency"`
		RegistrationFee float64 `mapstructure:"registration_fee" yaml:"registration_fee"`
		WorkFees        struct {
			TutoredProject float64 `mapstructure:"tutored_project" yaml:"tutored_project"`
			Internship     float64 `mapstructure:"internship" yaml:"internship"`
			Thesis         float64 `mapstructure:"thesis" yaml:"thesis"`
		} `mapstructure:"work_fees" yaml:"work_fees"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Auth struct {
		DefaultAdminUser     string `mapstructure:"default_admin_user" yaml:"default_admin_user"`
		DefaultAdminPassword string `mapstructure:"default_admin_password" yaml:"-"`
	} `mapstructure:"auth" yaml:"auth"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	} `mapstructure:"metrics" yaml:"metrics"`
}

// InitializeConfig resolves the configuration: defaults, then caisse.yaml
// ($HOME/.caisse, ./.caisse, .), then CAISSE_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("caisse")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.caisse")
	v.AddConfigPath(".caisse")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CAISSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// Google's own variable names take part too, unprefixed.
	if err := v.BindEnv("store.sheets.credentials_file", "CAISSE_STORE_SHEETS_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"); err != nil {
		return nil, fmt.Errorf("failed to bind credentials variable: %w", err)
	}
	if err := v.BindEnv("store.sheets.spreadsheet_id", "CAISSE_STORE_SHEETS_SPREADSHEET_ID", "GOOGLE_SPREADSHEET_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind spreadsheet variable: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.backend", BackendCSV)
	v.SetDefault("store.data_dir", "data")
	v.SetDefault("store.sheets.spreadsheet_id", "")
	v.SetDefault("store.sheets.credentials_file", "")
	v.SetDefault("store.sheets.existence_ttl", 60*time.Second)

	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.base_delay", time.Second)
	v.SetDefault("retry.max_delay", 32*time.Second)

	v.SetDefault("ledger.currency", "USD")
	v.SetDefault("ledger.registration_fee", 10.0)
	v.SetDefault("ledger.work_fees.tutored_project", 10.0)
	v.SetDefault("ledger.work_fees.internship", 10.0)
	v.SetDefault("ledger.work_fees.thesis", 150.0)

	v.SetDefault("auth.default_admin_user", "admin")
	v.SetDefault("auth.default_admin_password", "")

	v.SetDefault("metrics.enabled", false)
}

// Default returns the configuration made of defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks cfg again, for callers that override values after loading.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	switch cfg.Store.Backend {
	case BackendCSV:
		if cfg.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required for the csv backend")
		}
	case BackendSheets:
		if cfg.Store.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("store.sheets.spreadsheet_id (or GOOGLE_SPREADSHEET_ID) is required for the sheets backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be '%s' or '%s')", cfg.Store.Backend, BackendCSV, BackendSheets)
	}

	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got: %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay <= 0 || cfg.Retry.MaxDelay < cfg.Retry.BaseDelay {
		return fmt.Errorf("retry delays must satisfy 0 < base_delay <= max_delay")
	}
	if cfg.Ledger.RegistrationFee <= 0 {
		return fmt.Errorf("ledger.registration_fee must be positive")
	}
	return nil
}
