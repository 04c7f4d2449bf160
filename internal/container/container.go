// Package container provides dependency injection for the caisse application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/caisse/internal/auth"
	"fjacquet/caisse/internal/config"
	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/report"
	"fjacquet/caisse/internal/retry"
	"fjacquet/caisse/internal/store"
	"fjacquet/caisse/internal/store/csvstore"
	"fjacquet/caisse/internal/store/sheetstore"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	backend store.Backend
	store   *store.Store
	ledger  *ledger.Service
	auth    *auth.Service
	reports *report.Generator
}

// Option customises container construction, mostly for tests.
type Option func(*options)

type options struct {
	logger    logging.Logger
	sheetsAPI sheetstore.API
	ledger    []ledger.Option
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSheetsAPI replaces the Google client used by the sheets backend.
func WithSheetsAPI(api sheetstore.API) Option {
	return func(o *options) { o.sheetsAPI = api }
}

// WithLedgerOptions passes extra options to the record service.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(o *options) { o.ledger = append(o.ledger, opts...) }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.NewLogger(cfg)
	}

	backend, err := newBackend(ctx, cfg, o, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Metrics.Enabled {
		backend = store.Instrument(backend)
	}

	st := store.New(backend, logger)
	ledgerOpts := append([]ledger.Option{ledger.WithSettings(Settings(cfg))}, o.ledger...)
	svc := ledger.New(st, logger, ledgerOpts...)

	logger.Info("Container initialized successfully",
		logging.F(logging.FieldBackend, backend.Name()),
		logging.F("metrics_enabled", cfg.Metrics.Enabled))

	return &Container{
		logger:  logger,
		config:  cfg,
		backend: backend,
		store:   st,
		ledger:  svc,
		auth:    auth.New(svc, logger),
		reports: report.NewGenerator(logger),
	}, nil
}

func newBackend(ctx context.Context, cfg *config.Config, o *options, logger logging.Logger) (store.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendCSV:
		b, err := csvstore.New(cfg.Store.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv store: %w", err)
		}
		return b, nil
	case config.BackendSheets:
		api := o.sheetsAPI
		if api == nil {
			g, err := sheetstore.NewGoogleAPI(ctx, cfg.Store.Sheets.SpreadsheetID, cfg.Store.Sheets.CredentialsFile)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to spreadsheet: %w", err)
			}
			api = g
		}
		retrier := retry.New(retry.Config{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		}, logger)
		return sheetstore.New(api, retrier, logger,
			sheetstore.WithExistenceTTL(cfg.Store.Sheets.ExistenceTTL)), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// Settings converts the ledger section of cfg.
func Settings(cfg *config.Config) ledger.Settings {
	return ledger.Settings{
		Currency:        cfg.Ledger.Currency,
		RegistrationFee: decimal.NewFromFloat(cfg.Ledger.RegistrationFee),
		WorkFees: map[string]decimal.Decimal{
			models.WorkTutoredProject: decimal.NewFromFloat(cfg.Ledger.WorkFees.TutoredProject),
			models.WorkInternship:     decimal.NewFromFloat(cfg.Ledger.WorkFees.Internship),
			models.WorkThesis:         decimal.NewFromFloat(cfg.Ledger.WorkFees.Thesis),
		},
	}
}

// Bootstrap creates the missing tables and the default administrator.
// A generated admin password is returned so the caller can show it once.
func (c *Container) Bootstrap(ctx context.Context) (string, error) {
	if err := c.ledger.Init(ctx); err != nil {
		return "", err
	}
	_, generated, err := c.auth.EnsureDefaultAdmin(ctx,
		c.config.Auth.DefaultAdminUser, c.config.Auth.DefaultAdminPassword)
	return generated, err
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetBackend returns the storage medium, instrumented when metrics are on.
func (c *Container) GetBackend() store.Backend {
	return c.backend
}

// GetStore returns the table store.
func (c *Container) GetStore() *store.Store {
	return c.store
}

// GetLedger returns the record service.
func (c *Container) GetLedger() *ledger.Service {
	return c.ledger
}

// GetAuth returns the user service.
func (c *Container) GetAuth() *auth.Service {
	return c.auth
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
