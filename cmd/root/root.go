// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/caisse/internal/config"
	"fjacquet/caisse/internal/container"
	"fjacquet/caisse/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to every command
type CommonFlags struct {
	User    string
	Format  string
	Output  string
	Backend string
	DataDir string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "caisse",
		Short: "A CLI tool to keep a school's petty-cash ledger in CSV files or a Google spreadsheet.",
		Long: `caisse keeps the petty-cash books of a school: class rosters, student
payments, exam and general expenses, registration and work fees, and a
journal of every change. Tables live in CSV files or in the sheets of one
Google spreadsheet.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to caisse!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}

	app *container.Container
)

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVarP(&SharedFlags.User, "user", "u", config.GetEnv("CAISSE_USER", "admin"), "User recorded in the journal")
	pf.StringVarP(&SharedFlags.Format, "format", "f", "table", "Output format: table, json, yaml or csv")
	pf.StringVarP(&SharedFlags.Output, "output", "o", "", "Write output to this file instead of stdout")
	pf.StringVar(&SharedFlags.Backend, "backend", "", "Override store.backend (csv or sheets)")
	pf.StringVar(&SharedFlags.DataDir, "data-dir", "", "Override store.data_dir")
}

func setup(cmd *cobra.Command, args []string) error {
	if app != nil {
		return nil
	}
	config.LoadEnv()
	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	if SharedFlags.Backend != "" {
		cfg.Store.Backend = SharedFlags.Backend
	}
	if SharedFlags.DataDir != "" {
		cfg.Store.DataDir = SharedFlags.DataDir
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := container.NewContainer(Context(cmd), cfg)
	if err != nil {
		return err
	}
	SetApp(c)
	return nil
}

// App returns the container built for the running command.
func App() *container.Container {
	return app
}

// SetApp installs c as the running container. Tests use it to skip
// configuration loading.
func SetApp(c *container.Container) {
	app = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// Context returns the command context, never nil.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
