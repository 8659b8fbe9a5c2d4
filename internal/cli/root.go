// Package cli implements the pawtrail command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/pawtrail/internal/app"
	"github.com/jacentio/pawtrail/internal/config"
)

// ConfigEnv names the environment variable consulted when --config is unset.
const ConfigEnv = "PAWTRAIL_CONFIG"

// AppFactory builds the wired application for a command.
type AppFactory func(ctx context.Context, cfg *config.Config, opts ...app.Option) (*app.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"

	newApp AppFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pawtrail CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(app.New)
}

// NewRootCommandWith creates the root command using factory to build the
// application.
func NewRootCommandWith(factory AppFactory) *cobra.Command {
	opts := &RootOptions{newApp: factory}

	cmd := &cobra.Command{
		Use:   "pawtrail",
		Short: "pawtrail - walkers and the animals they walk",
		Long: `Manage walkers, kept in DynamoDB, and animals, kept in a relational
database, and query both through one schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (yaml or toml; default $"+ConfigEnv+")")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewWalkersCommand(opts))
	cmd.AddCommand(NewAnimalsCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig reads --config, then $PAWTRAIL_CONFIG, falling back to defaults.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openApp loads configuration and wires the application. Logs go to the
// command's stderr; --verbose forces debug level.
func (o *RootOptions) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := app.NewLogger(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configuring logger", err)
	}

	a, err := o.newApp(cmd.Context(), cfg, app.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "starting pawtrail", err)
	}
	return a, nil
}

// closeApp releases a. With --verbose it first reports the store call
// counters gathered during the command.
func (o *RootOptions) closeApp(cmd *cobra.Command, a *app.App) {
	if o.Verbose {
		f := o.formatter(cmd)
		totals, err := a.Metrics.Totals()
		if err != nil {
			f.VerboseLog("gathering store calls: %v", err)
		}
		for _, t := range totals {
			f.VerboseLog("store calls %s/%s %s: %.0f", t.Store, t.Op, t.Outcome, t.Count)
		}
	}
	if err := a.Close(); err != nil {
		a.Logger.Warn("failed to close stores", "error", err)
	}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
