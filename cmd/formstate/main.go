// Formstate loads declarative form definitions and works with them from the
// terminal: validating stored values, filling a form interactively, printing
// the tab layout, linting definitions and importing OpenAPI operations.
//
// Usage:
//
//	formstate [command] [flags]
//
// Settings come from formstate.yaml, FORMSTATE_* environment variables and
// flags, in increasing order of precedence.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what the commands share once flags and config are resolved.
type app struct {
	configPath string
	cfg        config.Config
	logger     *zap.Logger
	// driver overrides the survey prompt driver; tests script it.
	driver tui.PromptDriver
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formstate",
		Short: "Validate, fill and inspect declarative forms",
		Long: `Formstate works with YAML or JSON form definitions.

A definition argument is either a path to a definition file or the id of a
definition stored in the definitions directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./formstate.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error); silent when empty")
	flags.String("output", "", "output format (json, form, pretty)")
	flags.String("definitions", "", "directory holding definition files")
	flags.Int("max-attempts", 0, "correction rounds before fill gives up")

	root.AddCommand(
		newValidateCmd(a),
		newFillCmd(a),
		newLayoutCmd(a),
		newLintCmd(a),
		newImportCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	a.logger.Debug("config loaded",
		zap.String("output", cfg.Output),
		zap.String("definitions", cfg.Definitions),
		zap.Int("max_attempts", cfg.MaxAttempts),
	)
	return nil
}
