// Package cli implements the corecall command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/corecall/internal/config"
	"github.com/mrz1836/corecall/internal/output"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	syncCalls    bool
	restURL      string
	faucetURL    string

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "corecall",
	Short: "Drive an Aptos wallet core across the native call boundary",
	Long: `corecall opens one wallet core per process and talks to it through
encoded request and response envelopes, either blocking (--sync) or
asynchronously with results delivered on a serial main queue.

The core reaches an Aptos REST node and faucet, both configurable.

Example:
  corecall account create --fund 5000
  corecall balance 0x2d3c... 0x9a1f...
  corecall tx create --from 0x2d3c... --to 0x9a1f... --amount 100`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	// PersistentPostRun is skipped when a command fails.
	cleanup()
	if err != nil {
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(os.Stderr, err, format)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return coreerr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		cfg = config.Defaults()
		cfg.Home = home
	}

	config.ApplyEnvironment(cfg)

	// Flags win over environment and file.
	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = config.LogLevelDebug.String()
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}
	if restURL != "" {
		cfg.Network.RestURL = config.SanitizeURL(restURL)
	}
	if faucetURL != "" {
		cfg.Network.FaucetURL = config.SanitizeURL(faucetURL)
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
	}

	explicit := output.ParseFormat(cfg.Output.DefaultFormat)
	formatter = output.NewFormatter(output.DetectFormat(os.Stdout, explicit), os.Stdout)

	return nil
}

// cleanup closes the core session, if one was opened, then the logger.
// Safe to call more than once.
func cleanup() {
	closeSession()
	if logger != nil {
		_ = logger.Close()
		logger = nil
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "wallet", Title: "Wallet Operations:"},
		&cobra.Group{ID: "diagnostics", Title: "Core Diagnostics:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&homeDir, "home", "", "corecall data directory (default: ~/.corecall)")
	pf.StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&syncCalls, "sync", false, "block on each core call instead of awaiting it")
	pf.StringVar(&restURL, "rest-url", "", "Aptos REST node URL (overrides config)")
	pf.StringVar(&faucetURL, "faucet-url", "", "Aptos faucet URL (overrides config)")
}
