package cli

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/corecall/internal/config"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify corecall configuration settings.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.corecall/config.yaml.

An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after environment variables and flags are
applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get one configuration value by its dotted path.

Examples:
  corecall config get network.rest_url
  corecall config get core.workers`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set one configuration value by its dotted path and save the file.

Examples:
  corecall config set network.faucet_url http://localhost:8081
  corecall config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

var errTooFewWorkers = errors.New("must be at least 1")

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	configCmd.GroupID = "config"
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configGetCmd, configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return coreerr.WithSuggestion(
			coreerr.WithDetails(coreerr.ErrGeneral, map[string]string{"path": configPath}),
			"configuration already exists; use --force to overwrite",
		)
	}

	defaults := config.Defaults()
	defaults.Home = cfg.Home
	if err := config.Save(defaults, configPath); err != nil {
		return coreerr.Wrap(err, "write config file")
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - network.rest_url: Aptos REST node")
	outln(w, "  - network.faucet_url: Aptos faucet")
	outln(w, "  - core.workers: size of the core's async worker pool")
	outln(w, "  - logging.level: off, error, info or debug")
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	values := make(map[string]string, len(configKeys))
	for _, key := range configKeys {
		values[key], _ = getConfigValue(cfg, key)
	}
	return formatter.Render(cmd.OutOrStdout(), values, func(w io.Writer) error {
		for _, key := range configKeys {
			out(w, "%-30s %s\n", key, values[key])
		}
		return nil
	})
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	v, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}
	outln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, value := args[0], args[1]

	configPath := config.Path(cfg.Home)
	current, err := config.Load(configPath)
	if err != nil {
		current = config.Defaults()
		current.Home = cfg.Home
	}

	if err := setConfigValue(current, path, value); err != nil {
		return err
	}
	if err := config.Save(current, configPath); err != nil {
		return coreerr.Wrap(err, "save config")
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)
	return nil
}

// configKeys lists every addressable setting in display order.
//
//nolint:gochecknoglobals // Fixed lookup table
var configKeys = []string{
	"home",
	"network.rest_url",
	"network.faucet_url",
	"network.balance_resource",
	"network.requests_per_second",
	"network.timeout_seconds",
	"core.backend",
	"core.workers",
	"core.memory_lock",
	"core.call_timeout_seconds",
	"core.close_timeout_seconds",
	"output.default_format",
	"output.color",
	"output.verbose",
	"logging.level",
	"logging.file",
}

// getConfigValue reads a setting by dotted path.
func getConfigValue(c *config.Config, path string) (string, error) {
	switch path {
	case "home":
		return c.Home, nil
	case "network.rest_url":
		return c.Network.RestURL, nil
	case "network.faucet_url":
		return c.Network.FaucetURL, nil
	case "network.balance_resource":
		return c.Network.BalanceResource, nil
	case "network.requests_per_second":
		return strconv.FormatFloat(c.Network.RequestsPerSec, 'g', -1, 64), nil
	case "network.timeout_seconds":
		return strconv.Itoa(c.Network.TimeoutSeconds), nil
	case "core.backend":
		return c.Core.Backend, nil
	case "core.workers":
		return strconv.Itoa(c.Core.Workers), nil
	case "core.memory_lock":
		return strconv.FormatBool(c.Core.MemoryLock), nil
	case "core.call_timeout_seconds":
		return strconv.Itoa(c.Core.CallTimeoutSecs), nil
	case "core.close_timeout_seconds":
		return strconv.Itoa(c.Core.CloseTimeoutSecs), nil
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.color":
		return c.Output.Color, nil
	case "output.verbose":
		return strconv.FormatBool(c.Output.Verbose), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.file":
		return c.Logging.File, nil
	}
	return "", unknownKey(path)
}

// setConfigValue writes a setting by dotted path, validating its value.
//
//nolint:gocyclo // One case per setting
func setConfigValue(c *config.Config, path, value string) error {
	var err error
	switch path {
	case "home":
		c.Home = value
	case "network.rest_url":
		c.Network.RestURL = config.SanitizeURL(value)
	case "network.faucet_url":
		c.Network.FaucetURL = config.SanitizeURL(value)
	case "network.balance_resource":
		c.Network.BalanceResource = value
	case "network.requests_per_second":
		c.Network.RequestsPerSec, err = strconv.ParseFloat(value, 64)
	case "network.timeout_seconds":
		c.Network.TimeoutSeconds, err = strconv.Atoi(value)
	case "core.backend":
		switch strings.ToLower(value) {
		case config.BackendGo, config.BackendRust:
			c.Core.Backend = strings.ToLower(value)
		default:
			return invalidValue(path, value, "go or rustcore")
		}
	case "core.workers":
		c.Core.Workers, err = strconv.Atoi(value)
		if err == nil && c.Core.Workers < 1 {
			err = errTooFewWorkers
		}
	case "core.memory_lock":
		c.Core.MemoryLock, err = strconv.ParseBool(value)
	case "core.call_timeout_seconds":
		c.Core.CallTimeoutSecs, err = strconv.Atoi(value)
	case "core.close_timeout_seconds":
		c.Core.CloseTimeoutSecs, err = strconv.Atoi(value)
	case "output.default_format":
		switch strings.ToLower(value) {
		case "text", "json", "auto":
			c.Output.DefaultFormat = strings.ToLower(value)
		default:
			return invalidValue(path, value, "text, json or auto")
		}
	case "output.color":
		c.Output.Color = value
	case "output.verbose":
		c.Output.Verbose, err = strconv.ParseBool(value)
	case "logging.level":
		level := strings.ToLower(value)
		if level != "off" && level != "none" && config.ParseLogLevel(level).String() != level {
			return invalidValue(path, value, "off, error, info or debug")
		}
		c.Logging.Level = level
	case "logging.file":
		c.Logging.File = value
	default:
		return unknownKey(path)
	}
	if err != nil {
		return invalidValue(path, value, err.Error())
	}
	return nil
}

func unknownKey(path string) error {
	return coreerr.WithSuggestion(
		coreerr.WithDetails(coreerr.ErrUnknownConfigKey, map[string]string{"key": path}),
		"run 'corecall config show' to list the available keys",
	)
}

func invalidValue(path, value, valid string) error {
	return coreerr.WithDetails(coreerr.ErrConfigInvalid, map[string]string{
		"key":   path,
		"value": value,
		"valid": valid,
	})
}
