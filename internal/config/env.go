package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "CORECALL_HOME"
	EnvRestURL      = "CORECALL_REST_URL"
	EnvFaucetURL    = "CORECALL_FAUCET_URL"
	EnvOutputFormat = "CORECALL_OUTPUT_FORMAT"
	EnvVerbose      = "CORECALL_VERBOSE"
	EnvLogLevel     = "CORECALL_LOG_LEVEL"
	EnvWorkers      = "CORECALL_WORKERS"
	EnvBackend      = "CORECALL_BACKEND"
	EnvNoColor      = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRestURL); v != "" {
		cfg.Network.RestURL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvFaucetURL); v != "" {
		cfg.Network.FaucetURL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Core.Backend = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Core.Workers = n
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL trims copy-paste artifacts from a user supplied endpoint: surrounding
// whitespace, embedded control characters and a trailing slash. Values that do
// not parse as absolute URLs are returned trimmed but otherwise untouched.
func SanitizeURL(raw string) string {
	s := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return s
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
