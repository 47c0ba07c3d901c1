// Package version reports the corecall build and checks GitHub for newer releases.
package version

import (
	"fmt"
	"strings"
)

// Build metadata, set at link time:
//
//	go build -ldflags "-X github.com/mrz1836/corecall/internal/version.Version=v1.0.0"
//
//nolint:gochecknoglobals // Link-time variables must be package-level
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the link-time build metadata.
func Current() BuildInfo {
	return BuildInfo{Version: Version, Commit: Commit, Date: Date}
}

// String renders "v1.2.3 (commit: abc1234, built: 2024-01-15)" with
// placeholders for anything not stamped at build time.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)",
		orDefault(b.Version, "dev"), orDefault(b.Commit, "unknown"), orDefault(b.Date, "unknown"))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// CompareVersions returns 1 if v1 is newer than v2, -1 if older and 0 when
// equal. Development builds and commit hashes sort before every release.
func CompareVersions(v1, v2 string) int {
	v1 = strings.TrimPrefix(v1, "v")
	v2 = strings.TrimPrefix(v2, "v")

	dev1, dev2 := isDevelopment(v1), isDevelopment(v2)
	switch {
	case dev1 && dev2:
		return 0
	case dev1:
		return -1
	case dev2:
		return 1
	}

	p1, p2 := parseVersion(v1), parseVersion(v2)
	for i := range 3 {
		a, b := part(p1, i), part(p2, i)
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}
	return 0
}

// IsNewerVersion reports whether latest is newer than current.
func IsNewerVersion(current, latest string) bool {
	return CompareVersions(latest, current) > 0
}

// NormalizeVersion strips whitespace, "v" prefixes and any pre-release or
// build suffix.
func NormalizeVersion(v string) string {
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}
	return strings.TrimLeft(strings.TrimSpace(v), "v")
}

func isDevelopment(v string) bool {
	return v == "" || v == "dev" || isCommitHash(v)
}

func part(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// parseVersion parses "1.2.3-rc1" into [1 2 3].
func parseVersion(v string) []int {
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}

	fields := strings.Split(v, ".")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		var n int
		if _, err := fmt.Sscanf(f, "%d", &n); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// isCommitHash matches 7 to 40 hex characters with at least one letter, so
// that a purely numeric version is never mistaken for a hash.
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")
	if len(s) < 7 || len(s) > 40 {
		return false
	}

	letter := false
	for _, c := range strings.ToLower(s) {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
			letter = true
		default:
			return false
		}
	}
	return letter
}
