package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"runtime"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the GitHub API root.
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds one release lookup.
	DefaultTimeout = 30 * time.Second

	// Repository that publishes corecall releases.
	Owner = "mrz1836"
	Repo  = "corecall"

	maxErrorBody    = 1 << 10
	maxResponseBody = 64 << 10
)

// Errors returned by this package.
var (
	ErrGitHubAPIFailed  = errors.New("GitHub API request failed")
	ErrInvalidOwnerRepo = errors.New("owner/repo is empty or contains invalid characters")
)

var ownerRepoPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Release is the subset of a GitHub release corecall reads.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Check is the outcome of comparing the running build with the latest release.
type Check struct {
	Current string `json:"current"`
	Latest  string `json:"latest"`
	IsNewer bool   `json:"update_available"`
}

// Client fetches releases from the GitHub API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a release client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  fmt.Sprintf("corecall/%s (%s/%s)", orDefault(Version, "dev"), runtime.GOOS, runtime.GOARCH),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestRelease fetches the latest published release of owner/repo.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	if !ownerRepoPattern.MatchString(owner) || !ownerRepoPattern.MatchString(repo) {
		return nil, ErrInvalidOwnerRepo
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL is built from the fixed GitHub API root
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrGitHubAPIFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &rel, nil
}

// CheckLatest compares current with the latest corecall release.
func (c *Client) CheckLatest(ctx context.Context, current string) (*Check, error) {
	rel, err := c.LatestRelease(ctx, Owner, Repo)
	if err != nil {
		return nil, err
	}
	return &Check{
		Current: orDefault(current, "dev"),
		Latest:  rel.TagName,
		IsNewer: IsNewerVersion(current, rel.TagName),
	}, nil
}
