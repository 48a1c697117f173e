package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

const (
	lookupTimeout  = 15 * time.Second
	lookupRetries  = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second
	maxBodySize    = 1 * 1024 * 1024
)

// floorVersions are the compiled-in fallbacks used when the vendor lookup
// fails and no earlier lookup succeeded this process. They are deliberately
// conservative: a stale floor can only make a "latest" check easier to pass,
// never fail a fully patched machine.
var floorVersions = map[string]string{
	"darwin":  "14.0",
	"linux":   "22.04",
	"windows": "10.0.19045",
}

// latestEndpoints map a platform to a JSON endpoint whose response carries
// the newest release version under a "latest" key.
var latestEndpoints = map[string]string{
	"darwin": "https://sofafeed.macadmins.io/v1/macos_data_feed.json",
}

// LatestVersionResolver resolves the newest OS release for a platform. The
// vendor lookup can be slow or unreachable, so every call degrades to the
// last value that did resolve, and finally to a compiled-in floor. Resolve
// never fails; the OS version comparison must stay usable offline.
type LatestVersionResolver struct {
	client    *http.Client
	log       *logger.Logger
	mu        sync.Mutex
	lastKnown map[string]string
}

// NewLatestVersionResolver creates a resolver with a bounded HTTP client.
func NewLatestVersionResolver(log *logger.Logger) *LatestVersionResolver {
	return &LatestVersionResolver{
		client:    &http.Client{Timeout: lookupTimeout},
		log:       log.WithComponent("latestver"),
		lastKnown: make(map[string]string),
	}
}

// Resolve returns the latest known version for the platform.
func (r *LatestVersionResolver) Resolve(ctx context.Context, platform string) string {
	version, err := r.lookup(ctx, platform)
	if err == nil && version != "" {
		r.mu.Lock()
		r.lastKnown[platform] = version
		r.mu.Unlock()
		return version
	}
	if err != nil {
		r.log.Warn().
			Str("platform", platform).
			Err(err).
			Msg("latest version lookup failed, using last known value")
	}

	r.mu.Lock()
	cached := r.lastKnown[platform]
	r.mu.Unlock()
	if cached != "" {
		return cached
	}
	return floorVersions[platform]
}

func (r *LatestVersionResolver) lookup(ctx context.Context, platform string) (string, error) {
	endpoint, ok := latestEndpoints[platform]
	if !ok {
		return "", fmt.Errorf("no latest-version endpoint for platform %q", platform)
	}

	var version string
	err := retry.Do(func() error {
		v, err := r.fetch(ctx, endpoint)
		if err != nil {
			return err
		}
		version = v
		return nil
	}, retry.Attempts(lookupRetries), retry.Delay(initialBackoff), retry.MaxDelay(maxBackoff), retry.Context(ctx))
	if err != nil {
		return "", err
	}
	return version, nil
}

func (r *LatestVersionResolver) fetch(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.log.Warn().Err(err).Msg("error closing lookup response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read lookup response: %w", err)
	}
	return parseLatestFeed(body)
}

// parseLatestFeed extracts the newest ProductVersion from a SOFA-style feed.
func parseLatestFeed(body []byte) (string, error) {
	var feed struct {
		OSVersions []struct {
			Latest struct {
				ProductVersion string `json:"ProductVersion"`
			} `json:"Latest"`
		} `json:"OSVersions"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return "", fmt.Errorf("failed to parse feed: %w", err)
	}
	if len(feed.OSVersions) == 0 || feed.OSVersions[0].Latest.ProductVersion == "" {
		return "", fmt.Errorf("feed contained no version data")
	}
	return feed.OSVersions[0].Latest.ProductVersion, nil
}
