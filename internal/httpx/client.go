// Package httpx wraps the stdlib HTTP client with the JSON GET helper used by
// the API clients.
package httpx

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/Alessio-Matteucci/Terremeteo/internal/logging"
	"github.com/Alessio-Matteucci/Terremeteo/internal/version"
)

// DefaultTimeout bounds a single request unless the caller passes a tighter
// context deadline.
const DefaultTimeout = 10 * time.Second

// UserAgent identifies the application to the APIs it calls.
var UserAgent = fmt.Sprintf("terremeteo/%s (%s; %s)", version.Version, runtime.GOOS, runtime.GOARCH)

// Client wraps the stdlib http.Client.
type Client struct {
	*http.Client
	logger *logging.Logger
}

// New returns an HTTP client with sane TLS settings and the default timeout.
func New(logger *logging.Logger) *Client {
	return &Client{
		Client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		logger: logger,
	}
}

// GetJSON performs a GET request against endpoint with the given query
// parameters and decodes the JSON response body into target. It returns the
// HTTP status code alongside any error.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, target any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return 0, fmt.Errorf("parse URL %q: %w", endpoint, err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("perform request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("unexpected status %s from %s", resp.Status, reqURL.Host)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp.StatusCode, fmt.Errorf("decode JSON: %w", err)
	}
	return resp.StatusCode, nil
}
