// Package upstream contains the HTTP clients for the system of record:
// the root order API, the per-collection batch endpoints and the photo
// asset endpoints. All clients share one base Client carrying the HTTP
// transport, authentication and base URLs.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

var (
	// ErrRequestFailed indicates the upstream was unreachable or answered
	// with an error status
	ErrRequestFailed = errors.New("upstream: request failed")
	// ErrBadResponse indicates the upstream answered 2xx with a payload
	// that does not match the contract
	ErrBadResponse = errors.New("upstream: malformed response")
)

// Config holds the connection settings for the upstream APIs
type Config struct {
	BaseURL        string
	AssetBaseURL   string
	Token          string
	TimeoutSeconds int
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("upstream: base URL is required")
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("upstream: timeout must be positive")
	}
	return nil
}

// Client is the shared HTTP base for the upstream API clients
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Resolve normalizes an asset locator into an absolute URL. Locators
// that are already absolute pass through unchanged.
func (c *Client) Resolve(locator string) string {
	if locator == "" {
		return ""
	}
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return locator
	}
	base := c.config.AssetBaseURL
	if base == "" {
		base = c.config.BaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(locator, "/")
}

// doJSON sends one JSON request and decodes the response into out when
// out is non-nil. Transport and status errors wrap ErrRequestFailed,
// undecodable bodies wrap ErrBadResponse.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("upstream: marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("upstream: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("upstream: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}
	return nil
}

// do sends one request with an arbitrary body, used for multipart
// uploads.
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("upstream: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("upstream: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}
	return nil
}
