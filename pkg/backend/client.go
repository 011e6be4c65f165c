// Package backend is the typed client for the sales REST API: login and
// registration, the product catalog, batch availability, and order
// submission. It owns the mapping from transport and HTTP failures to the
// error taxonomy; callers never see raw transport errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// Config configures the backend client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout bounds each request. Zero means the default.
	Timeout time.Duration
}

// Client calls the sales backend. It forwards the bearer token captured at
// login on every subsequent request.
type Client struct {
	base string
	http *http.Client
	log  *slog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a backend client.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}, nil
}

// SetToken sets the bearer token forwarded on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// doRaw performs a request and returns the response body. Transport
// failures map to ErrUnreachable; non-2xx statuses map through mapStatus
// with the backend's own message when one can be extracted.
func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatus(resp.StatusCode, extractMessage(raw))
	}
	return raw, nil
}

// do performs a request expecting the standard {success, message, data}
// envelope and decodes data into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: malformed response envelope", ErrServerError)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrServerError, orDefault(env.Message, "request rejected"))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: malformed response data: %v", ErrServerError, err)
	}
	return nil
}

// extractMessage pulls the backend's message out of an error body. The
// backend is inconsistent: sometimes {message}, sometimes {data: "..."},
// sometimes a bare string.
func extractMessage(raw []byte) string {
	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		var s string
		if err := json.Unmarshal(env.Data, &s); err == nil {
			return s
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
