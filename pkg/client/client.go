// Package client talks to the ERP REST API from CLIs and other Go programs.
//
// The base URL and transport depend on the platform. A bearer token is read from
// the token store before every request and attached only when one is present.
// Requests are never retried.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Config carries the per-platform base URLs.
type Config struct {
	Platform      Platform
	WebBaseURL    string
	NativeBaseURL string
}

// Client is safe for concurrent use.
type Client struct {
	platform  Platform
	baseURL   string
	transport Transport
	tokens    TokenStore
	logger    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the platform transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithTokenStore sets where the bearer token is read from.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBaseURL overrides the platform base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// New builds a client for cfg.Platform.
func New(cfg Config, opts ...Option) *Client {
	platform := cfg.Platform
	if platform == "" {
		platform = PlatformWeb
	}
	c := &Client{
		platform: platform,
		baseURL:  ResolveBaseURL(platform, cfg),
		tokens:   NewMemoryTokenStore(""),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = TransportFor(platform)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Platform() Platform { return c.platform }

func (c *Client) Tokens() TokenStore { return c.tokens }

// Get issues a GET; query may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request. A non-nil body is sent as JSON. When out is non-nil the
// response body is decoded into it; 204 responses leave it untouched.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req := &Request{
		Method: method,
		URL:    c.url(path, query),
		Header: make(http.Header),
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.Body = raw
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("url", req.URL), zap.Error(err))
		return err
	}
	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("url", req.URL),
		zap.Int("status", resp.Status),
	)

	if resp.Status < 200 || resp.Status >= 300 {
		return newAPIError(resp)
	}
	if out == nil || resp.Status == http.StatusNoContent || len(resp.Body) == 0 {
		return nil
	}
	return resp.Decode(out)
}

func (c *Client) url(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
