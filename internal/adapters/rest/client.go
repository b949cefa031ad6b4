// Package rest implements the Pulso backend API client. Every
// response body runs through the normalize package before it leaves
// this package, and every failure is re-thrown as a
// *domain.RequestError so callers branch on the error class instead
// of transport details.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/drobledo/pulso-cli/internal/ports"
)

const maxResponseBytes = 1 << 20

// TokenSource yields the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	clock      ports.Clock
}

var _ ports.API = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

func WithClock(clock ports.Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewClient builds a client against baseURL (the ".../api" root).
// tokens may be nil for a client that only calls public endpoints.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}

	client := &Client{
		baseURL:    parsed.String(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		clock:      ports.SystemClock{},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// call performs one request and decodes the response body. out may be
// nil when the caller only cares about success. authed requests carry
// the bearer token from the token source.
func (c *Client) call(ctx context.Context, method, path string, body any, authed bool, out any) error {
	raw, err := c.callRaw(ctx, method, path, body, authed)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) callRaw(ctx context.Context, method, path string, body any, authed bool) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, networkErr(err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.send(req)
}

// callMultipart posts a pre-encoded multipart body. Kept apart from
// callRaw, which owns the JSON request encoding. Multipart endpoints
// are always authenticated.
func (c *Client) callMultipart(ctx context.Context, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, networkErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create POST %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Content-Type", contentType)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkErr(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusErr(resp.StatusCode, raw)
	}

	return raw, nil
}
