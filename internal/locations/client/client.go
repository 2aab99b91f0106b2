// Package client provides an HTTP client for the locations API. It is the
// remote list service behind a store.Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pinmap/internal/locations/transport"
	"pinmap/internal/store"
	"pinmap/platform/apperr"
	"pinmap/platform/httpkit"
	"pinmap/platform/logger"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	locationsPath      = "/api/v1/locations"
	tokenTTL           = 5 * time.Minute
	maxErrorBody       = 4 << 10
)

// TokenSource returns a bearer token for write requests.
type TokenSource func() (string, error)

// SignedTokens mints a short-lived access token per request with secret.
func SignedTokens(secret, subject string) TokenSource {
	return func() (string, error) {
		return httpkit.SignAccessToken(secret, subject, tokenTTL)
	}
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource attaches a bearer token to write requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// Client talks to the locations API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *logger.Logger
}

var _ store.Remote = (*Client)(nil)

// New creates a client for the API at baseURL.
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches a page of locations, newest first.
func (c *Client) List(ctx context.Context, limit, offset int) ([]store.Item, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var payload []transport.LocationResponse
	if err := c.do(ctx, http.MethodGet, locationsPath+"?"+params.Encode(), nil, &payload); err != nil {
		return nil, err
	}

	items := make([]store.Item, 0, len(payload))
	for _, loc := range payload {
		items = append(items, toItem(loc))
	}
	return items, nil
}

// Create saves a location and returns it with its server-assigned id.
func (c *Client) Create(ctx context.Context, params store.CreateParams) (store.Item, error) {
	body := transport.CreateLocationRequest{
		Latitude:  &params.Latitude,
		Longitude: &params.Longitude,
		Address:   params.Address,
	}

	var payload transport.LocationResponse
	if err := c.do(ctx, http.MethodPost, locationsPath, body, &payload); err != nil {
		return store.Item{}, err
	}
	return toItem(payload), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		req.Header.Set(httpkit.RequestIDHeader, requestID)
	}
	if method != http.MethodGet && c.tokens != nil {
		token, err := c.tokens()
		if err != nil {
			return fmt.Errorf("sign request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperr.Unavailable("locations service unreachable", err).WithOp(method + " " + path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(method, path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Unavailable("invalid response from locations service", err).WithOp(method + " " + path)
	}
	return nil
}

// statusError turns a non-2xx response into an apperr.Error carrying the
// server's message.
func (c *Client) statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := http.StatusText(resp.StatusCode)
	var decoded httpkit.ErrorResponse
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error != "" {
		message = decoded.Error
	}

	c.log.Debug("locations request failed", "method", method, "path", path, "status", resp.StatusCode, "message", message)

	kind := apperr.KindFromStatus(resp.StatusCode)
	return apperr.Wrap(kind, message, errors.New(resp.Status)).WithOp(method + " " + path)
}

func toItem(loc transport.LocationResponse) store.Item {
	return store.Item{
		ID:        loc.ID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Address:   loc.Address,
		CreatedAt: loc.CreatedAt,
	}
}
