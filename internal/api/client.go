// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the authenticated HTTP plumbing shared by the
// directory and shared-secret clients.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout bounds a single request round trip.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry budget for idempotent requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the backoff.
	retryMaxDelay = 8 * time.Second

	// MaxResponseSize bounds response bodies. A directory page is a few
	// kilobytes; anything near this limit is a broken upstream.
	MaxResponseSize = 10 * 1024 * 1024
)

// sharedHTTPClient pools connections across both facade clients.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// TokenSource supplies the current bearer token. The session owns the
// token; clients never cache it so a refreshed session takes effect on
// the next call.
type TokenSource func() string

// Client is the shared authenticated HTTP client for the external store.
type Client struct {
	baseURL    string
	apiKey     string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a client for the store at baseURL. apiKey is the
// provider's publishable key, sent on every request alongside the
// operator's bearer token.
func NewClient(baseURL, apiKey string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		tokens:     tokens,
		httpClient: sharedHTTPClient,
		// One operator clicking around; 10 rps with a small burst keeps
		// an accidental key-repeat from hammering the store.
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		maxRetries: DefaultMaxRetries,
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithMaxRetries sets the retry budget for idempotent requests.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithTimeout overrides the round-trip timeout. The shared transport is
// kept so connections still pool across clients.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d <= 0 || d == c.httpClient.Timeout {
		return c
	}
	clone := *c.httpClient
	clone.Timeout = d
	c.httpClient = &clone
	return c
}

// BaseURL returns the configured store base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// REQUESTS
// =============================================================================

// DoJSON performs an authenticated JSON request and decodes a 2xx
// response into out (which may be nil). Non-2xx responses come back as a
// sentinel from the error taxonomy wrapping an *APIError.
//
// Only GET requests are retried: a mutating call runs exactly once and
// completes or fails, since the controller always follows mutations with
// a refetch rather than resubmitting.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(backoff(attempt)):
			}
		}

		done, err := c.doOnce(ctx, method, requestURL, payload, out)
		if done {
			return err
		}
		lastErr = err
	}

	return lastErr
}

// doOnce performs a single attempt. done is false only for retryable
// failures (transport errors and 5xx on idempotent calls).
func (c *Client) doOnce(ctx context.Context, method, requestURL string, payload []byte, out any) (done bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return true, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Strip the bearer before the request object can reach any log.
	req.Header.Del("Authorization")

	if err != nil {
		log.Printf("API request failed: %s %s: %v", method, req.URL.Path, err)
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Status and duration only; bodies and headers may carry secrets.
	log.Printf("API %s %s: %d (%v)", method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	respBody, err := readBounded(resp.Body)
	if err != nil {
		return true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		return false, mapStatus(resp.StatusCode, respBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return true, mapStatus(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return true, fmt.Errorf("parse response: %w", err)
		}
	}
	return true, nil
}

// setHeaders attaches authentication and bookkeeping headers.
func (c *Client) setHeaders(req *http.Request) {
	if token := c.tokens(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "keydeck/0.1")
	req.Header.Set("X-Request-Id", uuid.NewString())
}

// readBounded reads a response body with a hard size limit.
func readBounded(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, errors.New("response exceeded maximum size")
	}
	return body, nil
}

// backoff returns the delay before the given retry attempt.
func backoff(attempt int) time.Duration {
	d := retryBaseDelay << (attempt - 1)
	if d > retryMaxDelay {
		d = retryMaxDelay
	}
	return d
}

// mapStatus converts a non-success response into the error taxonomy.
func mapStatus(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	var wire wireError
	if err := json.Unmarshal(body, &wire); err == nil {
		apiErr.Message = wire.message()
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, apiErr.Message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidation, apiErr.Message)
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Error())
	}
}
