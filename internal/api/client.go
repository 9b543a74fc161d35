// Package api is the single gateway to the remote tier-list API. Every
// network call in the client goes through Client.Do: it attaches the
// bearer credential when one is stored, normalizes failures, and turns a
// 401 into a cleared session plus ErrSessionExpired. It does not retry,
// cache, or queue requests; sequencing dependent calls is the caller's
// job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionStore is the slice of the session store the gateway needs.
type SessionStore interface {
	Credential() (string, bool)
	Clear() error
}

// Response carries the status code and raw body of a completed request.
type Response struct {
	Status int
	Body   []byte
}

// Client issues requests against the configured base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionStore
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, session SessionStore, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
	}
}

// Do performs one request. A non-nil body is JSON-encoded. 2xx responses
// (including 204 with an empty body) return a Response; 401 clears the
// session and returns ErrSessionExpired; any other status returns an
// *APIError carrying the status and response body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("API call")

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			log.Error().Err(err).Msg("Failed to clear session after 401")
		}
		return nil, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: respBody}
	}

	return &Response{Status: resp.StatusCode, Body: respBody}, nil
}

// Get performs a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body, decoding into out when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch performs a PATCH with a JSON body, decoding into out when non-nil.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Put performs a PUT without a body, decoding into out when non-nil.
func (c *Client) Put(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, out)
}

// Delete performs a DELETE. A 204 is a successful deletion.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || resp.Status == http.StatusNoContent || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
