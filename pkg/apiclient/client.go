// Package apiclient provides the typed users API client consumed by
// the UI layer. It speaks the same wire format whether the underlying
// http.Client is intercepted by the mock layer or pointed at a real
// backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/appsim/appsim/pkg/directory"
)

// DefaultTimeout bounds each request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether the error is a 404 StatusError.
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusNotFound
}

// Client calls the users API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the underlying http.Client. This is how the
// mock transport reaches the client in demo and test builds.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the full user collection.
func (c *Client) List(ctx context.Context) ([]directory.UserProfile, error) {
	var out []directory.UserProfile
	err := c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

// Get fetches a single user by id.
func (c *Client) Get(ctx context.Context, id int) (directory.UserProfile, error) {
	var out directory.UserProfile
	err := c.do(ctx, http.MethodGet, "/users/"+strconv.Itoa(id), nil, &out)
	return out, err
}

// Create creates a user from the given profile; the server assigns the
// id and the returned record carries it.
func (c *Client) Create(ctx context.Context, profile directory.UserProfile) (directory.UserProfile, error) {
	var out directory.UserProfile
	err := c.do(ctx, http.MethodPost, "/users", profile, &out)
	return out, err
}

// Update applies a partial update to the user with the given id and
// returns the merged record. Only the fields present in updates change.
func (c *Client) Update(ctx context.Context, id int, updates map[string]any) (directory.UserProfile, error) {
	var out directory.UserProfile
	err := c.do(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), updates, &out)
	return out, err
}

// Delete removes the user with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

// Search returns users whose name, email, or username contains q,
// case-insensitively.
func (c *Client) Search(ctx context.Context, q string) ([]directory.UserProfile, error) {
	var out []directory.UserProfile
	err := c.do(ctx, http.MethodGet, "/users/search?q="+url.QueryEscape(q), nil, &out)
	return out, err
}

// do runs one request/response cycle. A non-2xx status becomes a
// *StatusError; out is left untouched on any failure.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
