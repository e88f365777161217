package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is used when no override is configured.
const DefaultBaseURL = "http://localhost:8080"

// APIError carries the backend's own error text so callers can surface
// it verbatim. Details is only populated by the account-search endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Details
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Client is the HTTP client for the insights backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client against the given base URL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginURL asks the backend for the provider login URL to redirect to.
func (c *Client) LoginURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, "/api/auth/url", &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("backend returned no login url")
	}
	return out.URL, nil
}

// ExchangeCode trades an authorization code for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		return nil, fmt.Errorf("empty authorization code")
	}
	var s Session
	path := "/api/auth/exchange?code=" + url.QueryEscape(code)
	if err := c.get(ctx, path, &s); err != nil {
		return nil, err
	}
	if !s.Valid() {
		return nil, fmt.Errorf("exchange response missing credentials")
	}
	return &s, nil
}

// PostMetrics fetches computed engagement metrics for a single post.
func (c *Client) PostMetrics(ctx context.Context, postURL string, s Session) (*PostMetrics, error) {
	in := struct {
		PostURL     string `json:"postUrl"`
		AccessToken string `json:"accessToken"`
		BusinessID  string `json:"igBusinessId"`
	}{postURL, s.AccessToken, s.BusinessID}

	var out PostMetrics
	if err := c.post(ctx, "/api/insights/post", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchAccount fetches a public account's profile and recent media.
func (c *Client) SearchAccount(ctx context.Context, username string, s Session) (*AccountSearchResult, error) {
	in := struct {
		Username    string `json:"username"`
		AccessToken string `json:"accessToken"`
		BusinessID  string `json:"igBusinessId"`
	}{username, s.AccessToken, s.BusinessID}

	var out AccountSearchResult
	if err := c.post(ctx, "/api/account/search", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.requestError(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// requestError converts context errors to user-friendly messages.
func (c *Client) requestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// errorResponse parses a non-2xx body for the backend's error text.
// The text is kept verbatim so the UI can show it unmodified.
func (c *Client) errorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || (apiErr.Message == "" && apiErr.Details == "") {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return apiErr
}
