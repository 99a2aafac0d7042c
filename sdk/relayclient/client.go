package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is returned when the server answers with a structured error.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authrelay: %s (%s, status %d)", e.Message, e.Type, e.StatusCode)
}

// Client talks to an authrelay server on behalf of an app backend.
type Client struct {
	baseURL    string
	appName    string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a relay client.
//
// Parameters:
//   - baseURL: the authrelay server base URL (e.g. "https://auth.example.com")
//   - appName: the app slug reported to the usage ledger, may be empty
func NewClient(baseURL, appName string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appName: appName,
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServerAuth asserts a user identity on behalf of a trusted backend
// and returns a short-lived server token. The broker creates the user
// on first sight, so name should carry a display name for new
// identities.
func (c *Client) ServerAuth(ctx context.Context, email, name string) (*AuthResult, error) {
	body := map[string]string{
		"email": email,
		"name":  name,
	}
	if c.appName != "" {
		body["app_name"] = c.appName
	}

	var result AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/server-auth", body, &result); err != nil {
		return nil, fmt.Errorf("server auth: %w", err)
	}
	return &result, nil
}

// ValidateToken asks the server whether a bearer token is still good.
func (c *Client) ValidateToken(ctx context.Context, token string) (*ValidateResult, error) {
	body := map[string]string{"token": token}

	var result ValidateResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/validate-token", body, &result); err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	return &result, nil
}

// GetOAuthURL fetches the provider consent URL for a popup login.
func (c *Client) GetOAuthURL(ctx context.Context, provider, redirectURI string) (string, error) {
	query := url.Values{}
	if redirectURI != "" {
		query.Set("redirect_uri", redirectURI)
	}
	if c.appName != "" {
		query.Set("app_name", c.appName)
	}

	path := "/api/oauth/" + url.PathEscape(provider) + "/url"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result struct {
		AuthURL string `json:"auth_url"`
	}
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", fmt.Errorf("get oauth url: %w", err)
	}
	return result.AuthURL, nil
}

// Health reports whether the server answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if !envelope.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if envelope.Error != nil {
			apiErr.Type = envelope.Error.Type
			apiErr.Message = envelope.Error.Message
		} else {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if result != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
