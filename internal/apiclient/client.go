package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"laundry-reservation/config"
)

// Client talks to the remote reservation backend. Every call is a single attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	limiter    *rate.Limiter

	mu    sync.RWMutex
	token string
}

// envelope is the standard response wrapper of the backend.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
}

// New creates a client for the configured backend.
func New(cfg config.APIConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers:    cfg.Headers,
	}
	if cfg.RateLimitPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1)
	}
	return c
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// call performs a request whose response uses the standard envelope and decodes data into out.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	status, raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Status: status, Message: "malformed response", Err: fmt.Errorf("failed to unmarshal envelope: %w", err)}
	}
	if !env.Success {
		return &Error{Status: status, Message: messageOr(env.Message, "request failed")}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Status: status, Message: "malformed response", Err: fmt.Errorf("failed to unmarshal data: %w", err)}
		}
	}
	return nil
}

// callBare performs a request whose response is a bare {success, message} pair.
func (c *Client) callBare(ctx context.Context, method, path string, body any) (*BareResponse, error) {
	status, raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var resp BareResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &Error{Status: status, Message: "malformed response", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if !resp.Success {
		return nil, &Error{Status: status, Message: messageOr(resp.Message, "request failed")}
	}
	return &resp, nil
}

// send executes the HTTP exchange and returns the status and body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &Error{Message: "request cancelled", Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &Error{Message: "서버에 연결할 수 없습니다.", Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &Error{Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	return resp.StatusCode, raw, nil
}

// errorMessage pulls "message" out of an error body, falling back to a status-specific text.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return defaultMessage(status)
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
