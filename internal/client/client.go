// Package client is a small HTTP client for the account API.
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
	"strings"
	"time"

	"github.com/redmonkez12/account-api/internal/account"
	"github.com/redmonkez12/account-api/internal/httputil"
)

// ErrNoToken is returned by calls to guarded routes when no token is set.
var ErrNoToken = errors.New("no bearer token configured")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Register(ctx context.Context, req account.RegisterRequest) (*account.RegisterResponse, error) {
	var resp account.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*account.LoginResponse, error) {
	var resp account.LoginResponse
	req := account.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/user", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context, id string) (*account.Profile, error) {
	var resp account.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(id), nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Update returns the server's confirmation message.
func (c *Client) Update(ctx context.Context, req account.UpdateRequest) (string, error) {
	var resp httputil.MessageResponse
	if err := c.do(ctx, http.MethodPatch, "/auth/update", req, true, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Delete(ctx context.Context, req account.DeleteRequest) (string, error) {
	var resp httputil.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/auth/delete", req, true, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, authed bool, out any) error {
	if authed && c.token == "" {
		return ErrNoToken
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e httputil.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil {
			apiErr.Message, apiErr.Code = e.Message, e.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
