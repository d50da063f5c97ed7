// Package backend is the HTTP client for the remote DineOS backend. The edge
// never owns tenant data; every read here is a pass-through with explicit
// timeouts and fail-closed error handling.
package backend

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

	"github.com/dineos/edge/internal/tenancy"
)

// Client talks to the remote backend. It is safe for concurrent use and
// cheap to share; per-tenant authenticated calls go through Session instead.
type Client struct {
	urls        []string // probe order: primary first, then fallbacks
	internalKey string
	httpc       *http.Client
}

// NewClient creates a Client. urls must contain at least the primary base
// URL (e.g. "http://localhost:8080/api"); the timeout bounds every call,
// per candidate URL when probing.
func NewClient(urls []string, internalAPIKey string, timeout time.Duration) *Client {
	return &Client{
		urls:        urls,
		internalKey: internalAPIKey,
		httpc:       &http.Client{Timeout: timeout},
	}
}

func (c *Client) primary() string { return c.urls[0] }

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.internalKey != "" {
		req.Header.Set("X-Internal-API-Key", c.internalKey)
	}
	req.Header.Set("X-Correlation-Id", uuid.NewString())
	return req, nil
}

// TenantExists forwards an existence query for a slug. HTTP 200 means the
// tenant exists; any other status means it does not. A transport failure is
// returned as an error so the gateway can distinguish its own 500 from the
// backend's 404.
func (c *Client) TenantExists(ctx context.Context, slug string) (bool, error) {
	u := c.primary() + "/tenants/exists?slug=" + url.QueryEscape(slug)

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("backend.TenantExists: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("backend.TenantExists: %w", err)
	}
	defer drain(resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// TenantBySlug fetches the full tenant record. A 404 maps to
// tenancy.ErrTenantNotFound; other non-200 statuses are backend failures.
func (c *Client) TenantBySlug(ctx context.Context, slug string) (*tenancy.Tenant, error) {
	u := c.primary() + "/tenants/" + url.PathEscape(slug)

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("backend.TenantBySlug: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend.TenantBySlug: %w", err)
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		t, decodeErr := decodeTenant(resp.Body)
		if decodeErr != nil {
			return nil, fmt.Errorf("backend.TenantBySlug: %w", decodeErr)
		}
		return t, nil
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("backend.TenantBySlug: %w", tenancy.ErrTenantNotFound)
	default:
		return nil, fmt.Errorf("backend.TenantBySlug: unexpected status %d", resp.StatusCode)
	}
}

// decodeTenant handles both envelope ({"data": {...}}) and bare tenant
// responses; the backend has shipped both shapes.
func decodeTenant(r io.Reader) (*tenancy.Tenant, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		raw = env.Data
	}

	t := &tenancy.Tenant{}
	if err := json.Unmarshal(raw, t); err != nil {
		return nil, err
	}
	if t.Slug == "" {
		return nil, errors.New("tenant record missing slug")
	}
	return t, nil
}

// probe tries each candidate base URL in order and returns the first HTTP
// response received. Any response, success or error status, counts as
// reaching the backend; only transport failures advance to the next
// candidate. When every candidate fails the errors are aggregated.
func (c *Client) probe(ctx context.Context, build func(base string) (*http.Request, error)) (*http.Response, error) {
	var errs []error
	for _, base := range c.urls {
		req, err := build(base)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", base, err))
			continue
		}
		return resp, nil
	}
	return nil, errors.Join(errs...)
}

// LoginResult carries the backend's login outcome. StatusCode is the
// backend's own status so the login proxy can pass it through.
type LoginResult struct {
	StatusCode   int
	Success      bool
	AccessToken  string
	RefreshToken string
	Message      string
}

// loginResponse tolerates both token key styles the backend has used.
type loginResponse struct {
	AccessToken       string `json:"accessToken"`
	AccessTokenSnake  string `json:"access_token"`
	RefreshToken      string `json:"refreshToken"`
	RefreshTokenSnake string `json:"refresh_token"`
	Message           string `json:"message"`
}

func (lr *loginResponse) access() string {
	if lr.AccessToken != "" {
		return lr.AccessToken
	}
	return lr.AccessTokenSnake
}

func (lr *loginResponse) refresh() string {
	if lr.RefreshToken != "" {
		return lr.RefreshToken
	}
	return lr.RefreshTokenSnake
}

// Login authenticates a tenant user, probing the configured backend URLs in
// order. An error is returned only when no candidate could be reached.
func (c *Client) Login(ctx context.Context, slug, email, password string) (*LoginResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("backend.Login: %w", err)
	}

	resp, err := c.probe(ctx, func(base string) (*http.Request, error) {
		req, reqErr := c.newRequest(ctx, http.MethodPost, base+"/v1/users/login", bytes.NewReader(payload))
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set(tenancy.HeaderTenantID, slug)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("backend.Login: all backend URLs failed: %w", err)
	}
	defer drain(resp.Body)

	var body loginResponse
	// A decode failure leaves the zero value; the status code still tells
	// the caller what happened.
	_ = json.NewDecoder(resp.Body).Decode(&body)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return &LoginResult{
		StatusCode:   resp.StatusCode,
		Success:      ok,
		AccessToken:  body.access(),
		RefreshToken: body.refresh(),
		Message:      body.Message,
	}, nil
}

// Refresh exchanges a refresh token for a new token pair. An auth rejection
// surfaces as ErrSessionExpired.
func (c *Client) Refresh(ctx context.Context, slug, refreshToken string) (access, refresh string, err error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("backend.Refresh: %w", err)
	}

	resp, err := c.probe(ctx, func(base string) (*http.Request, error) {
		req, reqErr := c.newRequest(ctx, http.MethodPost, base+"/v1/users/refresh-token", bytes.NewReader(payload))
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set(tenancy.HeaderTenantID, slug)
		return req, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("backend.Refresh: all backend URLs failed: %w", err)
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("backend.Refresh: status %d: %w", resp.StatusCode, ErrSessionExpired)
	}

	var body loginResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		return "", "", fmt.Errorf("backend.Refresh: %w", decodeErr)
	}
	if body.access() == "" {
		return "", "", fmt.Errorf("backend.Refresh: no access token in response: %w", ErrSessionExpired)
	}

	return body.access(), body.refresh(), nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
