package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dineos/edge/internal/tenancy"
)

// ErrSessionExpired is returned when the access token is rejected and could
// not be refreshed. Callers should send the user back through login.
var ErrSessionExpired = errors.New("backend: session expired") //nolint:gochecknoglobals // sentinel error

// refreshLeeway is how close to expiry an access token may get before Do
// refreshes it proactively instead of eating a guaranteed 401.
const refreshLeeway = 30 * time.Second

// Session is a per-request authenticated client configuration: base URL,
// tenant slug, and bearer tokens travel together instead of living in
// process-wide state. Construct one from the tokens on the inbound request
// and discard it when the request completes.
type Session struct {
	client *Client
	slug   string

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewSession creates a Session for one tenant. refreshToken may be empty, in
// which case a 401 is terminal.
func NewSession(client *Client, slug, accessToken, refreshToken string) *Session {
	return &Session{
		client:       client,
		slug:         slug,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
}

// Slug returns the tenant this session is bound to.
func (s *Session) Slug() string { return s.slug }

// Do performs one authenticated backend request, refreshing the access token
// at most once: proactively when it is about to expire, or reactively on a
// 401. A 401 after the refresh surfaces ErrSessionExpired. The caller owns
// the response body.
func (s *Session) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	s.mu.Lock()
	if expiringSoon(s.accessToken, refreshLeeway) {
		if err := s.refreshLocked(ctx); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	token := s.accessToken
	s.mu.Unlock()

	resp, err := s.send(ctx, method, path, token, body)
	if err != nil {
		return nil, fmt.Errorf("backend.Session.Do: %w", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp.Body)

	// One transparent refresh-and-retry cycle.
	s.mu.Lock()
	if s.accessToken == token {
		if refreshErr := s.refreshLocked(ctx); refreshErr != nil {
			s.mu.Unlock()
			return nil, refreshErr
		}
	}
	token = s.accessToken
	s.mu.Unlock()

	resp, err = s.send(ctx, method, path, token, body)
	if err != nil {
		return nil, fmt.Errorf("backend.Session.Do: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp.Body)
		return nil, fmt.Errorf("backend.Session.Do: %w", ErrSessionExpired)
	}

	return resp, nil
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return fmt.Errorf("backend.Session: no refresh token: %w", ErrSessionExpired)
	}

	access, refresh, err := s.client.Refresh(ctx, s.slug, s.refreshToken)
	if err != nil {
		return err
	}

	s.accessToken = access
	if refresh != "" {
		s.refreshToken = refresh
	}
	return nil
}

func (s *Session) send(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := s.client.newRequest(ctx, method, s.client.primary()+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(tenancy.HeaderTenantID, s.slug)

	return s.client.httpc.Do(req)
}

// expiringSoon reads the exp claim without verifying the signature; the
// backend is the verifier, we only need the timestamp. Tokens that cannot be
// parsed are assumed live and left for the 401 path.
func expiringSoon(token string, leeway time.Duration) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < leeway
}
