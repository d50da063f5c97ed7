package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineos/edge/internal/tenancy"
)

func newTestClient(urls ...string) *Client {
	return NewClient(urls, "test-key", 2*time.Second)
}

func TestTenantExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		wantExists bool
	}{
		{name: "200 means exists", status: http.StatusOK, wantExists: true},
		{name: "404 means absent", status: http.StatusNotFound, wantExists: false},
		{name: "500 means absent", status: http.StatusInternalServerError, wantExists: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/tenants/exists", r.URL.Path)
				assert.Equal(t, "burgerhouse", r.URL.Query().Get("slug"))
				assert.Equal(t, "test-key", r.Header.Get("X-Internal-API-Key"))
				assert.NotEmpty(t, r.Header.Get("X-Correlation-Id"))
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			exists, err := newTestClient(srv.URL).TenantExists(context.Background(), "burgerhouse")
			require.NoError(t, err)
			assert.Equal(t, tc.wantExists, exists)
		})
	}
}

func TestTenantExistsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := newTestClient(srv.URL).TenantExists(context.Background(), "burgerhouse")
	assert.Error(t, err)
}

func TestTenantBySlug(t *testing.T) {
	t.Parallel()

	t.Run("bare record", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tenants/burgerhouse", r.URL.Path)
			_ = json.NewEncoder(w).Encode(tenancy.Tenant{ID: "t-1", Slug: "burgerhouse", Status: tenancy.StatusActive})
		}))
		defer srv.Close()

		tenant, err := newTestClient(srv.URL).TenantBySlug(context.Background(), "burgerhouse")
		require.NoError(t, err)
		assert.Equal(t, "burgerhouse", tenant.Slug)
		assert.Equal(t, tenancy.StatusActive, tenant.Status)
	})

	t.Run("enveloped record", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"id":"t-2","slug":"sushiplace","status":"suspended"}}`))
		}))
		defer srv.Close()

		tenant, err := newTestClient(srv.URL).TenantBySlug(context.Background(), "sushiplace")
		require.NoError(t, err)
		assert.Equal(t, "sushiplace", tenant.Slug)
		assert.Equal(t, tenancy.StatusSuspended, tenant.Status)
	})

	t.Run("404 maps to ErrTenantNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).TenantBySlug(context.Background(), "ghost")
		assert.ErrorIs(t, err, tenancy.ErrTenantNotFound)
	})

	t.Run("410 maps to ErrTenantNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusGone)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).TenantBySlug(context.Background(), "deleted")
		assert.ErrorIs(t, err, tenancy.ErrTenantNotFound)
	})

	t.Run("record without slug is rejected", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"t-3"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).TenantBySlug(context.Background(), "broken")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, tenancy.ErrTenantNotFound)
	})
}

func TestLoginProbesFallbacks(t *testing.T) {
	t.Parallel()

	var primaryHits, fallbackHits atomic.Int32

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits.Add(1)
	}))
	dead.Close() // primary is unreachable

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
		assert.Equal(t, "/v1/users/login", r.URL.Path)
		assert.Equal(t, "burgerhouse", r.Header.Get(tenancy.HeaderTenantID))
		_, _ = w.Write([]byte(`{"accessToken":"at","refreshToken":"rt"}`))
	}))
	defer fallback.Close()

	c := newTestClient(dead.URL, fallback.URL)
	result, err := c.Login(context.Background(), "burgerhouse", "owner@example.com", "secret")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "at", result.AccessToken)
	assert.Equal(t, "rt", result.RefreshToken)
	assert.Equal(t, int32(0), primaryHits.Load())
	assert.Equal(t, int32(1), fallbackHits.Load())
}

func TestLoginErrorStatusStopsProbing(t *testing.T) {
	t.Parallel()

	// A 401 is still a response from the backend; the fallback must not be
	// consulted for a second opinion.
	var fallbackHits atomic.Int32

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
	}))
	defer fallback.Close()

	result, err := newTestClient(primary.URL, fallback.URL).Login(context.Background(), "burgerhouse", "a@b.c", "wrong")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
	assert.Equal(t, "invalid credentials", result.Message)
	assert.Equal(t, int32(0), fallbackHits.Load())
}

func TestLoginAllURLsFail(t *testing.T) {
	t.Parallel()

	a := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	a.Close()
	b := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	b.Close()

	_, err := newTestClient(a.URL, b.URL).Login(context.Background(), "burgerhouse", "a@b.c", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all backend URLs failed")
}

func TestLoginSnakeCaseTokens(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2"}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).Login(context.Background(), "burgerhouse", "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at2", result.AccessToken)
	assert.Equal(t, "rt2", result.RefreshToken)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/users/refresh-token", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "old-refresh", body["refreshToken"])

			_, _ = w.Write([]byte(`{"accessToken":"new-at","refreshToken":"new-rt"}`))
		}))
		defer srv.Close()

		access, refresh, err := newTestClient(srv.URL).Refresh(context.Background(), "burgerhouse", "old-refresh")
		require.NoError(t, err)
		assert.Equal(t, "new-at", access)
		assert.Equal(t, "new-rt", refresh)
	})

	t.Run("rejection surfaces ErrSessionExpired", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, _, err := newTestClient(srv.URL).Refresh(context.Background(), "burgerhouse", "stale")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})
}
