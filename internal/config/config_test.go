package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "DINEOS_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "DINEOS_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "DINEOS_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "DINEOS_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "DINEOS_TEST_DUR_SEC", setVal: strPtr("30s"), want: 30 * time.Second},
		{name: "parses compound", key: "DINEOS_TEST_DUR_COMPOUND", setVal: strPtr("1m30s"), want: 90 * time.Second},
		{name: "errors on bare number", key: "DINEOS_TEST_DUR_BARE", setVal: strPtr("30"), wantErr: true},
		{name: "errors on garbage", key: "DINEOS_TEST_DUR_GARBAGE", setVal: strPtr("soon"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback []string
		want     []string
	}{
		{name: "returns fallback when unset", key: "DINEOS_TEST_LIST_UNSET", setVal: nil, fallback: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "splits on comma", key: "DINEOS_TEST_LIST_SPLIT", setVal: strPtr("www,app,api"), want: []string{"www", "app", "api"}},
		{name: "trims whitespace", key: "DINEOS_TEST_LIST_TRIM", setVal: strPtr(" www , app "), want: []string{"www", "app"}},
		{name: "drops empty elements", key: "DINEOS_TEST_LIST_EMPTY", setVal: strPtr("www,,app,"), want: []string{"www", "app"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			assert.Equal(t, tc.want, getEnvList(tc.key, tc.fallback))
		})
	}
}

// ---------------------------------------------------------------------------
// Load and validate
// ---------------------------------------------------------------------------

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "dineos.localhost:3000", cfg.Routing.RootDomain)
	assert.Equal(t, defaultReservedSubdomains, cfg.Routing.ReservedSubdomains)
	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.BaseURL)
	assert.Empty(t, cfg.Backend.FallbackURLs)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Empty(t, cfg.Redis.Addr, "cache disabled by default")
	assert.Equal(t, 30*time.Second, cfg.Cache.TenantTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROOT_DOMAIN", "dineos.io")
	t.Setenv("API_BASE_URL", "https://backend.dineos.io/api")
	t.Setenv("API_FALLBACK_URLS", "https://b1.dineos.io/api,https://b2.dineos.io/api")
	t.Setenv("RESERVED_SUBDOMAINS", "www,app,internal")
	t.Setenv("INTERNAL_API_KEY", "sekret")
	t.Setenv("DINEOS_BACKEND_TIMEOUT", "2s")
	t.Setenv("DINEOS_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dineos.io", cfg.Routing.RootDomain)
	assert.Equal(t, []string{"www", "app", "internal"}, cfg.Routing.ReservedSubdomains)
	assert.Equal(t, "sekret", cfg.Backend.InternalAPIKey)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.IsDevelopment())

	assert.Equal(t, []string{
		"https://backend.dineos.io/api",
		"https://b1.dineos.io/api",
		"https://b2.dineos.io/api",
	}, cfg.Backend.URLs())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "backend URL must be http(s)", key: "API_BASE_URL", val: "localhost:8080"},
		{name: "environment must be known", key: "DINEOS_ENV", val: "staging"},
		{name: "backend timeout must be positive", key: "DINEOS_BACKEND_TIMEOUT", val: "-1s"},
		{name: "cache TTL must be positive", key: "DINEOS_TENANT_CACHE_TTL", val: "0s"},
		{name: "read timeout must be positive", key: "DINEOS_SERVER_READ_TIMEOUT", val: "-5s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
