package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server      ServerConfig
	Routing     RoutingConfig
	Backend     BackendConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Environment string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// RoutingConfig holds hostname-routing settings. RootDomain may carry a port
// (e.g. "dineos.localhost:3000"); the port is stripped before comparison.
type RoutingConfig struct {
	RootDomain         string
	ReservedSubdomains []string
}

// BackendConfig holds settings for the remote backend API.
type BackendConfig struct {
	BaseURL        string
	FallbackURLs   []string
	Timeout        time.Duration
	InternalAPIKey string //nolint:gosec // G117: shared-secret config
}

// RedisConfig holds Redis connection settings. An empty Addr disables the
// tenant cache entirely.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// CacheConfig holds tenant-lookup cache settings.
type CacheConfig struct {
	TenantTTL time.Duration
}

// defaultReservedSubdomains are labels never assignable to a tenant.
var defaultReservedSubdomains = []string{"www", "app", "api", "admin", "static", "assets", "cdn", "mail"}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production, the internal
// API key and a real backend URL must be set explicitly.
func Load() (*Config, error) {
	readTimeout, err := getEnvDuration("DINEOS_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("DINEOS_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	backendTimeout, err := getEnvDuration("DINEOS_BACKEND_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("DINEOS_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	tenantTTL, err := getEnvDuration("DINEOS_TENANT_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("DINEOS_SERVER_ADDR", ":3000"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("DINEOS_CORS_ORIGINS", []string{"*"}),
		},
		Routing: RoutingConfig{
			RootDomain:         getEnv("ROOT_DOMAIN", "dineos.localhost:3000"),
			ReservedSubdomains: getEnvList("RESERVED_SUBDOMAINS", defaultReservedSubdomains),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:8080/api"),
			FallbackURLs:   getEnvList("API_FALLBACK_URLS", nil),
			Timeout:        backendTimeout,
			InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("DINEOS_REDIS_ADDR", ""),
			Password: getEnv("DINEOS_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TenantTTL: tenantTTL,
		},
		Environment: getEnv("DINEOS_ENV", "development"),
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Routing.RootDomain == "" {
		return errors.New("ROOT_DOMAIN must not be empty")
	}
	if c.Backend.BaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.Backend.BaseURL)
	}

	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("DINEOS_ENV must be 'development' or 'production', got %q", c.Environment)
	}

	// The backend rejects unauthenticated existence checks, so an empty key
	// only works against local backends with the check disabled.
	if c.Backend.InternalAPIKey == "" && c.Environment == "production" {
		log.Warn().Msg("INTERNAL_API_KEY is empty; backend existence checks will likely fail")
	}

	// Bounds checks.
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("DINEOS_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("DINEOS_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("DINEOS_BACKEND_TIMEOUT must be positive, got %s", c.Backend.Timeout)
	}
	if c.Cache.TenantTTL <= 0 {
		return fmt.Errorf("DINEOS_TENANT_CACHE_TTL must be positive, got %s", c.Cache.TenantTTL)
	}

	return nil
}

// IsDevelopment reports whether the process runs in development mode.
// Diagnostic detail in responses is only permitted when this is true.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// URLs returns the primary backend base URL followed by any configured
// fallbacks, in probe order.
func (c *BackendConfig) URLs() []string {
	urls := make([]string, 0, 1+len(c.FallbackURLs))
	urls = append(urls, c.BaseURL)
	urls = append(urls, c.FallbackURLs...)
	return urls
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
