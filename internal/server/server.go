package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/dineos/edge/internal/backend"
	"github.com/dineos/edge/internal/config"
	"github.com/dineos/edge/internal/gateway"
	"github.com/dineos/edge/internal/server/middleware"
	"github.com/dineos/edge/internal/tenancy"
)

// Server is the HTTP server that wires the rewrite middleware, the gateway
// routes, and the internal page handlers.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	resolver   *tenancy.Resolver
	cfg        *config.Config
}

// New creates a Server with all routes wired. The rewrite middleware runs
// before route matching, so the handlers below only ever see internal paths
// (/home, /app, /admin, /site/{slug}) or bypassed ones (/api, /static).
func New(ctx context.Context, cfg *config.Config, backendClient *backend.Client, resolver *tenancy.Resolver) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	// Hostname routing must run before any route matching.
	rewriter := middleware.NewRewriter(
		cfg.Routing.RootDomain,
		tenancy.NewReservedSet(cfg.Routing.ReservedSubdomains),
		cfg.IsDevelopment(),
	)
	router.Use(rewriter.Handler)

	s := &Server{
		router:   router,
		resolver: resolver,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Gateway (BFF) routes on /api. These bypass the rewriter, so they are
	// reachable from every hostname; per-IP rate limiting protects the
	// unauthenticated endpoints.
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, 10, 30))

		apiConfig := huma.DefaultConfig("DineOS Edge API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api"},
		}
		api := humachi.New(r, apiConfig)

		gateway.RegisterTenantRoutes(api, backendClient)
		gateway.RegisterAuthRoutes(api, backendClient, cfg.IsDevelopment())
		gateway.RegisterMenuRoutes(api, func(slug, accessToken string) gateway.MenuSession {
			return backend.NewSession(backendClient, slug, accessToken, "")
		}, cfg.IsDevelopment())
	})

	// Tenant-scoped customer pages.
	router.Route("/site/{slug}", func(r chi.Router) {
		r.Use(middleware.RequireTenant())
		r.Use(middleware.RateLimitBySlug(ctx, 50, 100))
		r.Get("/", s.handleTenantSite)
		r.Get("/*", s.handleTenantSite)
	})

	// Marketing, tenant dashboard, and superadmin areas.
	router.Get("/home", s.handleMarketing)
	router.Get("/home/*", s.handleMarketing)
	router.Get("/app", s.handleAppDashboard)
	router.Get("/app/*", s.handleAppDashboard)
	router.Get("/admin", s.handleSuperadmin)
	router.Get("/admin/*", s.handleSuperadmin)

	// Health check. /healthz has no extension, so it goes through the
	// rewriter; on the root domain it arrives as /home/healthz, hence the
	// extra route.
	router.Get("/healthz", s.handleHealth)
	router.Get("/home/healthz", s.handleHealth)

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
