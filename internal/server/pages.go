package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dineos/edge/internal/server/middleware"
	"github.com/dineos/edge/internal/tenancy"
)

// The page handlers below are deliberately thin: the real UI is rendered
// elsewhere, this service only proves out identity propagation and gates
// tenants that must not be served.

func (s *Server) handleTenantSite(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	res := s.resolver.FetchTenantBySlug(r.Context(), id.Slug)
	switch {
	case res.Suspended:
		// Branding stays available so the page remains recognizable while
		// explaining the outage.
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":    "this restaurant is temporarily unavailable",
			"name":     res.Tenant.Name,
			"branding": res.Tenant.Branding,
		})
	case res.NotFound:
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": "restaurant not found",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"tenant": res.Tenant,
		})
	}
}

func (s *Server) handleMarketing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"page": "marketing",
	})
}

func (s *Server) handleAppDashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"page":         "app-dashboard",
		"appDashboard": id.Kind == tenancy.KindAppDashboard,
	})
}

// handleSuperadmin gates the superadmin area on token presence only; actual
// authorization is the backend's call.
func (s *Server) handleSuperadmin(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") || len(auth) <= len("bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": "authentication required",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page": "superadmin",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}
