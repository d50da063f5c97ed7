package middleware

import (
	"net/http"

	"github.com/dineos/edge/internal/tenancy"
)

// RequireTenant blocks requests whose identity is not tenant-scoped.
// Mounted on /site routes, which only the rewrite middleware should reach.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || id.Kind != tenancy.KindTenant || id.Slug == "" {
				http.Error(w, `{"title":"Not Found","status":404,"detail":"no tenant in request"}`, http.StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
