package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dineos/edge/internal/tenancy"
)

// RouteClass is the six-way classification of an inbound request.
type RouteClass string

const (
	ClassSuperadminAdmin RouteClass = "superadmin_admin"
	ClassMarketingRoot   RouteClass = "marketing_root"
	ClassAppDashboard    RouteClass = "app_dashboard"
	ClassMarketingWWW    RouteClass = "marketing_www"
	ClassReservedOther   RouteClass = "reserved_other"
	ClassTenantSite      RouteClass = "tenant_site"
)

// Decision is the outcome of classifying one request: the route class, the
// internal path the request is rewritten to, and the identity attached to it.
type Decision struct {
	Class    RouteClass
	Path     string
	Identity tenancy.Identity
}

// Rewriter classifies requests by hostname and rewrites them to internal
// routes. Stateless after construction; safe for concurrent use.
type Rewriter struct {
	rootDomain string
	reserved   *tenancy.ReservedSet
	debug      bool
}

// NewRewriter creates a Rewriter. debug enables per-request classification
// logging and must be off in production.
func NewRewriter(rootDomain string, reserved *tenancy.ReservedSet, debug bool) *Rewriter {
	return &Rewriter{rootDomain: rootDomain, reserved: reserved, debug: debug}
}

// Bypass reports whether a path skips routing entirely: framework assets,
// API routes, static files, and anything with a file extension pass through
// unmodified with no rewriting or header injection.
func Bypass(path string) bool {
	return strings.HasPrefix(path, "/_next") ||
		strings.HasPrefix(path, "/api") ||
		strings.HasPrefix(path, "/static") ||
		strings.Contains(path, ".")
}

// Classify maps a (hostname, path) pair to exactly one route class. It is a
// pure total function of its inputs: every pair yields a class and it never
// fails. The case order below is a hard invariant; /admin on the root domain
// must win over generic root handling, and app/www must win over the tenant
// fallback.
func (rw *Rewriter) Classify(hostname, path string) Decision {
	sub := tenancy.ParseSubdomain(hostname, rw.rootDomain)

	// The original path is appended to the rewrite target, except a bare
	// "/" which would otherwise leave a trailing slash.
	suffix := path
	if path == "/" {
		suffix = ""
	}

	switch {
	case sub == "" && strings.HasPrefix(path, "/admin"):
		return Decision{
			Class:    ClassSuperadminAdmin,
			Path:     path,
			Identity: tenancy.Identity{Kind: tenancy.KindSuperadmin},
		}
	case sub == "":
		return Decision{
			Class:    ClassMarketingRoot,
			Path:     "/home" + suffix,
			Identity: tenancy.Identity{Kind: tenancy.KindMarketing},
		}
	case sub == "app":
		return Decision{
			Class:    ClassAppDashboard,
			Path:     "/app" + suffix,
			Identity: tenancy.Identity{Kind: tenancy.KindAppDashboard},
		}
	case sub == "www":
		return Decision{
			Class:    ClassMarketingWWW,
			Path:     "/home" + suffix,
			Identity: tenancy.Identity{Kind: tenancy.KindMarketing},
		}
	case rw.reserved.Contains(sub):
		return Decision{
			Class:    ClassReservedOther,
			Path:     path,
			Identity: tenancy.Identity{Kind: tenancy.KindReserved},
		}
	default:
		return Decision{
			Class:    ClassTenantSite,
			Path:     "/site/" + sub + suffix,
			Identity: tenancy.Identity{Kind: tenancy.KindTenant, Slug: sub},
		}
	}
}

// Handler is the routing middleware. It must run before any route matching
// so downstream handlers only ever see internal paths.
func (rw *Rewriter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if Bypass(path) {
			next.ServeHTTP(w, r)
			return
		}

		d := rw.Classify(r.Host, path)

		if rw.debug {
			log.Debug().
				Str("host", r.Host).
				Str("path", path).
				Str("class", string(d.Class)).
				Str("rewritten", d.Path).
				Msg("route classified")
		}

		// Reserved subdomains pass through untouched, no identity headers.
		if d.Class == ClassReservedOther {
			next.ServeHTTP(w, r)
			return
		}

		r.URL.Path = d.Path
		r.URL.RawPath = ""
		d.Identity.ApplyHeaders(r.Header)

		ctx := WithIdentity(r.Context(), d.Identity)
		ctx = WithOriginalPath(ctx, path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
