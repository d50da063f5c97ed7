package tenancy

import "net/http"

// IdentityKind is the six-way route classification of an inbound request.
type IdentityKind string

const (
	// KindSuperadmin is a root-domain request under /admin.
	KindSuperadmin IdentityKind = "superadmin"
	// KindMarketing is any other root-domain or www request.
	KindMarketing IdentityKind = "marketing"
	// KindAppDashboard is a request on the app subdomain.
	KindAppDashboard IdentityKind = "app_dashboard"
	// KindReserved is a reserved subdomain without special handling.
	KindReserved IdentityKind = "reserved"
	// KindTenant is a request on a tenant's own subdomain.
	KindTenant IdentityKind = "tenant"
)

// Header names used to propagate identity to downstream handlers. These are
// the process-boundary serialization of Identity; in-process code should use
// the Identity value from the request context instead.
const (
	HeaderTenantID       = "X-Tenant-Id"
	HeaderTenantSlug     = "X-Tenant-Slug"
	HeaderIsSuperadmin   = "X-Is-Superadmin"
	HeaderIsAppDashboard = "X-Is-App-Dashboard"
)

// Identity is the resolved per-request identity. Slug is set only for
// KindTenant. Created per-request and discarded afterwards, never persisted.
type Identity struct {
	Kind IdentityKind
	Slug string
}

// ApplyHeaders serializes the identity onto the rewritten request's headers.
// Reserved subdomains intentionally get no identity headers.
func (id Identity) ApplyHeaders(h http.Header) {
	switch id.Kind {
	case KindSuperadmin:
		h.Set(HeaderTenantID, "")
		h.Set(HeaderIsSuperadmin, "true")
	case KindMarketing:
		h.Set(HeaderTenantID, "")
	case KindAppDashboard:
		h.Set(HeaderTenantID, "")
		h.Set(HeaderIsAppDashboard, "true")
	case KindTenant:
		h.Set(HeaderTenantID, id.Slug)
		h.Set(HeaderTenantSlug, id.Slug)
	case KindReserved:
	}
}

// IdentityFromHeaders reconstructs an Identity from serialized headers.
// Used by handlers that sit behind a separate rewriting process.
func IdentityFromHeaders(h http.Header) Identity {
	if h.Get(HeaderIsSuperadmin) == "true" {
		return Identity{Kind: KindSuperadmin}
	}
	if h.Get(HeaderIsAppDashboard) == "true" {
		return Identity{Kind: KindAppDashboard}
	}
	if slug := h.Get(HeaderTenantSlug); slug != "" {
		return Identity{Kind: KindTenant, Slug: slug}
	}
	if slug := h.Get(HeaderTenantID); slug != "" {
		return Identity{Kind: KindTenant, Slug: slug}
	}
	return Identity{Kind: KindMarketing}
}
