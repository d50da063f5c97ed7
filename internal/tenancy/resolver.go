package tenancy

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Source fetches tenant records from the remote backend. Implementations
// report a missing tenant with ErrTenantNotFound; any other error is a
// backend or network failure.
type Source interface {
	TenantBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// Cache is a short-TTL lookaside for tenant lookups. Implementations must
// only ever hold active tenants so a suspended or deleted tenant is
// re-checked within one TTL (fail-closed).
type Cache interface {
	Get(ctx context.Context, slug string) (*Tenant, bool)
	Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration)
}

// FetchResult is the outcome of a tenant lookup. Exactly one of the three
// shapes applies: found (Tenant set), suspended (Tenant set, Suspended),
// or not found (Tenant nil, NotFound). Err carries a short human-readable
// reason and never internal detail.
type FetchResult struct {
	Tenant    *Tenant
	Err       string
	NotFound  bool
	Suspended bool
}

// Resolver validates tenant slugs against the backend at page-render time.
// The routing decision itself never waits on the resolver.
type Resolver struct {
	source Source
	cache  Cache // nil disables caching
	ttl    time.Duration
}

// NewResolver creates a Resolver. cache may be nil, in which case every
// lookup goes to the backend.
func NewResolver(source Source, cache Cache, ttl time.Duration) *Resolver {
	return &Resolver{source: source, cache: cache, ttl: ttl}
}

// FetchTenantBySlug fetches a tenant record and maps its status:
// missing and inactive tenants both surface as NotFound (a deliberate
// conflation kept from the original behavior), suspended tenants keep
// their record populated so branding can still be rendered.
// A backend or network failure reads as NotFound, never as found.
func (r *Resolver) FetchTenantBySlug(ctx context.Context, slug string) FetchResult {
	if r.cache != nil {
		if t, ok := r.cache.Get(ctx, slug); ok {
			return FetchResult{Tenant: t}
		}
	}

	t, err := r.source.TenantBySlug(ctx, slug)
	switch {
	case errors.Is(err, ErrTenantNotFound):
		return FetchResult{Err: "restaurant doesn't exist", NotFound: true}
	case err != nil:
		// Fail closed.
		log.Warn().Err(err).Str("slug", slug).Msg("tenant fetch failed; treating as not found")
		return FetchResult{Err: "failed to check restaurant", NotFound: true}
	}

	switch t.Status {
	case StatusSuspended:
		return FetchResult{Tenant: t, Suspended: true}
	case StatusInactive:
		return FetchResult{Err: "restaurant is inactive", NotFound: true}
	}

	if r.cache != nil && t.Status == StatusActive {
		r.cache.Set(ctx, slug, t, r.ttl)
	}

	return FetchResult{Tenant: t}
}

// RequireTenant is the exception-style companion to FetchTenantBySlug.
func (r *Resolver) RequireTenant(ctx context.Context, slug string) (*Tenant, error) {
	res := r.FetchTenantBySlug(ctx, slug)

	if res.Suspended {
		return nil, ErrTenantSuspended
	}
	if res.NotFound || res.Tenant == nil {
		return nil, ErrTenantNotFound
	}

	return res.Tenant, nil
}
