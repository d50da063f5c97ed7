package middleware

import (
	"context"

	"github.com/dineos/edge/internal/tenancy"
)

type contextKey string

const (
	// ContextKeyIdentity carries the tenancy.Identity resolved by the
	// rewrite middleware.
	ContextKeyIdentity contextKey = "identity"
	// ContextKeyOriginalPath carries the request path as it arrived,
	// before rewriting.
	ContextKeyOriginalPath contextKey = "original_path"
)

func WithIdentity(ctx context.Context, id tenancy.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) (tenancy.Identity, bool) {
	v, ok := ctx.Value(ContextKeyIdentity).(tenancy.Identity)
	return v, ok
}

func WithOriginalPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ContextKeyOriginalPath, path)
}

func OriginalPathFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyOriginalPath).(string)
	return v, ok
}
