package tenancy

import "errors"

// Sentinel errors for call sites preferring exception-style control flow
// over inspecting FetchResult fields.
//nolint:gochecknoglobals // sentinel errors
var (
	ErrTenantNotFound  = errors.New("tenancy: tenant not found")
	ErrTenantSuspended = errors.New("tenancy: tenant suspended")
)
