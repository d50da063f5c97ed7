// Package gateway is the same-origin BFF surface. Browser code calls these
// routes instead of the remote backend directly, which keeps cross-origin
// requests (and the internal API key) out of the client entirely.
package gateway

import (
	"context"

	"github.com/dineos/edge/internal/backend"
)

// TenantAPI abstracts the backend client operations used by the gateway
// handlers. *backend.Client satisfies this interface.
type TenantAPI interface {
	TenantExists(ctx context.Context, slug string) (bool, error)
	Login(ctx context.Context, slug, email, password string) (*backend.LoginResult, error)
}

// MenuSession is one tenant's authenticated view of the backend menu API.
// *backend.Session satisfies this interface.
type MenuSession interface {
	Menus(ctx context.Context) ([]backend.Menu, error)
	CreateMenu(ctx context.Context, m backend.Menu) (*backend.Menu, error)
	UpdateMenu(ctx context.Context, id int, m backend.Menu) (*backend.Menu, error)
	DeleteMenu(ctx context.Context, id int) error
	MenuItems(ctx context.Context, menuID int) ([]backend.Item, error)
	CreateItem(ctx context.Context, it backend.Item) (*backend.Item, error)
}

// SessionFactory builds a per-request authenticated session from the
// credentials carried on the inbound request. No session outlives the
// request that created it.
type SessionFactory func(slug, accessToken string) MenuSession
