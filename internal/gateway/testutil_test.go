package gateway_test

import (
	"context"

	"github.com/dineos/edge/internal/backend"
	"github.com/dineos/edge/internal/gateway"
)

// ---------------------------------------------------------------------------
// Mock TenantAPI
// ---------------------------------------------------------------------------

type mockTenantAPI struct {
	existsFunc func(ctx context.Context, slug string) (bool, error)
	loginFunc  func(ctx context.Context, slug, email, password string) (*backend.LoginResult, error)
}

func (m *mockTenantAPI) TenantExists(ctx context.Context, slug string) (bool, error) {
	return m.existsFunc(ctx, slug)
}

func (m *mockTenantAPI) Login(ctx context.Context, slug, email, password string) (*backend.LoginResult, error) {
	return m.loginFunc(ctx, slug, email, password)
}

// ---------------------------------------------------------------------------
// Mock MenuSession
// ---------------------------------------------------------------------------

type mockSession struct {
	slug  string
	token string

	menusFunc      func(ctx context.Context) ([]backend.Menu, error)
	createMenuFunc func(ctx context.Context, m backend.Menu) (*backend.Menu, error)
	updateMenuFunc func(ctx context.Context, id int, m backend.Menu) (*backend.Menu, error)
	deleteMenuFunc func(ctx context.Context, id int) error
	menuItemsFunc  func(ctx context.Context, menuID int) ([]backend.Item, error)
	createItemFunc func(ctx context.Context, it backend.Item) (*backend.Item, error)
}

func (m *mockSession) Menus(ctx context.Context) ([]backend.Menu, error) {
	return m.menusFunc(ctx)
}

func (m *mockSession) CreateMenu(ctx context.Context, menu backend.Menu) (*backend.Menu, error) {
	return m.createMenuFunc(ctx, menu)
}

func (m *mockSession) UpdateMenu(ctx context.Context, id int, menu backend.Menu) (*backend.Menu, error) {
	return m.updateMenuFunc(ctx, id, menu)
}

func (m *mockSession) DeleteMenu(ctx context.Context, id int) error {
	return m.deleteMenuFunc(ctx, id)
}

func (m *mockSession) MenuItems(ctx context.Context, menuID int) ([]backend.Item, error) {
	return m.menuItemsFunc(ctx, menuID)
}

func (m *mockSession) CreateItem(ctx context.Context, it backend.Item) (*backend.Item, error) {
	return m.createItemFunc(ctx, it)
}

// sessionFactory records the credentials each request carried.
func sessionFactory(s *mockSession) gateway.SessionFactory {
	return func(slug, accessToken string) gateway.MenuSession {
		s.slug = slug
		s.token = accessToken
		return s
	}
}
