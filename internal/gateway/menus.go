package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/dineos/edge/internal/backend"
)

type MenusListInput struct {
	TenantSlug string `query:"tenantSlug"`
	Token      string `query:"token"`
}

type MenusListBody struct {
	Success bool           `json:"success"`
	Data    []backend.Menu `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Debug   string         `json:"debug,omitempty"`
}

type MenusListOutput struct {
	Status int
	Body   MenusListBody
}

type MenuWriteInput struct {
	Body struct {
		TenantSlug string       `json:"tenantSlug"`
		Token      string       `json:"token"`
		MenuData   backend.Menu `json:"menuData"`
	}
}

type MenuWriteByIDInput struct {
	ID   int `path:"id"`
	Body struct {
		TenantSlug string       `json:"tenantSlug"`
		Token      string       `json:"token"`
		MenuData   backend.Menu `json:"menuData"`
	}
}

type MenuDeleteInput struct {
	ID         int    `path:"id"`
	TenantSlug string `query:"tenantSlug"`
	Token      string `query:"token"`
}

type MenuBody struct {
	Success bool          `json:"success"`
	Data    *backend.Menu `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Debug   string        `json:"debug,omitempty"`
}

type MenuOutput struct {
	Status int
	Body   MenuBody
}

type ItemsListInput struct {
	TenantSlug string `query:"tenantSlug"`
	Token      string `query:"token"`
	MenuID     int    `query:"menuId"`
}

type ItemsListBody struct {
	Success bool           `json:"success"`
	Data    []backend.Item `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Debug   string         `json:"debug,omitempty"`
}

type ItemsListOutput struct {
	Status int
	Body   ItemsListBody
}

type ItemWriteInput struct {
	Body struct {
		TenantSlug string       `json:"tenantSlug"`
		Token      string       `json:"token"`
		ItemData   backend.Item `json:"itemData"`
	}
}

type ItemBody struct {
	Success bool          `json:"success"`
	Data    *backend.Item `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Debug   string        `json:"debug,omitempty"`
}

type ItemOutput struct {
	Status int
	Body   ItemBody
}

// proxyStatus maps a session error to the status and message the browser
// sees. Session expiry is the only error with a distinct status; everything
// else is an opaque 500.
func proxyStatus(err error, action string, devMode bool) (int, string, string) {
	if errors.Is(err, backend.ErrSessionExpired) {
		return http.StatusUnauthorized, "session expired", ""
	}
	debug := ""
	if devMode {
		debug = err.Error()
	}
	return http.StatusInternalServerError, "failed to " + action, debug
}

// RegisterMenuRoutes wires the dashboard menu/item proxy. Each handler
// builds a fresh per-request session from the credentials on the request;
// there is no shared client state between requests.
func RegisterMenuRoutes(api huma.API, sessions SessionFactory, devMode bool) {
	huma.Register(api, huma.Operation{
		OperationID: "list-menus",
		Method:      http.MethodGet,
		Path:        "/menus",
		Summary:     "List all menus for a tenant",
		Tags:        []string{"Menus"},
	}, func(ctx context.Context, input *MenusListInput) (*MenusListOutput, error) {
		if input.TenantSlug == "" || input.Token == "" {
			return &MenusListOutput{
				Status: http.StatusBadRequest,
				Body:   MenusListBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		menus, err := sessions(input.TenantSlug, input.Token).Menus(ctx)
		if err != nil {
			log.Error().Err(err).Str("slug", input.TenantSlug).Msg("menu list proxy failed")
			status, message, debug := proxyStatus(err, "fetch menus", devMode)
			return &MenusListOutput{Status: status, Body: MenusListBody{Success: false, Message: message, Debug: debug}}, nil
		}

		return &MenusListOutput{
			Status: http.StatusOK,
			Body:   MenusListBody{Success: true, Data: menus},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-menu",
		Method:      http.MethodPost,
		Path:        "/menus",
		Summary:     "Create a menu",
		Tags:        []string{"Menus"},
	}, func(ctx context.Context, input *MenuWriteInput) (*MenuOutput, error) {
		if input.Body.TenantSlug == "" || input.Body.Token == "" || input.Body.MenuData.Name == "" {
			return &MenuOutput{
				Status: http.StatusBadRequest,
				Body:   MenuBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		menu, err := sessions(input.Body.TenantSlug, input.Body.Token).CreateMenu(ctx, input.Body.MenuData)
		if err != nil {
			log.Error().Err(err).Str("slug", input.Body.TenantSlug).Msg("menu create proxy failed")
			status, message, debug := proxyStatus(err, "create menu", devMode)
			return &MenuOutput{Status: status, Body: MenuBody{Success: false, Message: message, Debug: debug}}, nil
		}

		return &MenuOutput{Status: http.StatusOK, Body: MenuBody{Success: true, Data: menu}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-menu",
		Method:      http.MethodPatch,
		Path:        "/menus/{id}",
		Summary:     "Update a menu",
		Tags:        []string{"Menus"},
	}, func(ctx context.Context, input *MenuWriteByIDInput) (*MenuOutput, error) {
		if input.Body.TenantSlug == "" || input.Body.Token == "" {
			return &MenuOutput{
				Status: http.StatusBadRequest,
				Body:   MenuBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		menu, err := sessions(input.Body.TenantSlug, input.Body.Token).UpdateMenu(ctx, input.ID, input.Body.MenuData)
		if err != nil {
			log.Error().Err(err).Str("slug", input.Body.TenantSlug).Int("menu_id", input.ID).Msg("menu update proxy failed")
			status, message, debug := proxyStatus(err, "update menu", devMode)
			return &MenuOutput{Status: status, Body: MenuBody{Success: false, Message: message, Debug: debug}}, nil
		}

		return &MenuOutput{Status: http.StatusOK, Body: MenuBody{Success: true, Data: menu}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-menu",
		Method:      http.MethodDelete,
		Path:        "/menus/{id}",
		Summary:     "Delete a menu",
		Tags:        []string{"Menus"},
	}, func(ctx context.Context, input *MenuDeleteInput) (*MenuOutput, error) {
		if input.TenantSlug == "" || input.Token == "" {
			return &MenuOutput{
				Status: http.StatusBadRequest,
				Body:   MenuBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		if err := sessions(input.TenantSlug, input.Token).DeleteMenu(ctx, input.ID); err != nil {
			log.Error().Err(err).Str("slug", input.TenantSlug).Int("menu_id", input.ID).Msg("menu delete proxy failed")
			status, message, debug := proxyStatus(err, "delete menu", devMode)
			return &MenuOutput{Status: status, Body: MenuBody{Success: false, Message: message, Debug: debug}}, nil
		}

		return &MenuOutput{Status: http.StatusOK, Body: MenuBody{Success: true}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/items",
		Summary:     "List items for a menu",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *ItemsListInput) (*ItemsListOutput, error) {
		if input.TenantSlug == "" || input.Token == "" || input.MenuID == 0 {
			return &ItemsListOutput{
				Status: http.StatusBadRequest,
				Body:   ItemsListBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		items, err := sessions(input.TenantSlug, input.Token).MenuItems(ctx, input.MenuID)
		if err != nil {
			log.Error().Err(err).Str("slug", input.TenantSlug).Int("menu_id", input.MenuID).Msg("item list proxy failed")
			status, message, debug := proxyStatus(err, "fetch items", devMode)
			return &ItemsListOutput{Status: status, Body: ItemsListBody{Success: false, Message: message, Debug: debug}}, nil
		}

		return &ItemsListOutput{
			Status: http.StatusOK,
			Body:   ItemsListBody{Success: true, Data: items},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-item",
		Method:      http.MethodPost,
		Path:        "/items",
		Summary:     "Create an item on a menu",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *ItemWriteInput) (*ItemOutput, error) {
		if input.Body.TenantSlug == "" || input.Body.Token == "" || input.Body.ItemData.Name == "" || input.Body.ItemData.MenuID == 0 {
			return &ItemOutput{
				Status: http.StatusBadRequest,
				Body:   ItemBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		item, err := sessions(input.Body.TenantSlug, input.Body.Token).CreateItem(ctx, input.Body.ItemData)
		if err != nil {
			log.Error().Err(err).Str("slug", input.Body.TenantSlug).Msg("item create proxy failed")
			status, message, debug := proxyStatus(err, "create item", devMode)
			return &ItemOutput{Status: status, Body: ItemBody{Success: false, Message: message, Debug: debug}}, nil
		}

		return &ItemOutput{Status: http.StatusOK, Body: ItemBody{Success: true, Data: item}}, nil
	})
}
