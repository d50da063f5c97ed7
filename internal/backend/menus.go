package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Menu is the dashboard menu shape used by the tenant backend.
type Menu struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// Item is one dish on a menu.
type Item struct {
	ID          int     `json:"id,omitempty"`
	MenuID      int     `json:"menu_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
	Type        string  `json:"type"` // VEGETARIAN | NON_VEGETARIAN | VEGAN
}

// Menus fetches all menus for the session's tenant.
func (s *Session) Menus(ctx context.Context) ([]Menu, error) {
	resp, err := s.Do(ctx, http.MethodGet, "/v1/menus", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	var menus []Menu
	if err := decodeJSON(resp, &menus); err != nil {
		return nil, fmt.Errorf("backend.Session.Menus: %w", err)
	}
	return menus, nil
}

// CreateMenu creates a menu and returns the backend's record.
func (s *Session) CreateMenu(ctx context.Context, m Menu) (*Menu, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("backend.Session.CreateMenu: %w", err)
	}

	resp, err := s.Do(ctx, http.MethodPost, "/v1/menus", payload)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	created := &Menu{}
	if err := decodeJSON(resp, created); err != nil {
		return nil, fmt.Errorf("backend.Session.CreateMenu: %w", err)
	}
	return created, nil
}

// UpdateMenu applies a partial update to one menu.
func (s *Session) UpdateMenu(ctx context.Context, id int, m Menu) (*Menu, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("backend.Session.UpdateMenu: %w", err)
	}

	resp, err := s.Do(ctx, http.MethodPatch, "/v1/menus/"+strconv.Itoa(id), payload)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	updated := &Menu{}
	if err := decodeJSON(resp, updated); err != nil {
		return nil, fmt.Errorf("backend.Session.UpdateMenu: %w", err)
	}
	return updated, nil
}

// DeleteMenu removes one menu.
func (s *Session) DeleteMenu(ctx context.Context, id int) error {
	resp, err := s.Do(ctx, http.MethodDelete, "/v1/menus/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("backend.Session.DeleteMenu: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// MenuItems fetches all items for one menu.
func (s *Session) MenuItems(ctx context.Context, menuID int) ([]Item, error) {
	resp, err := s.Do(ctx, http.MethodGet, "/v1/items?menuId="+strconv.Itoa(menuID), nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	var items []Item
	if err := decodeJSON(resp, &items); err != nil {
		return nil, fmt.Errorf("backend.Session.MenuItems: %w", err)
	}
	return items, nil
}

// CreateItem adds an item to a menu.
func (s *Session) CreateItem(ctx context.Context, it Item) (*Item, error) {
	payload, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("backend.Session.CreateItem: %w", err)
	}

	resp, err := s.Do(ctx, http.MethodPost, "/v1/items", payload)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	created := &Item{}
	if err := decodeJSON(resp, created); err != nil {
		return nil, fmt.Errorf("backend.Session.CreateItem: %w", err)
	}
	return created, nil
}

// decodeJSON decodes a 2xx JSON response into out. A 204 leaves out at its
// zero value.
func decodeJSON(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
