package rolekitclient

import (
	"context"
	"net/url"
)

// ============================================================================
// MENU OPERATIONS
// ============================================================================

// ListMenus returns the full menu tree. Use Checker.VisibleMenus to filter
// it down to what a user may see.
func (c *Client) ListMenus(ctx context.Context) ([]Menu, error) {
	var menus []Menu
	if err := c.get(ctx, "/api/menus", nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// CreateMenu creates a menu entry and returns the stored record.
func (c *Client) CreateMenu(ctx context.Context, in MenuInput) (Menu, error) {
	var menu Menu
	if err := c.post(ctx, "/api/menus", in, &menu); err != nil {
		return Menu{}, err
	}
	return menu, nil
}

// UpdateMenu updates a menu entry and returns the stored record.
func (c *Client) UpdateMenu(ctx context.Context, id string, in MenuInput) (Menu, error) {
	var menu Menu
	if err := c.put(ctx, "/api/menus/"+url.PathEscape(id), in, &menu); err != nil {
		return Menu{}, err
	}
	return menu, nil
}

// DeleteMenu removes a menu entry and its descendants.
func (c *Client) DeleteMenu(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/menus/"+url.PathEscape(id))
}
