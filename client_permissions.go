package rolekitclient

import (
	"context"
	"net/url"
)

// ============================================================================
// PERMISSION OPERATIONS
// ============================================================================

// ListPermissions returns a page of permissions matching the filter.
func (c *Client) ListPermissions(ctx context.Context, filter ListFilter) (Page[Permission], error) {
	var page Page[Permission]
	if err := c.get(ctx, "/api/permissions", filter.Values(), &page); err != nil {
		return Page[Permission]{}, err
	}
	return page, nil
}

// GetPermission fetches a single permission by ID.
func (c *Client) GetPermission(ctx context.Context, id string) (Permission, error) {
	var perm Permission
	if err := c.get(ctx, "/api/permissions/"+url.PathEscape(id), nil, &perm); err != nil {
		return Permission{}, err
	}
	return perm, nil
}

// CreatePermission creates a permission and returns the stored record.
// The slug must be a well-formed resource.action string; wildcards live on
// roles, not in the permission catalog.
func (c *Client) CreatePermission(ctx context.Context, in PermissionInput) (Permission, error) {
	if err := DefaultMatcher.Validate(in.Slug); err != nil {
		return Permission{}, err
	}
	var perm Permission
	if err := c.post(ctx, "/api/permissions", in, &perm); err != nil {
		return Permission{}, err
	}
	return perm, nil
}

// UpdatePermission updates a permission and returns the stored record.
func (c *Client) UpdatePermission(ctx context.Context, id string, in PermissionInput) (Permission, error) {
	if err := DefaultMatcher.Validate(in.Slug); err != nil {
		return Permission{}, err
	}
	var perm Permission
	if err := c.put(ctx, "/api/permissions/"+url.PathEscape(id), in, &perm); err != nil {
		return Permission{}, err
	}
	return perm, nil
}

// DeletePermission removes a permission.
func (c *Client) DeletePermission(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/permissions/"+url.PathEscape(id))
}
