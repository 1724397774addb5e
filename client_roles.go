package rolekitclient

import (
	"context"
	"net/url"
)

// ============================================================================
// ROLE OPERATIONS
// ============================================================================

// ListRoles returns a page of roles matching the filter.
//
// Example:
//
//	page, err := client.ListRoles(ctx, rolekitclient.NewListFilter().WithQuery("admin"))
func (c *Client) ListRoles(ctx context.Context, filter ListFilter) (Page[Role], error) {
	var page Page[Role]
	if err := c.get(ctx, "/api/roles", filter.Values(), &page); err != nil {
		return Page[Role]{}, err
	}
	return page, nil
}

// GetRole fetches a single role by ID.
func (c *Client) GetRole(ctx context.Context, id string) (Role, error) {
	var role Role
	if err := c.get(ctx, "/api/roles/"+url.PathEscape(id), nil, &role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// CreateRole creates a role and returns the stored record.
//
// Example:
//
//	role, err := client.CreateRole(ctx, rolekitclient.RoleInput{
//	    Name:        "Editor",
//	    Slug:        "editor",
//	    Permissions: []string{"files.*", "comments.read"},
//	})
func (c *Client) CreateRole(ctx context.Context, in RoleInput) (Role, error) {
	var role Role
	if err := c.post(ctx, "/api/roles", in, &role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// UpdateRole updates a role and returns the stored record.
func (c *Client) UpdateRole(ctx context.Context, id string, in RoleInput) (Role, error) {
	var role Role
	if err := c.put(ctx, "/api/roles/"+url.PathEscape(id), in, &role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/roles/"+url.PathEscape(id))
}

// SetRolePermissions replaces the permission patterns granted by a role.
func (c *Client) SetRolePermissions(ctx context.Context, id string, permissions []string) (Role, error) {
	for _, p := range permissions {
		if err := DefaultMatcher.Validate(p); err != nil {
			return Role{}, err
		}
	}
	in := struct {
		Permissions []string `json:"permissions"`
	}{Permissions: permissions}

	var role Role
	if err := c.put(ctx, "/api/roles/"+url.PathEscape(id)+"/permissions", in, &role); err != nil {
		return Role{}, err
	}
	return role, nil
}
