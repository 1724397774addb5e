package rolekitclient

import (
	"context"
	"net/url"
)

// ============================================================================
// CHECKS & ASSIGNMENTS
// ============================================================================

// Can asks the server whether a user holds a role, by slug. Every remote
// check is recorded in the server's check log.
func (c *Client) Can(ctx context.Context, userID, role string) (bool, error) {
	in := struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}{UserID: userID, Role: role}

	var res CheckResult
	if err := c.post(ctx, "/api/checks/role", in, &res); err != nil {
		return false, err
	}
	return res.Allowed, nil
}

// HasPermission asks the server whether a user's roles grant a permission.
// The result includes the pattern that matched, if any.
func (c *Client) HasPermission(ctx context.Context, userID, permission string) (CheckResult, error) {
	if err := DefaultMatcher.Validate(permission); err != nil {
		return CheckResult{}, err
	}
	in := struct {
		UserID     string `json:"user_id"`
		Permission string `json:"permission"`
	}{UserID: userID, Permission: permission}

	var res CheckResult
	if err := c.post(ctx, "/api/checks/permission", in, &res); err != nil {
		return CheckResult{}, err
	}
	return res, nil
}

// Access fetches a user's full access snapshot: their roles and the union
// of permission patterns those roles grant.
func (c *Client) Access(ctx context.Context, userID string) (UserAccess, error) {
	var access UserAccess
	if err := c.get(ctx, "/api/users/"+url.PathEscape(userID)+"/access", nil, &access); err != nil {
		return UserAccess{}, err
	}
	return access, nil
}

// UserRoles fetches the roles a user holds.
func (c *Client) UserRoles(ctx context.Context, userID string) ([]Role, error) {
	access, err := c.Access(ctx, userID)
	if err != nil {
		return nil, err
	}
	return access.Roles, nil
}

// UserPermissions fetches the permission patterns a user's roles grant.
func (c *Client) UserPermissions(ctx context.Context, userID string) ([]string, error) {
	access, err := c.Access(ctx, userID)
	if err != nil {
		return nil, err
	}
	return access.Permissions, nil
}

// CheckerFor fetches a user's access snapshot and wraps it in a Checker
// for local evaluation.
//
// Example:
//
//	checker, err := client.CheckerFor(ctx, userID)
//	if err != nil {
//	    return err
//	}
//	if checker.HasPermission("files.upload") {
//	    // render the upload control
//	}
func (c *Client) CheckerFor(ctx context.Context, userID string) (*Checker, error) {
	access, err := c.Access(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewChecker(access), nil
}

// Assign grants a role to a user and returns the created binding.
func (c *Client) Assign(ctx context.Context, userID, roleID string) (RoleAssignment, error) {
	in := struct {
		RoleID string `json:"role_id"`
	}{RoleID: roleID}

	var assignment RoleAssignment
	if err := c.post(ctx, "/api/users/"+url.PathEscape(userID)+"/roles", in, &assignment); err != nil {
		return RoleAssignment{}, err
	}
	return assignment, nil
}

// Revoke removes a role from a user.
func (c *Client) Revoke(ctx context.Context, userID, roleID string) error {
	return c.delete(ctx, "/api/users/"+url.PathEscape(userID)+"/roles/"+url.PathEscape(roleID))
}
