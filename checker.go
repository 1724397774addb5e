package rolekitclient

// Checker evaluates roles and permissions locally from a fetched
// UserAccess snapshot. It never talks to the network; pair it with
// Client.Access or Client.CheckerFor to obtain fresh data.
type Checker struct {
	access UserAccess
}

// NewChecker creates a Checker over an access snapshot.
func NewChecker(access UserAccess) *Checker {
	return &Checker{access: access}
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.access.UserID
}

// HasRole checks if the user holds a role, by slug.
//
// Example:
//
//	if checker.HasRole("admin") {
//	    // User is an admin
//	}
func (c *Checker) HasRole(slug string) bool {
	for _, r := range c.access.Roles {
		if r.Slug == slug {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the user holds any of the given roles.
func (c *Checker) HasAnyRole(slugs ...string) bool {
	for _, slug := range slugs {
		if c.HasRole(slug) {
			return true
		}
	}
	return false
}

// HasAllRoles checks if the user holds all of the given roles.
func (c *Checker) HasAllRoles(slugs ...string) bool {
	for _, slug := range slugs {
		if !c.HasRole(slug) {
			return false
		}
	}
	return true
}

// HasPermission checks if the user's granted patterns cover a permission,
// with full wildcard support.
//
// Example:
//
//	if checker.HasPermission("files.upload") {
//	    // User can upload files
//	}
func (c *Checker) HasPermission(permission string) bool {
	return MatchAnyPermission(c.access.Permissions, permission)
}

// HasAnyPermission checks if the user has any of the given permissions.
func (c *Checker) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if c.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if the user has all of the given permissions.
func (c *Checker) HasAllPermissions(permissions ...string) bool {
	for _, p := range permissions {
		if !c.HasPermission(p) {
			return false
		}
	}
	return true
}

// Roles returns the slugs of all roles the user holds.
func (c *Checker) Roles() []string {
	slugs := make([]string, 0, len(c.access.Roles))
	for _, r := range c.access.Roles {
		slugs = append(slugs, r.Slug)
	}
	return slugs
}

// Permissions returns the granted permission patterns.
func (c *Checker) Permissions() []string {
	return c.access.Permissions
}

// VisibleMenus filters a menu tree down to the entries the user may see:
// entries that are not hidden and whose gating permission (if any) the
// user holds. Children are filtered recursively.
func (c *Checker) VisibleMenus(menus []Menu) []Menu {
	var out []Menu
	for _, m := range menus {
		if m.Hidden {
			continue
		}
		if m.Permission != "" && !c.HasPermission(m.Permission) {
			continue
		}
		m.Children = c.VisibleMenus(m.Children)
		out = append(out, m)
	}
	return out
}

// IsEmpty returns true if the user has no roles and no permissions.
func (c *Checker) IsEmpty() bool {
	return len(c.access.Roles) == 0 && len(c.access.Permissions) == 0
}
