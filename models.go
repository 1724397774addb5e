package rolekitclient

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a remote record.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Role mirrors a role record as returned by the remote API.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Permissions []string  `json:"permissions,omitempty"` // permission slugs granted to the role
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleInput is the payload for creating or updating a role.
type RoleInput struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Permission mirrors a permission record. The slug is a dot-separated
// capability string ("files.upload") and may carry wildcards when attached
// to a role ("files.*", "*.read").
type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Group       string    `json:"group,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionInput is the payload for creating or updating a permission.
type PermissionInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Group       string `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
}

// Menu mirrors a navigation menu entry. Menus form a tree via Children.
type Menu struct {
	ID         string `json:"id"`
	ParentID   string `json:"parent_id,omitempty"`
	Title      string `json:"title"`
	Path       string `json:"path,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Sort       int    `json:"sort"`
	Hidden     bool   `json:"hidden"`
	Permission string `json:"permission,omitempty"` // permission slug gating visibility
	Children   []Menu `json:"children,omitempty"`
}

// Flatten returns the menu and all descendants in depth-first order.
func (m Menu) Flatten() []Menu {
	out := []Menu{m}
	for _, c := range m.Children {
		out = append(out, c.Flatten()...)
	}
	return out
}

// FlattenMenus flattens a menu tree into a depth-first list.
func FlattenMenus(menus []Menu) []Menu {
	var out []Menu
	for _, m := range menus {
		out = append(out, m.Flatten()...)
	}
	return out
}

// MenuInput is the payload for creating or updating a menu entry.
type MenuInput struct {
	ParentID   string `json:"parent_id,omitempty"`
	Title      string `json:"title"`
	Path       string `json:"path,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Sort       int    `json:"sort,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
	Permission string `json:"permission,omitempty"`
}

// URLRule mirrors a URL access rule: a method/path pattern guarded by a
// permission slug.
type URLRule struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Permission string    `json:"permission"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// URLRuleInput is the payload for creating or updating a URL rule.
type URLRuleInput struct {
	Name       string `json:"name"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Permission string `json:"permission"`
	Status     Status `json:"status,omitempty"`
}

// CheckLog mirrors one permission-check audit record.
type CheckLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Permission string    `json:"permission"`
	Roles      []string  `json:"roles,omitempty"` // role slugs consulted for the decision
	Allowed    bool      `json:"allowed"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// RoleAssignment mirrors a user/role binding returned by assignment
// endpoints.
type RoleAssignment struct {
	UserID     string    `json:"user_id"`
	RoleID     string    `json:"role_id"`
	RoleSlug   string    `json:"role_slug,omitempty"`
	AssignedBy string    `json:"assigned_by,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

// UserAccess is the full access snapshot for a user: their roles and the
// union of permission slugs those roles grant.
type UserAccess struct {
	UserID      string   `json:"user_id"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
}

// CheckResult is the outcome of a remote permission check.
type CheckResult struct {
	Allowed bool   `json:"allowed"`
	Matched string `json:"matched,omitempty"` // the pattern that granted access, if any
}

// HealthStatus is the remote API health report.
type HealthStatus struct {
	Status  string    `json:"status"`
	Version string    `json:"version,omitempty"`
	Time    time.Time `json:"time"`
}

// Healthy reports whether the remote API considers itself operational.
func (h HealthStatus) Healthy() bool {
	return h.Status == "ok"
}

// envelope is the wire envelope every endpoint responds with. A code of
// zero means success; any other code maps to an API error carrying the
// message.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Page is a paginated list payload.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// HasMore reports whether pages remain past this one.
func (p Page[T]) HasMore() bool {
	if p.PerPage <= 0 {
		return false
	}
	return p.Page*p.PerPage < p.Total
}
