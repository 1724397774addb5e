package rolekitclient

import (
	"strings"
)

// PermissionMatcher evaluates permission slugs against the wildcard
// patterns the RoleKit server grants through roles. Keeping the matching
// rules in the client lets UI code gate elements from a fetched access
// snapshot without a round-trip, with identical semantics to the server.
//
// Supported patterns:
//   - "*" matches all permissions
//   - "resource.*" matches all actions on a resource (e.g., "files.*" matches "files.read")
//   - "*.action" matches an action on all resources (e.g., "*.read" matches "files.read")
//   - "exact.match" matches exactly
type PermissionMatcher struct{}

// NewPermissionMatcher creates a new PermissionMatcher.
func NewPermissionMatcher() *PermissionMatcher {
	return &PermissionMatcher{}
}

// Match checks if a permission pattern matches a required permission.
//
// Examples:
//
//	Match("*", "files.read")           // true - wildcard matches all
//	Match("files.*", "files.read")     // true - resource wildcard
//	Match("*.read", "files.read")      // true - action wildcard
//	Match("files.read", "files.read")  // true - exact match
//	Match("files.read", "files.write") // false - no match
//	Match("files.*", "members.read")   // false - different resource
func (pm *PermissionMatcher) Match(pattern, permission string) bool {
	// Exact match
	if pattern == permission {
		return true
	}

	// Universal wildcard
	if pattern == "*" {
		return true
	}

	patternParts := strings.Split(pattern, ".")
	permParts := strings.Split(permission, ".")

	// Must have same number of parts (or pattern is just "*")
	if len(patternParts) != len(permParts) {
		return false
	}

	for i, pp := range patternParts {
		if pp == "*" {
			continue
		}
		if pp != permParts[i] {
			return false
		}
	}

	return true
}

// MatchAny checks if any of the patterns match the required permission.
func (pm *PermissionMatcher) MatchAny(patterns []string, permission string) bool {
	for _, pattern := range patterns {
		if pm.Match(pattern, permission) {
			return true
		}
	}
	return false
}

// ExpandPermissions returns every permission from 'all' that the given
// patterns would grant. Useful for rendering what a role can do from a
// fetched permission catalog.
func (pm *PermissionMatcher) ExpandPermissions(patterns []string, all []string) []string {
	matched := make(map[string]bool)

	for _, permission := range all {
		for _, pattern := range patterns {
			if pm.Match(pattern, permission) {
				matched[permission] = true
				break
			}
		}
	}

	result := make([]string, 0, len(matched))
	for p := range matched {
		result = append(result, p)
	}
	return result
}

// Validate checks if a permission string is well-formed before it is sent
// to the server. A valid permission is either "*" or a dot-separated
// string of identifiers, "*" allowed per part.
func (pm *PermissionMatcher) Validate(permission string) error {
	if permission == "" {
		return NewError(ErrValidation, "permission cannot be empty")
	}

	if permission == "*" {
		return nil
	}

	parts := strings.Split(permission, ".")
	if len(parts) < 2 {
		return NewError(ErrValidation, "permission must have at least two parts (resource.action)")
	}

	for _, part := range parts {
		if part == "" {
			return NewError(ErrValidation, "permission parts cannot be empty")
		}
		if part == "*" {
			continue
		}
		for _, c := range part {
			if !isValidPermissionChar(c) {
				return NewError(ErrValidation, "permission contains invalid character")
			}
		}
	}

	return nil
}

func isValidPermissionChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

// DefaultMatcher is the default permission matcher instance.
var DefaultMatcher = NewPermissionMatcher()

// MatchPermission is a convenience function using the default matcher.
func MatchPermission(pattern, permission string) bool {
	return DefaultMatcher.Match(pattern, permission)
}

// MatchAnyPermission is a convenience function using the default matcher.
func MatchAnyPermission(patterns []string, permission string) bool {
	return DefaultMatcher.MatchAny(patterns, permission)
}
