package rolekitclient

import (
	"net/url"
	"strconv"
	"time"
)

// ListFilter provides options for filtering list endpoints (roles,
// permissions, URL rules).
type ListFilter struct {
	// Free-text search over name and slug
	Query string

	// Filter by record status
	Status Status

	// Filter by permission group (permissions endpoint only)
	Group string

	// Pagination
	Page    int
	PerPage int
}

// NewListFilter creates a ListFilter with default pagination.
func NewListFilter() ListFilter {
	return ListFilter{
		Page:    1,
		PerPage: 50,
	}
}

// WithQuery sets the free-text search filter.
func (f ListFilter) WithQuery(q string) ListFilter {
	f.Query = q
	return f
}

// WithStatus sets the status filter.
func (f ListFilter) WithStatus(status Status) ListFilter {
	f.Status = status
	return f
}

// WithGroup sets the permission group filter.
func (f ListFilter) WithGroup(group string) ListFilter {
	f.Group = group
	return f
}

// WithPagination sets page and page size.
func (f ListFilter) WithPagination(page, perPage int) ListFilter {
	f.Page = page
	f.PerPage = perPage
	return f
}

// Values encodes the filter as query parameters.
func (f ListFilter) Values() url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	if f.Group != "" {
		v.Set("group", f.Group)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return v
}

// CheckLogFilter provides options for filtering permission-check log
// queries.
type CheckLogFilter struct {
	// Filter by the user that was checked
	UserID string

	// Filter by the permission that was checked
	Permission string

	// Filter by decision; nil means both
	Allowed *bool

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Page    int
	PerPage int
}

// NewCheckLogFilter creates a CheckLogFilter with default pagination.
func NewCheckLogFilter() CheckLogFilter {
	return CheckLogFilter{
		Page:    1,
		PerPage: 100,
	}
}

// WithUser sets the user filter.
func (f CheckLogFilter) WithUser(userID string) CheckLogFilter {
	f.UserID = userID
	return f
}

// WithPermission sets the permission filter.
func (f CheckLogFilter) WithPermission(permission string) CheckLogFilter {
	f.Permission = permission
	return f
}

// WithAllowed filters by decision outcome.
func (f CheckLogFilter) WithAllowed(allowed bool) CheckLogFilter {
	f.Allowed = &allowed
	return f
}

// WithTimeRange sets the time range filter.
func (f CheckLogFilter) WithTimeRange(since, until time.Time) CheckLogFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithSince sets the start time filter.
func (f CheckLogFilter) WithSince(since time.Time) CheckLogFilter {
	f.Since = since
	return f
}

// WithUntil sets the end time filter.
func (f CheckLogFilter) WithUntil(until time.Time) CheckLogFilter {
	f.Until = until
	return f
}

// WithPagination sets page and page size.
func (f CheckLogFilter) WithPagination(page, perPage int) CheckLogFilter {
	f.Page = page
	f.PerPage = perPage
	return f
}

// Values encodes the filter as query parameters.
func (f CheckLogFilter) Values() url.Values {
	v := url.Values{}
	if f.UserID != "" {
		v.Set("user_id", f.UserID)
	}
	if f.Permission != "" {
		v.Set("permission", f.Permission)
	}
	if f.Allowed != nil {
		v.Set("allowed", strconv.FormatBool(*f.Allowed))
	}
	if !f.Since.IsZero() {
		v.Set("since", f.Since.UTC().Format(time.RFC3339))
	}
	if !f.Until.IsZero() {
		v.Set("until", f.Until.UTC().Format(time.RFC3339))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return v
}
