package rolekitclient

import (
	"context"
)

// ============================================================================
// CHECK LOG OPERATIONS
// ============================================================================

// ListCheckLogs returns a page of permission-check audit records matching
// the filter.
//
// Example:
//
//	denied, err := client.ListCheckLogs(ctx,
//	    rolekitclient.NewCheckLogFilter().
//	        WithUser(userID).
//	        WithAllowed(false).
//	        WithSince(time.Now().Add(-24*time.Hour)))
func (c *Client) ListCheckLogs(ctx context.Context, filter CheckLogFilter) (Page[CheckLog], error) {
	var page Page[CheckLog]
	if err := c.get(ctx, "/api/logs/checks", filter.Values(), &page); err != nil {
		return Page[CheckLog]{}, err
	}
	return page, nil
}
