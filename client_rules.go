package rolekitclient

import (
	"context"
	"net/url"
)

// ============================================================================
// URL RULE OPERATIONS
// ============================================================================

// ListURLRules returns a page of URL access rules matching the filter.
func (c *Client) ListURLRules(ctx context.Context, filter ListFilter) (Page[URLRule], error) {
	var page Page[URLRule]
	if err := c.get(ctx, "/api/rules", filter.Values(), &page); err != nil {
		return Page[URLRule]{}, err
	}
	return page, nil
}

// GetURLRule fetches a single URL rule by ID.
func (c *Client) GetURLRule(ctx context.Context, id string) (URLRule, error) {
	var rule URLRule
	if err := c.get(ctx, "/api/rules/"+url.PathEscape(id), nil, &rule); err != nil {
		return URLRule{}, err
	}
	return rule, nil
}

// CreateURLRule creates a URL rule and returns the stored record.
func (c *Client) CreateURLRule(ctx context.Context, in URLRuleInput) (URLRule, error) {
	var rule URLRule
	if err := c.post(ctx, "/api/rules", in, &rule); err != nil {
		return URLRule{}, err
	}
	return rule, nil
}

// UpdateURLRule updates a URL rule and returns the stored record.
func (c *Client) UpdateURLRule(ctx context.Context, id string, in URLRuleInput) (URLRule, error) {
	var rule URLRule
	if err := c.put(ctx, "/api/rules/"+url.PathEscape(id), in, &rule); err != nil {
		return URLRule{}, err
	}
	return rule, nil
}

// DeleteURLRule removes a URL rule.
func (c *Client) DeleteURLRule(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/rules/"+url.PathEscape(id))
}
