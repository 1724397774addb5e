package rolekitclient

import (
	"context"
)

// ============================================================================
// HEALTH
// ============================================================================

// Health probes the remote API health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.get(ctx, "/api/health", nil, &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}

// IsHealthy reports whether the remote API responds and considers itself
// operational. Errors collapse to false.
func (c *Client) IsHealthy(ctx context.Context) bool {
	status, err := c.Health(ctx)
	if err != nil {
		return false
	}
	return status.Healthy()
}
