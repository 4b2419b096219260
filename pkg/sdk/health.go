package fukui

import (
	"context"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status    string            // "ok" or "degraded"
	Checks    map[string]string // component -> "ok"/"error"
	Documents int               // corpus size; 0 when the store is unreachable
}

// Health checks the health of all wired components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	}
}
