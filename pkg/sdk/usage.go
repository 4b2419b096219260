package fukui

import (
	"context"
	"time"

	usageuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport contains embedding token usage for a time period.
// The embedded client runs without a budget, so Limit is 0 (unlimited)
// unless the shared Redis counters say otherwise.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	TokensLimit int64 // 0 = unlimited
	TokensUsed  int64
	Remaining   int64 // -1 = unlimited
	Exhausted   bool
}

// Usage returns an embedding usage report for the given period.
// The underlying use case is in-memory and does not produce errors.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, usageuc.Period(period))
	return UsageReport{
		Period:      UsagePeriod(report.Period),
		PeriodStart: time.UnixMilli(report.PeriodStart).UTC(),
		PeriodEnd:   time.UnixMilli(report.PeriodEnd).UTC(),
		TokensLimit: report.Limit,
		TokensUsed:  report.Used,
		Remaining:   report.Remaining,
		Exhausted:   report.Exhausted,
	}
}
