// Package usage reports embedding token consumption against the configured
// budget, for the operator-facing /usage endpoint.
package usage

import (
	"context"
	"time"
)

// Period selects the reporting window.
type Period string

const (
	// PeriodDay reports usage for the current UTC day.
	PeriodDay Period = "day"
	// PeriodMonth reports usage for the current UTC month.
	PeriodMonth Period = "month"
)

// Report is one usage snapshot.
type Report struct {
	Period      Period `json:"period"`
	PeriodStart int64  `json:"period_start"` // unix ms
	PeriodEnd   int64  `json:"period_end"`   // unix ms
	Limit       int64  `json:"tokens_limit"` // 0 = unlimited
	Used        int64  `json:"tokens_used"`
	Remaining   int64  `json:"tokens_remaining"` // -1 = unlimited
	Exhausted   bool   `json:"exhausted"`
}

// Service handles usage reporting.
type Service struct {
	br BudgetReader
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := time.Now().UTC()
	r := Report{Period: period}

	switch period {
	case PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.PeriodStart = monthStart.UnixMilli()
		r.PeriodEnd = monthStart.AddDate(0, 1, 0).UnixMilli()
		if s.br != nil {
			r.Limit = s.br.MonthlyLimit()
			r.Used = s.br.MonthlyUsed()
			r.Remaining = s.br.RemainingMonthly()
		}
	default:
		// day is the default window
		r.Period = PeriodDay
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.PeriodStart = dayStart.UnixMilli()
		r.PeriodEnd = dayStart.Add(24 * time.Hour).UnixMilli()
		if s.br != nil {
			r.Limit = s.br.DailyLimit()
			r.Used = s.br.DailyUsed()
			r.Remaining = s.br.RemainingDaily()
		}
	}

	r.Exhausted = r.Limit > 0 && r.Remaining <= 0
	return r
}
