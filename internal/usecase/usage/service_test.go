package usage

import (
	"context"
	"testing"
	"time"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

// --- Tests ---

func TestGetReport_DailyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit:       10000,
		dailyUsed:        3000,
		remainingDaily:   7000,
		monthlyLimit:     100000,
		monthlyUsed:      50000,
		remainingMonthly: 50000,
	}
	svc := New(br)
	r := svc.GetReport(context.Background(), PeriodDay)

	if r.Period != PeriodDay {
		t.Errorf("expected period %q, got %q", PeriodDay, r.Period)
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if r.PeriodStart != dayStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", dayStart.UnixMilli(), r.PeriodStart)
	}

	dayEnd := dayStart.Add(24 * time.Hour)
	if r.PeriodEnd != dayEnd.UnixMilli() {
		t.Errorf("expected period end %d, got %d", dayEnd.UnixMilli(), r.PeriodEnd)
	}

	if r.Limit != 10000 {
		t.Errorf("expected limit 10000, got %d", r.Limit)
	}
	if r.Remaining != 7000 {
		t.Errorf("expected remaining 7000, got %d", r.Remaining)
	}
	if r.Exhausted {
		t.Error("budget should not be exhausted")
	}
	if r.Used != 3000 {
		t.Errorf("expected tokens 3000, got %d", r.Used)
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		monthlyLimit:     100000,
		monthlyUsed:      80000,
		remainingMonthly: 20000,
	}
	svc := New(br)
	r := svc.GetReport(context.Background(), PeriodMonth)

	if r.Period != PeriodMonth {
		t.Errorf("expected period %q, got %q", PeriodMonth, r.Period)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart != monthStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", monthStart.UnixMilli(), r.PeriodStart)
	}

	monthEnd := monthStart.AddDate(0, 1, 0)
	if r.PeriodEnd != monthEnd.UnixMilli() {
		t.Errorf("expected period end %d, got %d", monthEnd.UnixMilli(), r.PeriodEnd)
	}

	if r.Limit != 100000 {
		t.Errorf("expected limit 100000, got %d", r.Limit)
	}
}

func TestGetReport_UnknownPeriodDefaultsToDay(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit:     10000,
		dailyUsed:      100,
		remainingDaily: 9900,
	}
	svc := New(br)
	r := svc.GetReport(context.Background(), Period("whenever"))

	if r.Period != PeriodDay {
		t.Errorf("expected fallback to %q, got %q", PeriodDay, r.Period)
	}
	if r.Used != 100 {
		t.Errorf("expected tokens 100, got %d", r.Used)
	}
}

func TestGetReport_NilBudgetReader(t *testing.T) {
	svc := New(nil)
	r := svc.GetReport(context.Background(), PeriodDay)

	if r.Limit != 0 {
		t.Errorf("expected limit 0, got %d", r.Limit)
	}
	if r.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", r.Remaining)
	}
	if r.Exhausted {
		t.Error("nil budget reader should not be exhausted")
	}
}

func TestGetReport_Exhausted(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit:     5000,
		dailyUsed:      5000,
		remainingDaily: 0,
	}
	svc := New(br)
	r := svc.GetReport(context.Background(), PeriodDay)

	if !r.Exhausted {
		t.Error("budget should be exhausted when remaining is 0")
	}
}
