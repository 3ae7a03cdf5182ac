package services

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func sampleBudgets() []BudgetSummary {
	return []BudgetSummary{
		{ID: "b1", CustomerID: "c1", Status: StatusApproved, TotalSelling: 1000, ProfitMargin: 200, ProfitPercentage: 25, Created: day(2026, time.March, 5)},
		{ID: "b2", CustomerID: "c1", Status: StatusSent, TotalSelling: 500, ProfitMargin: 50, ProfitPercentage: 11.11, Created: day(2026, time.March, 20)},
		{ID: "b3", CustomerID: "c2", Status: StatusDraft, TotalSelling: 300, ProfitMargin: 100, ProfitPercentage: 50, Created: day(2026, time.January, 2)},
		{ID: "b4", CustomerID: "c3", Status: StatusApproved, TotalSelling: 200, ProfitMargin: 20, ProfitPercentage: 11.11, Created: day(2026, time.April, 1)},
		{ID: "b5", CustomerID: "c2", Status: StatusRejected, TotalSelling: 0, ProfitMargin: 0, ProfitPercentage: 0, Created: day(2026, time.March, 9)},
	}
}

func TestCalcBudgetStats(t *testing.T) {
	s := CalcBudgetStats(sampleBudgets())

	if s.TotalBudgets != 5 || s.ApprovedCount != 2 || s.SentCount != 1 || s.DraftCount != 1 || s.RejectedCount != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !almostEqual(s.TotalValue, 2000) {
		t.Errorf("TotalValue = %v, want 2000", s.TotalValue)
	}
	if !almostEqual(s.ApprovedValue, 1200) {
		t.Errorf("ApprovedValue = %v, want 1200", s.ApprovedValue)
	}
	if !almostEqual(s.TotalProfitApproved, 220) {
		t.Errorf("TotalProfitApproved = %v, want 220", s.TotalProfitApproved)
	}
	if !almostEqual(s.ApprovedMargin, 18.055) {
		t.Errorf("ApprovedMargin = %v, want 18.055", s.ApprovedMargin)
	}
	if !almostEqual(s.AverageMargin, 19.444) {
		t.Errorf("AverageMargin = %v, want 19.444", s.AverageMargin)
	}
	if s.TotalCustomers != 3 {
		t.Errorf("TotalCustomers = %d, want 3", s.TotalCustomers)
	}
	if !s.FirstBudgetDate.Equal(day(2026, time.January, 2)) || !s.LastBudgetDate.Equal(day(2026, time.April, 1)) {
		t.Errorf("date range = %v..%v", s.FirstBudgetDate, s.LastBudgetDate)
	}
}

func TestCalcBudgetStats_Empty(t *testing.T) {
	s := CalcBudgetStats(nil)
	if s.TotalBudgets != 0 || s.AverageMargin != 0 || s.ApprovedMargin != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
	if !s.FirstBudgetDate.IsZero() || !s.LastBudgetDate.IsZero() {
		t.Error("expected zero dates for empty input")
	}
}

func TestCalcMonthlyStats(t *testing.T) {
	months := CalcMonthlyStats(sampleBudgets())

	want := []string{"2026-01", "2026-03", "2026-04"}
	if len(months) != len(want) {
		t.Fatalf("got %d months, want %d", len(months), len(want))
	}
	for i, m := range want {
		if months[i].Month != m {
			t.Errorf("months[%d].Month = %q, want %q", i, months[i].Month, m)
		}
	}

	march := months[1]
	if march.TotalBudgets != 3 || march.ApprovedCount != 1 || march.UniqueCustomers != 2 {
		t.Errorf("unexpected march stats: %+v", march)
	}
	if !almostEqual(march.TotalValue, 1500) || !almostEqual(march.TotalProfit, 250) {
		t.Errorf("march value/profit = %v/%v", march.TotalValue, march.TotalProfit)
	}
}

func TestCalcMonthlyStats_SkipsUndated(t *testing.T) {
	months := CalcMonthlyStats([]BudgetSummary{{ID: "x", TotalSelling: 10}})
	if len(months) != 0 {
		t.Errorf("expected no months, got %+v", months)
	}
}

func TestCalcCustomerStats(t *testing.T) {
	var c1 []BudgetSummary
	for _, b := range sampleBudgets() {
		if b.CustomerID == "c1" {
			c1 = append(c1, b)
		}
	}
	s := CalcCustomerStats(c1)
	if s.TotalBudgets != 2 || s.ApprovedBudgets != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !almostEqual(s.TotalValue, 1500) {
		t.Errorf("TotalValue = %v, want 1500", s.TotalValue)
	}
	if !almostEqual(s.AverageMargin, 18.055) {
		t.Errorf("AverageMargin = %v, want 18.055", s.AverageMargin)
	}
	if !s.FirstBudgetDate.Equal(day(2026, time.March, 5)) || !s.LastBudgetDate.Equal(day(2026, time.March, 20)) {
		t.Errorf("date range = %v..%v", s.FirstBudgetDate, s.LastBudgetDate)
	}
}
