package services

import (
	"sort"
	"time"
)

// BudgetSummary is the slice of a stored budget the statistics need.
type BudgetSummary struct {
	ID               string
	CustomerID       string
	Status           BudgetStatus
	TotalSelling     float64
	ProfitMargin     float64
	ProfitPercentage float64
	Created          time.Time
}

// BudgetStats aggregates a set of budgets for the dashboard.
type BudgetStats struct {
	TotalBudgets        int
	DraftCount          int
	SentCount           int
	ApprovedCount       int
	RejectedCount       int
	CancelledCount      int
	TotalValue          float64
	AverageMargin       float64
	ApprovedValue       float64
	ApprovedMargin      float64
	TotalProfitApproved float64
	TotalCustomers      int
	FirstBudgetDate     time.Time
	LastBudgetDate      time.Time
}

// MonthlyBudgetStats aggregates the budgets created in one calendar month.
type MonthlyBudgetStats struct {
	Month           string // YYYY-MM
	TotalBudgets    int
	ApprovedCount   int
	TotalValue      float64
	TotalProfit     float64
	AverageMargin   float64
	UniqueCustomers int
}

// CustomerStats aggregates the budgets of one customer.
type CustomerStats struct {
	TotalBudgets    int
	ApprovedBudgets int
	TotalValue      float64
	AverageMargin   float64
	FirstBudgetDate time.Time
	LastBudgetDate  time.Time
}

// CalcBudgetStats summarises budgets. Averages are 0 for an empty set and
// the dates are zero when no budget carries one.
func CalcBudgetStats(budgets []BudgetSummary) BudgetStats {
	var s BudgetStats
	var marginSum, approvedMarginSum float64
	customers := map[string]struct{}{}

	for _, b := range budgets {
		s.TotalBudgets++
		switch b.Status {
		case StatusDraft:
			s.DraftCount++
		case StatusSent:
			s.SentCount++
		case StatusApproved:
			s.ApprovedCount++
			s.ApprovedValue += b.TotalSelling
			s.TotalProfitApproved += b.ProfitMargin
			approvedMarginSum += b.ProfitPercentage
		case StatusRejected:
			s.RejectedCount++
		case StatusCancelled:
			s.CancelledCount++
		}
		s.TotalValue += b.TotalSelling
		marginSum += b.ProfitPercentage
		if b.CustomerID != "" {
			customers[b.CustomerID] = struct{}{}
		}
		s.FirstBudgetDate, s.LastBudgetDate = widenRange(s.FirstBudgetDate, s.LastBudgetDate, b.Created)
	}

	s.AverageMargin = AveragePerItem(marginSum, s.TotalBudgets)
	s.ApprovedMargin = AveragePerItem(approvedMarginSum, s.ApprovedCount)
	s.TotalCustomers = len(customers)
	return s
}

// CalcMonthlyStats groups budgets by the month they were created in,
// oldest month first. Budgets without a creation date are skipped.
func CalcMonthlyStats(budgets []BudgetSummary) []MonthlyBudgetStats {
	type acc struct {
		stats     MonthlyBudgetStats
		marginSum float64
		customers map[string]struct{}
	}
	months := map[string]*acc{}

	for _, b := range budgets {
		if b.Created.IsZero() {
			continue
		}
		key := b.Created.Format("2006-01")
		a, ok := months[key]
		if !ok {
			a = &acc{stats: MonthlyBudgetStats{Month: key}, customers: map[string]struct{}{}}
			months[key] = a
		}
		a.stats.TotalBudgets++
		if b.Status == StatusApproved {
			a.stats.ApprovedCount++
		}
		a.stats.TotalValue += b.TotalSelling
		a.stats.TotalProfit += b.ProfitMargin
		a.marginSum += b.ProfitPercentage
		if b.CustomerID != "" {
			a.customers[b.CustomerID] = struct{}{}
		}
	}

	result := make([]MonthlyBudgetStats, 0, len(months))
	for _, a := range months {
		a.stats.AverageMargin = AveragePerItem(a.marginSum, a.stats.TotalBudgets)
		a.stats.UniqueCustomers = len(a.customers)
		result = append(result, a.stats)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// CalcCustomerStats summarises the budgets of a single customer. Callers
// pass only that customer's budgets.
func CalcCustomerStats(budgets []BudgetSummary) CustomerStats {
	var s CustomerStats
	var marginSum float64
	for _, b := range budgets {
		s.TotalBudgets++
		if b.Status == StatusApproved {
			s.ApprovedBudgets++
		}
		s.TotalValue += b.TotalSelling
		marginSum += b.ProfitPercentage
		s.FirstBudgetDate, s.LastBudgetDate = widenRange(s.FirstBudgetDate, s.LastBudgetDate, b.Created)
	}
	s.AverageMargin = AveragePerItem(marginSum, s.TotalBudgets)
	return s
}

func widenRange(first, last, t time.Time) (time.Time, time.Time) {
	if t.IsZero() {
		return first, last
	}
	if first.IsZero() || t.Before(first) {
		first = t
	}
	if last.IsZero() || t.After(last) {
		last = t
	}
	return first, last
}
