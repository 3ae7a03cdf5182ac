package handlers

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
	"budgetdesk/templates"
)

// recentBudgets is how many budgets the dashboard lists.
const recentBudgets = 5

// dashboardData turns budget statistics into the dashboard view model.
func dashboardData(stats services.BudgetStats, months []services.MonthlyBudgetStats) templates.DashboardData {
	data := templates.DashboardData{
		TotalBudgets:        stats.TotalBudgets,
		DraftCount:          stats.DraftCount,
		SentCount:           stats.SentCount,
		ApprovedCount:       stats.ApprovedCount,
		RejectedCount:       stats.RejectedCount,
		CancelledCount:      stats.CancelledCount,
		TotalValue:          services.FormatCurrency(stats.TotalValue),
		AverageMargin:       services.FormatPercentage(stats.AverageMargin),
		ApprovedValue:       services.FormatCurrency(stats.ApprovedValue),
		ApprovedMargin:      services.FormatPercentage(stats.ApprovedMargin),
		TotalProfitApproved: services.FormatCurrency(stats.TotalProfitApproved),
		TotalCustomers:      stats.TotalCustomers,
		FirstBudget:         formatDay(stats.FirstBudgetDate),
		LastBudget:          formatDay(stats.LastBudgetDate),
	}
	for _, m := range months {
		data.Months = append(data.Months, templates.MonthRow{
			Month:           m.Month,
			TotalBudgets:    m.TotalBudgets,
			ApprovedCount:   m.ApprovedCount,
			TotalValue:      services.FormatCurrency(m.TotalValue),
			TotalProfit:     services.FormatCurrency(m.TotalProfit),
			AverageMargin:   services.FormatPercentage(m.AverageMargin),
			UniqueCustomers: m.UniqueCustomers,
		})
	}
	return data
}

// HandleDashboard returns a handler that renders the budget statistics.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		summaries, err := services.LoadBudgetSummaries(app, "", nil)
		if err != nil {
			log.Printf("dashboard: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		data := dashboardData(services.CalcBudgetStats(summaries), services.CalcMonthlyStats(summaries))

		recent, err := app.FindRecordsByFilter("budgets", "id != ''", "-created", recentBudgets, 0)
		if err != nil {
			log.Printf("dashboard: could not load recent budgets: %v", err)
		}
		names := customerNames(app)
		for _, b := range recent {
			data.Recent = append(data.Recent, budgetListItem(b, names[b.GetString("customer")], 0))
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DashboardContent(data)
		} else {
			component = templates.DashboardPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
