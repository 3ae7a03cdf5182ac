package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
	"budgetdesk/templates"
)

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// HandleCustomerView returns a handler that renders a customer with their
// budget statistics and budgets.
func HandleCustomerView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		c, err := app.FindRecordById("customers", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}

		budgets, err := app.FindRecordsByFilter("budgets", "customer = {:id}", "-budget_number", 0, 0,
			map[string]any{"id": id})
		if err != nil {
			log.Printf("customer_view: could not load budgets of %s: %v", id, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		summaries := make([]services.BudgetSummary, len(budgets))
		counts := itemCounts(app)
		name := displayName(c)
		var list []templates.BudgetListItem
		for i, b := range budgets {
			summaries[i] = services.BudgetSummaryFromRecord(b)
			list = append(list, budgetListItem(b, name, counts[b.Id]))
		}
		stats := services.CalcCustomerStats(summaries)

		var info []string
		for _, line := range []string{
			c.GetString("company_name"),
			c.GetString("tax_id"),
			c.GetString("email"),
			c.GetString("phone"),
			c.GetString("address"),
			joinNonEmpty(" ", c.GetString("postal_code"), c.GetString("city"), c.GetString("state")),
			c.GetString("contact_name"),
			c.GetString("website"),
		} {
			if line != "" && line != name {
				info = append(info, line)
			}
		}

		data := templates.CustomerViewData{
			ID:              id,
			DisplayName:     name,
			Type:            c.GetString("type"),
			Info:            info,
			Notes:           c.GetString("notes"),
			TotalBudgets:    stats.TotalBudgets,
			ApprovedBudgets: stats.ApprovedBudgets,
			TotalValue:      services.FormatCurrency(stats.TotalValue),
			AverageMargin:   services.FormatPercentage(stats.AverageMargin),
			FirstBudget:     formatDay(stats.FirstBudgetDate),
			LastBudget:      formatDay(stats.LastBudgetDate),
			Budgets:         list,
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.CustomerViewContent(data)
		} else {
			component = templates.CustomerViewPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
