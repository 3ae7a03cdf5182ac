package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
	"budgetdesk/templates"
)

// budgetListItem builds one list row from a budgets record.
func budgetListItem(b *core.Record, customerName string, itemCount int) templates.BudgetListItem {
	status := b.GetString("status")
	created := "—"
	if dt := b.GetDateTime("created"); !dt.IsZero() {
		created = dt.Time().Format("02/01/2006")
	}
	pct := b.GetFloat("profit_percentage")
	return templates.BudgetListItem{
		ID:           b.Id,
		Number:       budgetNumberLabel(b),
		CustomerName: customerName,
		Status:       status,
		StatusLabel:  services.StatusLabel(services.BudgetStatus(status)),
		ItemCount:    itemCount,
		GrandTotal:   services.FormatCurrency(b.GetFloat("grand_total")),
		MarginPct:    services.FormatPercentage(pct),
		Band:         services.ClassifyMargin(pct),
		Created:      created,
	}
}

// customerNames maps customer ids to display names.
func customerNames(app core.App) map[string]string {
	names := make(map[string]string)
	records, err := app.FindRecordsByFilter("customers", "id != ''", "", 0, 0)
	if err != nil {
		log.Printf("budget_list: could not load customers: %v", err)
		return names
	}
	for _, c := range records {
		names[c.Id] = services.CustomerDisplayName(c)
	}
	return names
}

// itemCounts counts the stored items of every budget.
func itemCounts(app core.App) map[string]int {
	var rows []struct {
		Budget string `db:"budget"`
		Count  int    `db:"count"`
	}
	err := app.DB().
		Select("budget", "COUNT(*) AS count").
		From("budget_items").
		GroupBy("budget").
		All(&rows)
	counts := make(map[string]int, len(rows))
	if err != nil {
		log.Printf("budget_list: could not count items: %v", err)
		return counts
	}
	for _, r := range rows {
		counts[r.Budget] = r.Count
	}
	return counts
}

// HandleBudgetList returns a handler that renders the budget list page,
// optionally filtered by status and customer name.
func HandleBudgetList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status := strings.TrimSpace(e.Request.URL.Query().Get("status"))
		query := strings.TrimSpace(e.Request.URL.Query().Get("q"))

		filter := "id != ''"
		params := dbx.Params{}
		if status != "" {
			if !services.IsValidStatus(services.BudgetStatus(status)) {
				return ErrorToast(e, http.StatusBadRequest, "Unknown status")
			}
			filter += " && status = {:status}"
			params["status"] = status
		}
		if query != "" {
			filter += " && (customer.name ~ {:q} || customer.company_name ~ {:q})"
			params["q"] = query
		}

		records, err := app.FindRecordsByFilter("budgets", filter, "-budget_number", 0, 0, params)
		if err != nil {
			log.Printf("budget_list: could not query budgets: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		names := customerNames(app)
		counts := itemCounts(app)

		var items []templates.BudgetListItem
		var totalValue, marginSum float64
		for _, b := range records {
			items = append(items, budgetListItem(b, names[b.GetString("customer")], counts[b.Id]))
			totalValue += b.GetFloat("grand_total")
			marginSum += b.GetFloat("profit_percentage")
		}

		data := templates.BudgetListData{
			Items:         items,
			Status:        status,
			Query:         query,
			StatusOptions: services.StatusOptions(),
			Count:         len(records),
			TotalValue:    services.FormatCurrency(totalValue),
			AverageValue:  services.FormatCurrency(services.AveragePerItem(totalValue, len(records))),
			AverageMargin: services.FormatPercentage(services.AveragePerItem(marginSum, len(records))),
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.BudgetListContent(data)
		} else {
			component = templates.BudgetListPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
