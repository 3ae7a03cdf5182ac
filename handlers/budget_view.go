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

// transitionOptions lists the statuses a budget can move to.
func transitionOptions(from services.BudgetStatus) []services.Option {
	var opts []services.Option
	for _, s := range services.AllowedTransitions(from) {
		opts = append(opts, services.Option{Value: string(s), Label: services.StatusLabel(s)})
	}
	return opts
}

// budgetHistory loads the audit trail of a budget, newest first.
func budgetHistory(app core.App, budgetID string) []templates.HistoryEntry {
	records, err := app.FindRecordsByFilter("budget_history", "budget = {:id}", "-created", 0, 0,
		map[string]any{"id": budgetID})
	if err != nil {
		log.Printf("budget_view: could not load history of %s: %v", budgetID, err)
		return nil
	}
	emails := make(map[string]string)
	var entries []templates.HistoryEntry
	for _, r := range records {
		user := r.GetString("user")
		if user != "" {
			if _, ok := emails[user]; !ok {
				if u, err := app.FindRecordById("users", user); err == nil {
					emails[user] = u.Email()
				}
			}
		}
		status := r.GetString("status")
		if status != "" {
			status = services.StatusLabel(services.BudgetStatus(status))
		}
		entries = append(entries, templates.HistoryEntry{
			Date:   r.GetDateTime("created").Time().Format("02/01/2006 15:04"),
			Action: r.GetString("action"),
			Status: status,
			User:   emails[user],
			Notes:  r.GetString("notes"),
		})
	}
	return entries
}

// HandleBudgetView returns a handler that renders a stored budget with its
// priced items, totals and history.
func HandleBudgetView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		budget, err := app.FindRecordById("budgets", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Budget not found")
		}

		items, _, err := services.LoadBudgetItems(app, id)
		if err != nil {
			log.Printf("budget_view: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		customerName := ""
		if c, err := app.FindRecordById("customers", budget.GetString("customer")); err == nil {
			customerName = services.CustomerDisplayName(c)
		}

		status := services.BudgetStatus(budget.GetString("status"))
		rows := make([]templates.ItemRowData, len(items))
		for i, item := range items {
			rows[i] = itemRowData(i, item, nil)
		}

		created := budget.GetDateTime("created").Time()
		validUntil := ""
		if days := budget.GetInt("validity_days"); days > 0 && !created.IsZero() {
			validUntil = created.AddDate(0, 0, days).Format("02/01/2006")
		}
		payment := services.PaymentTermLabel(budget.GetString("payment_term"))
		if custom := budget.GetString("custom_payment_term"); custom != "" && budget.GetString("payment_term") == "custom" {
			payment = custom
		}

		data := templates.BudgetViewData{
			ID:              id,
			Number:          budgetNumberLabel(budget),
			Status:          string(status),
			StatusLabel:     services.StatusLabel(status),
			Editable:        services.IsEditable(status),
			Transitions:     transitionOptions(status),
			RejectionReason: budget.GetString("rejection_reason"),
			CustomerID:      budget.GetString("customer"),
			CustomerName:    customerName,
			CreatedDate:     created.Format("02/01/2006"),
			ValidUntil:      validUntil,
			PaymentTerm:     payment,
			DeliveryTime:    budget.GetString("delivery_time"),
			Notes:           budget.GetString("notes"),
			Internal:        budget.GetString("internal_notes"),
			Terms:           budget.GetString("terms_and_conditions"),
			Rows:            rows,
			Totals:          budgetTotalsData(budget, items),
			History:         budgetHistory(app, id),
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.BudgetViewContent(data)
		} else {
			component = templates.BudgetViewPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
