package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/config"
	"budgetdesk/services"
	"budgetdesk/templates"
)

var errNotEditable = errors.New("budget is not editable")

// HandleBudgetEdit returns a handler that renders the edit form of a draft
// or rejected budget.
func HandleBudgetEdit(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		budget, err := app.FindRecordById("budgets", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Budget not found")
		}
		status := services.BudgetStatus(budget.GetString("status"))
		if !services.IsEditable(status) {
			return ErrorToast(e, http.StatusConflict, "Only draft or rejected budgets can be edited")
		}

		items, _, err := services.LoadBudgetItems(app, id)
		if err != nil {
			log.Printf("budget_edit: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		rows := make([]templates.ItemRowData, len(items))
		for i, item := range items {
			rows[i] = itemRowData(i, item, nil)
		}

		data := budgetFormData(app, headerFromRecord(budget, cfg), rows, items, make(map[string]string))
		data.ID = id
		data.IsEdit = true
		data.Number = budgetNumberLabel(budget)

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.BudgetFormContent(data)
		} else {
			component = templates.BudgetFormPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleBudgetUpdate returns a handler that replaces the header fields and
// the whole item list of a budget and bumps its revision.
func HandleBudgetUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		budget, err := app.FindRecordById("budgets", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Budget not found")
		}
		if !services.IsEditable(services.BudgetStatus(budget.GetString("status"))) {
			return ErrorToast(e, http.StatusConflict, "Only draft or rejected budgets can be edited")
		}

		if err := e.Request.ParseForm(); err != nil {
			log.Printf("budget_edit: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		h := parseBudgetHeader(e.Request)
		raws := parseItemRows(e.Request)
		items, rows, blocked := pricedRows(raws)

		fieldErrs := h.validate(app)
		validateItems(raws, blocked, fieldErrs)

		if len(fieldErrs) > 0 {
			data := budgetFormData(app, h, rows, items, fieldErrs)
			data.ID = id
			data.IsEdit = true
			data.Number = budgetNumberLabel(budget)
			return templates.BudgetFormPage(data, GetHeaderData(e.Request)).Render(e.Request.Context(), e.Response)
		}

		uid := userID(e)
		notEditable := false
		err = app.RunInTransaction(func(txApp core.App) error {
			b, err := txApp.FindRecordById("budgets", id)
			if err != nil {
				return err
			}
			status := services.BudgetStatus(b.GetString("status"))
			if !services.IsEditable(status) {
				notEditable = true
				return errNotEditable
			}

			previousTotal := b.GetFloat("grand_total")
			h.apply(b)
			revision := b.GetInt("revision") + 1
			b.Set("revision", revision)
			b.Set("last_updated_by", uid)
			services.SetBudgetTotals(b, items)
			if err := txApp.Save(b); err != nil {
				return fmt.Errorf("save budget: %w", err)
			}

			if err := services.ReplaceBudgetItems(txApp, id, items); err != nil {
				return err
			}
			changes := map[string]any{
				"revision":           revision,
				"items":              len(items),
				"grand_total_before": previousTotal,
				"grand_total_after":  b.GetFloat("grand_total"),
			}
			return services.AddBudgetHistory(txApp, id, "updated", status, uid, "", changes)
		})
		if notEditable {
			return ErrorToast(e, http.StatusConflict, "Only draft or rejected budgets can be edited")
		}
		if err != nil {
			log.Printf("budget_edit: could not update budget %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the budget")
		}

		SetToast(e, ToastSuccess, "Budget updated")
		redirectURL := "/budgets/" + id
		return redirect(e, redirectURL)
	}
}
