package handlers

import (
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

// HandleBudgetCreate returns a handler that renders an empty budget form
// with one default item row.
func HandleBudgetCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		h := defaultHeader(cfg)
		h.CustomerID = e.Request.URL.Query().Get("customer")

		item := services.NewLineItem()
		rows := []templates.ItemRowData{itemRowData(0, item, nil)}
		// A fresh row carries no diagnostics until the user touches it.
		rows[0].Diagnostics = nil
		rows[0].WarningOnly = true

		data := budgetFormData(app, h, rows, nil, make(map[string]string))

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.BudgetFormContent(data)
		} else {
			component = templates.BudgetFormPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleBudgetSave returns a handler that validates the budget form, prices
// every item and stores the budget with its items in one transaction.
func HandleBudgetSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("budget_create: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		h := parseBudgetHeader(e.Request)
		raws := parseItemRows(e.Request)
		items, rows, blocked := pricedRows(raws)

		errors := h.validate(app)
		validateItems(raws, blocked, errors)

		if len(errors) > 0 {
			data := budgetFormData(app, h, rows, items, errors)
			return templates.BudgetFormPage(data, GetHeaderData(e.Request)).Render(e.Request.Context(), e.Response)
		}

		uid := userID(e)
		var budgetID string
		err := app.RunInTransaction(func(txApp core.App) error {
			number, err := services.NextBudgetNumber(txApp)
			if err != nil {
				return err
			}
			col, err := txApp.FindCollectionByNameOrId("budgets")
			if err != nil {
				return fmt.Errorf("budgets collection: %w", err)
			}

			budget := core.NewRecord(col)
			h.apply(budget)
			budget.Set("budget_number", number)
			budget.Set("revision", 1)
			budget.Set("status", string(services.StatusDraft))
			budget.Set("created_by", uid)
			budget.Set("last_updated_by", uid)
			services.SetBudgetTotals(budget, items)
			if err := txApp.Save(budget); err != nil {
				return fmt.Errorf("save budget: %w", err)
			}
			budgetID = budget.Id

			if err := services.ReplaceBudgetItems(txApp, budget.Id, items); err != nil {
				return err
			}
			return services.AddBudgetHistory(txApp, budget.Id, "created", services.StatusDraft, uid, "", nil)
		})
		if err != nil {
			log.Printf("budget_create: could not save budget: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the budget")
		}

		SetToast(e, ToastSuccess, "Budget created")
		redirectURL := "/budgets/" + budgetID
		return redirect(e, redirectURL)
	}
}
