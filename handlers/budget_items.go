package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/config"
	"budgetdesk/services"
	"budgetdesk/templates"
)

// rowIndex reads the index query/form value; anything unparsable is row 0.
func rowIndex(r *http.Request) int {
	idx, err := strconv.Atoi(r.FormValue("index"))
	if err != nil || idx < 0 {
		return 0
	}
	return idx
}

// HandleItemCalc returns a handler that prices one draft row from its form
// values and answers with the recomputed row.
// Route: POST /budgets/items/calc?index=N
func HandleItemCalc(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		index := rowIndex(e.Request)
		raw := rawRowAt(e.Request, index)
		if raw.ID == "" {
			raw.ID = services.NewLineItem().ID
		}
		item := raw.item()
		return templates.ItemRow(itemRowData(index, item, &raw)).Render(e.Request.Context(), e.Response)
	}
}

// HandleItemNew returns a handler that renders an empty default row.
// Route: GET /budgets/items/new?index=N
func HandleItemNew(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		row := itemRowData(rowIndex(e.Request), services.NewLineItem(), nil)
		row.Diagnostics = nil
		row.WarningOnly = true
		return templates.ItemRow(row).Render(e.Request.Context(), e.Response)
	}
}

// HandleItemSuggest returns a handler that marks a cost up by the target
// margin. With an index it fills the selling price of that row and answers
// with the row; with a plain cost it answers with the price alone.
// Route: GET /budgets/items/suggest?cost=&margin=  or  ?index=N&items[N]...
func HandleItemSuggest(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request")
		}

		margin := cfg.Pricing.DefaultTargetMargin
		for _, name := range []string{"margin", "target_margin"} {
			if v := strings.TrimSpace(e.Request.FormValue(name)); v != "" {
				margin = services.ParseInputNumber(v)
				break
			}
		}
		if margin < 0 {
			return ErrorToast(e, http.StatusBadRequest, "Target margin cannot be negative")
		}

		if e.Request.FormValue("index") != "" {
			index := rowIndex(e.Request)
			raw := rawRowAt(e.Request, index)
			item := raw.item()
			item.SellingPrice = services.RoundMoney(services.SuggestSellingPrice(item.CostPrice, margin))
			item = services.RecalcLineItem(item)
			raw.SellingPrice = inputNumber(item.SellingPrice)
			return templates.ItemRow(itemRowData(index, item, &raw)).Render(e.Request.Context(), e.Response)
		}

		cost := services.ParseInputNumber(e.Request.FormValue("cost"))
		price := services.RoundMoney(services.SuggestSellingPrice(cost, margin))
		return templates.SuggestedPrice(inputNumber(price), services.FormatCurrency(price)).Render(e.Request.Context(), e.Response)
	}
}

// HandleItemTotals returns a handler that recomputes the totals panel from
// every row of the posted budget form.
// Route: POST /budgets/items/totals
func HandleItemTotals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		items, _, _ := pricedRows(parseItemRows(e.Request))
		h := parseBudgetHeader(e.Request)
		data := totalsData(items,
			services.ParseInputNumber(h.DiscountPercent),
			services.ParseInputNumber(h.DiscountAmount),
			services.ParseInputNumber(h.ShippingCost))
		data.Live = true
		return templates.TotalsPanel(data).Render(e.Request.Context(), e.Response)
	}
}

// findEditableItem loads a budget and one of its stored items, answering
// with the right error toast when either is missing or the budget is locked.
func findEditableItem(app core.App, e *core.RequestEvent) (*core.Record, *core.Record, error) {
	budgetID := e.Request.PathValue("id")
	itemID := e.Request.PathValue("itemId")

	budget, err := app.FindRecordById("budgets", budgetID)
	if err != nil {
		return nil, nil, ErrorToast(e, http.StatusNotFound, "Budget not found")
	}
	if !services.IsEditable(services.BudgetStatus(budget.GetString("status"))) {
		return nil, nil, ErrorToast(e, http.StatusConflict, "Only draft or rejected budgets can be edited")
	}
	item, err := app.FindRecordById("budget_items", itemID)
	if err != nil || item.GetString("budget") != budgetID {
		return nil, nil, ErrorToast(e, http.StatusNotFound, "Item not found")
	}
	return budget, item, nil
}

// patchFromForm builds a LineItemPatch from the fields present in form.
func patchFromForm(r *http.Request) (services.LineItemPatch, error) {
	var p services.LineItemPatch
	has := func(name string) (string, bool) {
		vals, ok := r.PostForm[name]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}
	num := func(name string) *float64 {
		v, ok := has(name)
		if !ok {
			return nil
		}
		f := services.ParseInputNumber(v)
		return &f
	}

	if v, ok := has("reference"); ok {
		v = strings.TrimSpace(v)
		p.Reference = &v
	}
	if v, ok := has("description"); ok {
		v = strings.TrimSpace(v)
		p.Description = &v
	}
	if v, ok := has("unit"); ok {
		unit, valid := services.ParseUnit(v)
		if !valid {
			return p, fmt.Errorf("unknown unit %q", v)
		}
		p.Unit = &unit
	}
	p.Quantity = num("quantity")
	p.CostPrice = num("cost_price")
	p.SellingPrice = num("selling_price")
	return p, nil
}

// HandleItemPatch returns a handler that applies a partial edit to one
// stored item and rewrites the budget totals.
// Route: PATCH /budgets/{id}/items/{itemId}
func HandleItemPatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, itemRec, err := findEditableItem(app, e)
		if budget == nil {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		patch, err := patchFromForm(e.Request)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Unknown unit")
		}
		if patch.IsEmpty() {
			return ErrorToast(e, http.StatusBadRequest, "Nothing to update")
		}

		before := services.LineItemFromRecord(itemRec)
		updated := services.ApplyLineItemPatch(before, patch)
		if diags := services.ValidateLineItem(updated); !services.IsWarningOnly(diags) {
			return ErrorToast(e, http.StatusUnprocessableEntity, strings.Join(diags, "; "))
		}
		var items []services.LineItem
		err = app.RunInTransaction(func(txApp core.App) error {
			services.SetLineItemOnRecord(itemRec, budget.Id, itemRec.GetInt("sequence"), updated)
			if err := txApp.Save(itemRec); err != nil {
				return fmt.Errorf("save item %s: %w", itemRec.Id, err)
			}
			if _, err := services.RecalcBudgetTotals(txApp, budget); err != nil {
				return err
			}
			loaded, _, err := services.LoadBudgetItems(txApp, budget.Id)
			if err != nil {
				return err
			}
			items = loaded
			changes := map[string]any{
				"item":          itemRec.Id,
				"total_selling": updated.TotalSelling,
			}
			return services.AddBudgetHistory(txApp, budget.Id, "item_updated",
				services.BudgetStatus(budget.GetString("status")), userID(e), before.Reference, changes)
		})
		if err != nil {
			log.Printf("budget_items: could not patch item %s: %v", itemRec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not update the item")
		}

		row := itemRowData(itemRec.GetInt("sequence")-1, updated, nil)
		return templates.StoredItemUpdate(budget.Id, &row, budgetTotalsData(budget, items)).
			Render(e.Request.Context(), e.Response)
	}
}

// HandleItemDelete returns a handler that removes one stored item,
// renumbers the rest and rewrites the budget totals.
// Route: DELETE /budgets/{id}/items/{itemId}
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budget, itemRec, err := findEditableItem(app, e)
		if budget == nil {
			return err
		}

		count, err := app.CountRecords("budget_items", dbx.HashExp{"budget": budget.Id})
		if err != nil {
			log.Printf("budget_items: could not count items of %s: %v", budget.Id, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		if count <= 1 {
			return ErrorToast(e, http.StatusConflict, "A budget needs at least one item")
		}

		reference := itemRec.GetString("reference")
		var items []services.LineItem
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Delete(itemRec); err != nil {
				return fmt.Errorf("delete item %s: %w", itemRec.Id, err)
			}
			if err := services.ResequenceBudgetItems(txApp, budget.Id); err != nil {
				return err
			}
			if _, err := services.RecalcBudgetTotals(txApp, budget); err != nil {
				return err
			}
			loaded, _, err := services.LoadBudgetItems(txApp, budget.Id)
			if err != nil {
				return err
			}
			items = loaded
			return services.AddBudgetHistory(txApp, budget.Id, "item_deleted",
				services.BudgetStatus(budget.GetString("status")), userID(e), reference, nil)
		})
		if err != nil {
			log.Printf("budget_items: could not delete item %s: %v", itemRec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete the item")
		}

		SetToast(e, ToastSuccess, "Item removed")
		return templates.StoredItemUpdate(budget.Id, nil, budgetTotalsData(budget, items)).
			Render(e.Request.Context(), e.Response)
	}
}
