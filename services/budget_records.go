package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// LineItemFromRecord reads a budget_items record. Derived fields are
// recomputed rather than trusted.
func LineItemFromRecord(r *core.Record) LineItem {
	return RecalcLineItem(LineItem{
		ID:           r.Id,
		Reference:    r.GetString("reference"),
		Description:  r.GetString("description"),
		Unit:         Unit(r.GetString("unit")),
		Quantity:     r.GetFloat("quantity"),
		CostPrice:    r.GetFloat("cost_price"),
		SellingPrice: r.GetFloat("selling_price"),
	})
}

// SetLineItemOnRecord copies item onto a budget_items record.
func SetLineItemOnRecord(r *core.Record, budgetID string, sequence int, item LineItem) {
	item = RecalcLineItem(item)
	if item.Unit == "" {
		item.Unit = DefaultUnit
	}
	r.Set("budget", budgetID)
	r.Set("sequence", sequence)
	r.Set("reference", item.Reference)
	r.Set("description", item.Description)
	r.Set("unit", string(item.Unit))
	r.Set("quantity", item.Quantity)
	r.Set("cost_price", item.CostPrice)
	r.Set("selling_price", item.SellingPrice)
	r.Set("total_cost", item.TotalCost)
	r.Set("total_selling", item.TotalSelling)
	r.Set("profit_margin", item.ProfitMargin)
	r.Set("profit_percentage", item.ProfitPercentage)
}

// LoadBudgetItems returns the items of a budget in sequence order together
// with their records.
func LoadBudgetItems(app core.App, budgetID string) ([]LineItem, []*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"budget_items",
		"budget = {:budgetId}",
		"sequence",
		0,
		0,
		map[string]any{"budgetId": budgetID},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("load items of budget %s: %w", budgetID, err)
	}
	items := make([]LineItem, len(records))
	for i, r := range records {
		items[i] = LineItemFromRecord(r)
	}
	return items, records, nil
}

// SetBudgetTotals writes the denormalised totals and grand total of a
// budget record from its items. The record is not saved.
func SetBudgetTotals(budget *core.Record, items []LineItem) QuotationTotals {
	totals := CalcQuotationTotals(items)
	grand := CalcGrandTotal(
		totals.TotalSelling,
		budget.GetFloat("discount_percentage"),
		budget.GetFloat("discount_amount"),
		budget.GetFloat("shipping_cost"),
	)
	budget.Set("total_cost", totals.TotalCost)
	budget.Set("total_selling", totals.TotalSelling)
	budget.Set("profit_margin", totals.ProfitMargin)
	budget.Set("profit_percentage", totals.ProfitPercentage)
	budget.Set("grand_total", grand.Total)
	return totals
}

// RecalcBudgetTotals reloads the items of a budget and saves its totals.
func RecalcBudgetTotals(app core.App, budget *core.Record) (QuotationTotals, error) {
	items, _, err := LoadBudgetItems(app, budget.Id)
	if err != nil {
		return QuotationTotals{}, err
	}
	totals := SetBudgetTotals(budget, items)
	if err := app.Save(budget); err != nil {
		return QuotationTotals{}, fmt.Errorf("save totals of budget %s: %w", budget.Id, err)
	}
	return totals, nil
}

// ReplaceBudgetItems deletes every stored item of the budget and inserts
// items in order with sequence 1..n. Run it inside a transaction.
func ReplaceBudgetItems(app core.App, budgetID string, items []LineItem) error {
	_, existing, err := LoadBudgetItems(app, budgetID)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if err := app.Delete(r); err != nil {
			return fmt.Errorf("delete item %s: %w", r.Id, err)
		}
	}

	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return fmt.Errorf("budget_items collection: %w", err)
	}
	for i, item := range items {
		r := core.NewRecord(col)
		SetLineItemOnRecord(r, budgetID, i+1, item)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("save item %d: %w", i+1, err)
		}
	}
	return nil
}

// ResequenceBudgetItems renumbers the stored items of a budget 1..n,
// keeping their current order.
func ResequenceBudgetItems(app core.App, budgetID string) error {
	_, records, err := LoadBudgetItems(app, budgetID)
	if err != nil {
		return err
	}
	for i, r := range records {
		if r.GetInt("sequence") == i+1 {
			continue
		}
		r.Set("sequence", i+1)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("resequence item %s: %w", r.Id, err)
		}
	}
	return nil
}

// BudgetSummaryFromRecord reads the statistics view of a budgets record.
func BudgetSummaryFromRecord(r *core.Record) BudgetSummary {
	return BudgetSummary{
		ID:               r.Id,
		CustomerID:       r.GetString("customer"),
		Status:           BudgetStatus(r.GetString("status")),
		TotalSelling:     r.GetFloat("total_selling"),
		ProfitMargin:     r.GetFloat("profit_margin"),
		ProfitPercentage: r.GetFloat("profit_percentage"),
		Created:          r.GetDateTime("created").Time(),
	}
}

// LoadBudgetSummaries returns summaries of the budgets matching filter
// ("" for all budgets).
func LoadBudgetSummaries(app core.App, filter string, params map[string]any) ([]BudgetSummary, error) {
	if filter == "" {
		filter = "id != ''"
	}
	records, err := app.FindRecordsByFilter("budgets", filter, "created", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	out := make([]BudgetSummary, len(records))
	for i, r := range records {
		out[i] = BudgetSummaryFromRecord(r)
	}
	return out, nil
}

// AddBudgetHistory appends an entry to the audit trail of a budget.
func AddBudgetHistory(app core.App, budgetID, action string, status BudgetStatus, userID, notes string, changes map[string]any) error {
	col, err := app.FindCollectionByNameOrId("budget_history")
	if err != nil {
		return fmt.Errorf("budget_history collection: %w", err)
	}
	r := core.NewRecord(col)
	r.Set("budget", budgetID)
	r.Set("action", action)
	r.Set("status", string(status))
	r.Set("user", userID)
	r.Set("notes", notes)
	if changes != nil {
		r.Set("changes", changes)
	}
	if err := app.Save(r); err != nil {
		return fmt.Errorf("save history of budget %s: %w", budgetID, err)
	}
	return nil
}
