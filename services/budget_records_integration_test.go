package services_test

import (
	"testing"

	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestNextBudgetNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	first, err := services.NextBudgetNumber(app)
	if err != nil {
		t.Fatalf("NextBudgetNumber() error: %v", err)
	}
	if first != 1 {
		t.Errorf("NextBudgetNumber() on empty db = %d, want 1", first)
	}

	customer := testhelpers.CreateTestCustomer(t, app, "Numbering Customer")
	testhelpers.CreateTestBudget(t, app, customer.Id)
	b2 := testhelpers.CreateTestBudget(t, app, customer.Id)
	testhelpers.CreateTestBudget(t, app, customer.Id)

	// Deleting a budget in the middle does not free its number.
	if err := app.Delete(b2); err != nil {
		t.Fatalf("delete budget: %v", err)
	}
	next, _ := services.NextBudgetNumber(app)
	if next != 4 {
		t.Errorf("NextBudgetNumber() = %d, want 4", next)
	}
}

func TestReplaceBudgetItems_KeepsOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Order Customer")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("OLD-1", 1, 1, 1),
		testhelpers.TestItem("OLD-2", 1, 1, 1),
	)

	replacement := []services.LineItem{
		testhelpers.TestItem("NEW-C", 3, 2, 4),
		testhelpers.TestItem("NEW-A", 1, 10, 10),
		testhelpers.TestItem("NEW-B", 2, 5, 6),
	}
	if err := services.ReplaceBudgetItems(app, budget.Id, replacement); err != nil {
		t.Fatalf("ReplaceBudgetItems() error: %v", err)
	}

	items, records, err := services.LoadBudgetItems(app, budget.Id)
	if err != nil {
		t.Fatalf("LoadBudgetItems() error: %v", err)
	}
	want := []string{"NEW-C", "NEW-A", "NEW-B"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, ref := range want {
		if items[i].Reference != ref {
			t.Errorf("items[%d].Reference = %q, want %q", i, items[i].Reference, ref)
		}
		if records[i].GetInt("sequence") != i+1 {
			t.Errorf("items[%d] sequence = %d, want %d", i, records[i].GetInt("sequence"), i+1)
		}
	}
	if items[0].TotalSelling != 12 || items[0].Unit != services.UnitEach {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestRecalcBudgetTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Totals Customer")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("A", 4, 25, 30),
	)
	budget.Set("discount_percentage", 10)
	budget.Set("shipping_cost", 5)

	totals, err := services.RecalcBudgetTotals(app, budget)
	if err != nil {
		t.Fatalf("RecalcBudgetTotals() error: %v", err)
	}
	if totals.TotalSelling != 120 || totals.ItemCount != 1 {
		t.Errorf("unexpected totals: %+v", totals)
	}

	fresh, _ := app.FindRecordById("budgets", budget.Id)
	if fresh.GetFloat("grand_total") != 113 {
		t.Errorf("grand_total = %v, want 113", fresh.GetFloat("grand_total"))
	}
}

func TestResequenceBudgetItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Sequence Customer")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("A", 1, 1, 1),
		testhelpers.TestItem("B", 1, 1, 1),
		testhelpers.TestItem("C", 1, 1, 1),
	)

	_, records, _ := services.LoadBudgetItems(app, budget.Id)
	if err := app.Delete(records[0]); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := services.ResequenceBudgetItems(app, budget.Id); err != nil {
		t.Fatalf("ResequenceBudgetItems() error: %v", err)
	}

	items, records, _ := services.LoadBudgetItems(app, budget.Id)
	if len(items) != 2 || items[0].Reference != "B" || records[0].GetInt("sequence") != 1 || records[1].GetInt("sequence") != 2 {
		t.Errorf("unexpected items after resequence: %+v", items)
	}
}

func TestCountBudgetsForCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	a := testhelpers.CreateTestCustomer(t, app, "Customer A")
	b := testhelpers.CreateTestCustomer(t, app, "Customer B")
	testhelpers.CreateTestBudget(t, app, a.Id)
	testhelpers.CreateTestBudget(t, app, a.Id)

	if n, err := services.CountBudgetsForCustomer(app, a.Id); err != nil || n != 2 {
		t.Errorf("CountBudgetsForCustomer(a) = %d, %v; want 2", n, err)
	}
	if n, err := services.CountBudgetsForCustomer(app, b.Id); err != nil || n != 0 {
		t.Errorf("CountBudgetsForCustomer(b) = %d, %v; want 0", n, err)
	}
}

func TestBuildBudgetExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Export Customer")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("A", 2, 10, 15),
	)

	data, err := services.BuildBudgetExportData(app, budget.Id, services.Issuer{Name: "Acme"}, true)
	if err != nil {
		t.Fatalf("BuildBudgetExportData() error: %v", err)
	}
	if data.CustomerName != "Export Customer" {
		t.Errorf("CustomerName = %q", data.CustomerName)
	}
	if data.BudgetNumber != "#1" || data.Title != "Budget #1" {
		t.Errorf("unexpected number/title: %q / %q", data.BudgetNumber, data.Title)
	}
	if len(data.Rows) != 1 || data.Rows[0].Band != services.MarginHealthy {
		t.Errorf("unexpected rows: %+v", data.Rows)
	}
	if data.Grand.Total != 30 || data.ValidUntil == "" {
		t.Errorf("unexpected grand total / validity: %+v, %q", data.Grand, data.ValidUntil)
	}

	if _, err := services.BuildBudgetExportData(app, "missing", services.Issuer{}, false); err == nil {
		t.Error("expected error for unknown budget")
	}
}
