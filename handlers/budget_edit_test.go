package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestHandleBudgetEdit_RendersStoredItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("FIRST", 1, 10, 15),
		testhelpers.TestItem("SECOND", 2, 5, 6),
	)

	req := httptest.NewRequest(http.MethodGet, "/budgets/"+budget.Id+"/edit", nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetEdit(app, testConfig())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Edit #1",
		`name="items[0].reference" value="FIRST"`,
		`name="items[1].reference" value="SECOND"`,
	)
}

func TestHandleBudgetEdit_LockedStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))
	budget.Set("status", string(services.StatusSent))
	if err := app.Save(budget); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/budgets/"+budget.Id+"/edit", nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetEdit(app, testConfig())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleBudgetUpdate_ReplacesItemsAndBumpsRevision(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("OLD-1", 1, 10, 15),
		testhelpers.TestItem("OLD-2", 1, 10, 15),
	)

	form := budgetFormValues(customer.Id, itemFields{"NEW", "Replacement", "meter", "4", "2,5", "4"})
	req := newFormRequest(http.MethodPost, "/budgets/"+budget.Id, form)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := app.FindRecordById("budgets", budget.Id)
	if err != nil {
		t.Fatal(err)
	}
	if updated.GetInt("revision") != 2 {
		t.Errorf("expected revision 2, got %d", updated.GetInt("revision"))
	}
	if updated.GetFloat("total_cost") != 10 || updated.GetFloat("total_selling") != 16 {
		t.Errorf("unexpected totals cost=%v selling=%v", updated.GetFloat("total_cost"), updated.GetFloat("total_selling"))
	}

	items, _, err := services.LoadBudgetItems(app, budget.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Reference != "NEW" || items[0].CostPrice != 2.5 {
		t.Errorf("unexpected items %+v", items)
	}

	history, _ := app.FindRecordsByFilter("budget_history", "budget = {:id} && action = 'updated'", "", 0, 0,
		map[string]any{"id": budget.Id})
	if len(history) != 1 {
		t.Errorf("expected one updated history row, got %d", len(history))
	}
}

func TestHandleBudgetUpdate_ValidationKeepsStoredItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("KEEP", 1, 10, 15))

	form := budgetFormValues(customer.Id, itemFields{"BAD", "Negative", "each", "1", "-5", "10"})
	req := newFormRequest(http.MethodPost, "/budgets/"+budget.Id, form)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), services.DiagNegativeCost)

	items, _, _ := services.LoadBudgetItems(app, budget.Id)
	if len(items) != 1 || items[0].Reference != "KEEP" {
		t.Errorf("stored items should be unchanged, got %+v", items)
	}
}

func TestHandleBudgetUpdate_LockedStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))
	budget.Set("status", string(services.StatusApproved))
	if err := app.Save(budget); err != nil {
		t.Fatal(err)
	}

	form := budgetFormValues(customer.Id, itemFields{"B", "Other", "each", "1", "1", "2"})
	req := newFormRequest(http.MethodPost, "/budgets/"+budget.Id, form)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}
