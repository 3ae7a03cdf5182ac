package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestHandleBudgetView_Draft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("TIL-01", 10, 10, 15),
		testhelpers.TestItem("LOSS", 1, 10, 8),
	)

	req := httptest.NewRequest(http.MethodGet, "/budgets/"+budget.Id, nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetView(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"Budget #1",
		"Ana Costa",
		"TIL-01",
		services.DiagSellingBelowCost,
		`href="/budgets/`+budget.Id+`/edit"`,
		`hx-patch="/budgets/`+budget.Id+`/items/`,
		`name="status"`,
		"158,00\u00a0€",
	)
}

func TestHandleBudgetView_ApprovedIsReadOnly(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))
	budget.Set("status", string(services.StatusApproved))
	if err := app.Save(budget); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/budgets/"+budget.Id, nil)
	req.SetPathValue("id", budget.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetView(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Approved")
	testhelpers.AssertHTMLNotContains(t, body, "/edit\"", "hx-patch=")
}

func TestHandleBudgetView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetView(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
