package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestHandleBudgetList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "<!doctype html>", "New budget")
}

func TestHandleBudgetList_ShowsBudgets(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ana := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	rui := testhelpers.CreateTestCustomer(t, app, "Rui Lopes")
	testhelpers.CreateTestBudget(t, app, ana.Id, testhelpers.TestItem("A", 1, 100, 150), testhelpers.TestItem("B", 2, 10, 20))
	testhelpers.CreateTestBudget(t, app, rui.Id, testhelpers.TestItem("C", 1, 50, 60))

	req := httptest.NewRequest(http.MethodGet, "/budgets", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Ana Costa", "Rui Lopes", "#1", "#2", "190,00\u00a0€", "60,00\u00a0€")
	if strings.Contains(body, "<!doctype html>") {
		t.Error("HTMX request should render the content only")
	}
	if strings.Index(body, "Rui Lopes") > strings.Index(body, "Ana Costa") {
		t.Error("expected newest budget first")
	}
}

func TestHandleBudgetList_FilterByStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ana := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	rui := testhelpers.CreateTestCustomer(t, app, "Rui Lopes")
	testhelpers.CreateTestBudget(t, app, ana.Id, testhelpers.TestItem("A", 1, 100, 150))
	sent := testhelpers.CreateTestBudget(t, app, rui.Id, testhelpers.TestItem("B", 1, 100, 150))
	sent.Set("status", string(services.StatusSent))
	if err := app.Save(sent); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/budgets?status=sent", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Rui Lopes")
	testhelpers.AssertHTMLNotContains(t, body, "Ana Costa")
}

func TestHandleBudgetList_SearchByCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ana := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	rui := testhelpers.CreateTestCustomer(t, app, "Rui Lopes")
	testhelpers.CreateTestBudget(t, app, ana.Id, testhelpers.TestItem("A", 1, 100, 150))
	testhelpers.CreateTestBudget(t, app, rui.Id, testhelpers.TestItem("B", 1, 100, 150))

	req := httptest.NewRequest(http.MethodGet, "/budgets?q=lopes", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Rui Lopes")
	testhelpers.AssertHTMLNotContains(t, body, "Ana Costa")
}

func TestHandleBudgetList_UnknownStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets?status=archived", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
