package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/dbx"

	"budgetdesk/testhelpers"
)

func TestHandleBudgetDelete(t *testing.T) {
	tests := []struct {
		name         string
		headers      map[string]string
		wantCode     int
		wantLocation string
		wantHX       string
	}{
		{name: "plain request", wantCode: http.StatusFound, wantLocation: "/budgets"},
		{name: "from the budget page", headers: map[string]string{"HX-Request": "true"}, wantCode: http.StatusOK, wantHX: "/budgets"},
		{name: "from the list row", headers: map[string]string{"HX-Request": "true", "HX-Target": "budget-{id}"}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
			budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))

			req := httptest.NewRequest(http.MethodDelete, "/budgets/"+budget.Id, nil)
			req.SetPathValue("id", budget.Id)
			for k, v := range tt.headers {
				if v == "budget-{id}" {
					v = "budget-" + budget.Id
				}
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleBudgetDelete(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("expected Location %q, got %q", tt.wantLocation, rec.Header().Get("Location"))
			}
			testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), tt.wantHX)

			if _, err := app.FindRecordById("budgets", budget.Id); err == nil {
				t.Error("expected budget to be deleted")
			}
			items, _ := app.CountRecords("budget_items", dbx.HashExp{"budget": budget.Id})
			if items != 0 {
				t.Errorf("expected items to be deleted with the budget, got %d", items)
			}
		})
	}
}

func TestHandleBudgetDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/budgets/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
