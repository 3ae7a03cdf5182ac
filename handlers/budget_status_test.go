package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestHandleBudgetStatus(t *testing.T) {
	tests := []struct {
		name       string
		from       services.BudgetStatus
		to         string
		reason     string
		wantCode   int
		wantStatus services.BudgetStatus
		wantStamp  string
	}{
		{name: "draft to sent", from: services.StatusDraft, to: "sent", wantCode: http.StatusFound, wantStatus: services.StatusSent, wantStamp: "sent_at"},
		{name: "sent to approved", from: services.StatusSent, to: "approved", wantCode: http.StatusFound, wantStatus: services.StatusApproved, wantStamp: "approved_at"},
		{name: "sent to rejected", from: services.StatusSent, to: "rejected", reason: "Too expensive", wantCode: http.StatusFound, wantStatus: services.StatusRejected, wantStamp: "rejected_at"},
		{name: "reject without reason", from: services.StatusSent, to: "rejected", wantCode: http.StatusUnprocessableEntity, wantStatus: services.StatusSent},
		{name: "draft to approved", from: services.StatusDraft, to: "approved", wantCode: http.StatusUnprocessableEntity, wantStatus: services.StatusDraft},
		{name: "unknown status", from: services.StatusDraft, to: "archived", wantCode: http.StatusUnprocessableEntity, wantStatus: services.StatusDraft},
		{name: "approved is final", from: services.StatusApproved, to: "draft", wantCode: http.StatusUnprocessableEntity, wantStatus: services.StatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
			budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))
			budget.Set("status", string(tt.from))
			if err := app.Save(budget); err != nil {
				t.Fatal(err)
			}

			form := url.Values{"status": {tt.to}, "reason": {tt.reason}}
			req := newFormRequest(http.MethodPost, "/budgets/"+budget.Id+"/status", form)
			req.SetPathValue("id", budget.Id)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleBudgetStatus(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}

			stored, err := app.FindRecordById("budgets", budget.Id)
			if err != nil {
				t.Fatal(err)
			}
			if got := services.BudgetStatus(stored.GetString("status")); got != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, got)
			}
			if tt.wantStamp != "" && stored.GetDateTime(tt.wantStamp).IsZero() {
				t.Errorf("expected %s to be set", tt.wantStamp)
			}
			if tt.reason != "" && stored.GetString("rejection_reason") != tt.reason {
				t.Errorf("expected rejection reason %q, got %q", tt.reason, stored.GetString("rejection_reason"))
			}

			history, _ := app.FindRecordsByFilter("budget_history", "budget = {:id} && action = 'status_changed'", "", 0, 0,
				map[string]any{"id": budget.Id})
			wantHistory := 0
			if tt.wantCode == http.StatusFound {
				wantHistory = 1
			}
			if len(history) != wantHistory {
				t.Errorf("expected %d status history rows, got %d", wantHistory, len(history))
			}
		})
	}
}

func TestHandleBudgetStatus_HTMXRedirect(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))

	req := newFormRequest(http.MethodPost, "/budgets/"+budget.Id+"/status", url.Values{"status": {"sent"}})
	req.SetPathValue("id", budget.Id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBudgetStatus(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/budgets/"+budget.Id)
}
