package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetdesk/testhelpers"
)

func TestHandleCustomerDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")

	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customer.Id, nil)
	req.SetPathValue("id", customer.Id)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "customer-"+customer.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("customers", customer.Id); err == nil {
		t.Error("expected customer to be deleted")
	}
}

func TestHandleCustomerDelete_WithBudgets(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 1, 2))

	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customer.Id, nil)
	req.SetPathValue("id", customer.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("customers", customer.Id); err != nil {
		t.Error("customer with budgets must be kept")
	}
}
