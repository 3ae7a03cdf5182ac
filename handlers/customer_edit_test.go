package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"budgetdesk/testhelpers"
)

func TestHandleCustomerEdit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")

	req := httptest.NewRequest(http.MethodGet, "/customers/"+customer.Id+"/edit", nil)
	req.SetPathValue("id", customer.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerEdit(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Edit customer", `value="Ana Costa"`, `value="Lisboa"`)
}

func TestHandleCustomerUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")

	form := url.Values{"type": {"individual"}, "name": {"Ana Costa Silva"}, "city": {"Porto"}}
	req := newFormRequest(http.MethodPost, "/customers/"+customer.Id, form)
	req.SetPathValue("id", customer.Id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/customers/"+customer.Id)

	updated, _ := app.FindRecordById("customers", customer.Id)
	if updated.GetString("name") != "Ana Costa Silva" || updated.GetString("city") != "Porto" {
		t.Errorf("unexpected customer %v", updated.PublicExport())
	}
	if updated.GetBool("is_active") {
		t.Error("unchecked is_active should deactivate the customer")
	}
}

func TestHandleCustomerUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newFormRequest(http.MethodPost, "/customers/missing", url.Values{"name": {"X"}})
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerUpdate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
