package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"budgetdesk/testhelpers"
)

func TestHandleCustomerCreate_RendersForm(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/customers/create", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "New customer", `name="name"`, `name="company_name"`)
}

func TestHandleCustomerSave_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"type":         {"company"},
		"name":         {"Rui Lopes"},
		"company_name": {"Lopes & Filhos Lda"},
		"email":        {"geral@lopes.pt"},
		"tax_id":       {"509999999"},
		"is_active":    {"true"},
	}
	req := newFormRequest(http.MethodPost, "/customers", form)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerSave(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}

	records, err := app.FindAllRecords("customers")
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 customer, got %d (%v)", len(records), err)
	}
	c := records[0]
	if rec.Header().Get("Location") != "/customers/"+c.Id {
		t.Errorf("unexpected redirect %q", rec.Header().Get("Location"))
	}
	if c.GetString("company_name") != "Lopes & Filhos Lda" || c.GetString("type") != "company" || !c.GetBool("is_active") {
		t.Errorf("unexpected customer %v", c.PublicExport())
	}
}

func TestHandleCustomerSave_ValidationError(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{"type": {"individual"}, "email": {"broken"}}
	req := newFormRequest(http.MethodPost, "/customers", form)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerSave(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Name is required", "Enter a valid email address", `value="broken"`)

	total, _ := app.CountRecords("customers")
	if total != 0 {
		t.Errorf("expected no customer, got %d", total)
	}
}
