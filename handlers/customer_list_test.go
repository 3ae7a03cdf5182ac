package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetdesk/testhelpers"
)

func TestHandleCustomerList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ana := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	testhelpers.CreateTestCustomer(t, app, "Rui Lopes")
	testhelpers.CreateTestBudget(t, app, ana.Id, testhelpers.TestItem("A", 1, 1, 2))

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ana Costa", "Rui Lopes", "New customer", "/customers/"+ana.Id)
}

func TestHandleCustomerList_Search(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	testhelpers.CreateTestCustomer(t, app, "Rui Lopes")

	req := httptest.NewRequest(http.MethodGet, "/customers?q=rui.lopes@", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Rui Lopes")
	testhelpers.AssertHTMLNotContains(t, body, "Ana Costa")
}

func TestHandleCustomerList_FilterByType(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	company := testhelpers.CreateTestCustomer(t, app, "Rui Lopes")
	company.Set("type", "company")
	company.Set("company_name", "Lopes Lda")
	if err := app.Save(company); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/customers?type=company", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleCustomerList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Lopes Lda")
	testhelpers.AssertHTMLNotContains(t, body, "Ana Costa")
}
