package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestHandleItemCalc(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"items[3].id":            {"row-3"},
		"items[3].reference":     {"TIL-01"},
		"items[3].description":   {"Floor tiles"},
		"items[3].unit":          {"square_meter"},
		"items[3].quantity":      {"2"},
		"items[3].cost_price":    {"10"},
		"items[3].selling_price": {"15"},
	}
	req := newFormRequest(http.MethodPost, "/budgets/items/calc?index=3", form)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemCalc(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="item-row-3"`,
		`name="items[3].id" value="row-3"`,
		`value="square_meter" selected`,
		"30,00\u00a0€",
		"10,00\u00a0€",
		"50,00%",
	)
}

func TestHandleItemCalc_ShowsDiagnostics(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"items[0].description":   {"No reference"},
		"items[0].quantity":      {"1"},
		"items[0].cost_price":    {"10"},
		"items[0].selling_price": {"5"},
	}
	req := newFormRequest(http.MethodPost, "/budgets/items/calc?index=0", form)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemCalc(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"has-errors",
		services.DiagReferenceRequired,
		services.DiagSellingBelowCost,
		`name="items[0].id" value="`,
	)
}

func TestHandleItemNew(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets/items/new?index=1700000000000", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemNew(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `name="items[1700000000000].quantity" value="1"`, `value="each" selected`)
	testhelpers.AssertHTMLNotContains(t, body, "diagnostics")
}

func TestHandleItemSuggest_PlainCost(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets/items/suggest?cost=100&margin=25", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemSuggest(app, testConfig())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `data-value="125"`, "125,00\u00a0€")
}

func TestHandleItemSuggest_DefaultMargin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig()
	cfg.Pricing.DefaultTargetMargin = 50

	req := httptest.NewRequest(http.MethodGet, "/budgets/items/suggest?cost=10", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemSuggest(app, cfg)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `data-value="15"`)
}

func TestHandleItemSuggest_FillsRow(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	q := url.Values{
		"index":               {"2"},
		"target_margin":       {"25"},
		"items[2].reference":  {"A"},
		"items[2].quantity":   {"2"},
		"items[2].cost_price": {"80"},
	}
	req := httptest.NewRequest(http.MethodGet, "/budgets/items/suggest?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemSuggest(app, testConfig())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`name="items[2].selling_price" value="100"`,
		"200,00\u00a0€",
	)
}

func TestHandleItemSuggest_NegativeMargin(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets/items/suggest?cost=10&margin=-5", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemSuggest(app, testConfig())(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleItemTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := budgetFormValues("",
		itemFields{"A", "First", "each", "10", "10", "15"},
		itemFields{"B", "Second", "hour", "2", "50", "100"},
	)
	form.Set("discount_percentage", "10")
	form.Set("shipping_cost", "20")
	req := newFormRequest(http.MethodPost, "/budgets/items/totals", form)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemTotals(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="totals"`,
		`hx-post="/budgets/items/totals"`,
		"200,00\u00a0€",
		"350,00\u00a0€",
		"75,00%",
		"335,00\u00a0€",
	)
}

func TestHandleItemPatch(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("A", 1, 10, 15),
		testhelpers.TestItem("B", 1, 10, 15),
	)
	_, records, err := services.LoadBudgetItems(app, budget.Id)
	if err != nil {
		t.Fatal(err)
	}
	itemID := records[0].Id

	req := newFormRequest(http.MethodPatch, "/budgets/"+budget.Id+"/items/"+itemID, url.Values{"quantity": {"3"}})
	req.SetPathValue("id", budget.Id)
	req.SetPathValue("itemId", itemID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemPatch(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="stored-item-`+itemID+`"`,
		`hx-swap-oob="true"`,
		"45,00\u00a0€",
		"60,00\u00a0€",
	)

	stored, _ := app.FindRecordById("budgets", budget.Id)
	if stored.GetFloat("total_selling") != 60 || stored.GetFloat("total_cost") != 40 {
		t.Errorf("unexpected budget totals cost=%v selling=%v", stored.GetFloat("total_cost"), stored.GetFloat("total_selling"))
	}
	item, _ := app.FindRecordById("budget_items", itemID)
	if item.GetFloat("quantity") != 3 || item.GetFloat("total_selling") != 45 {
		t.Errorf("unexpected item quantity=%v total=%v", item.GetFloat("quantity"), item.GetFloat("total_selling"))
	}
	if item.GetString("reference") != "A" {
		t.Errorf("reference should be unchanged, got %q", item.GetString("reference"))
	}
}

func TestHandleItemPatch_Rejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("A", 1, 10, 15))
	other := testhelpers.CreateTestBudget(t, app, customer.Id, testhelpers.TestItem("X", 1, 10, 15))
	_, records, _ := services.LoadBudgetItems(app, budget.Id)
	_, otherRecords, _ := services.LoadBudgetItems(app, other.Id)

	tests := []struct {
		name     string
		itemID   string
		form     url.Values
		lock     bool
		wantCode int
	}{
		{name: "empty patch", itemID: records[0].Id, form: url.Values{}, wantCode: http.StatusBadRequest},
		{name: "unknown unit", itemID: records[0].Id, form: url.Values{"unit": {"parsec"}}, wantCode: http.StatusBadRequest},
		{name: "item of another budget", itemID: otherRecords[0].Id, form: url.Values{"quantity": {"2"}}, wantCode: http.StatusNotFound},
		{name: "negative quantity", itemID: records[0].Id, form: url.Values{"quantity": {"-5"}}, wantCode: http.StatusUnprocessableEntity},
		{name: "blank reference", itemID: records[0].Id, form: url.Values{"reference": {"  "}}, wantCode: http.StatusUnprocessableEntity},
		{name: "locked budget", itemID: records[0].Id, form: url.Values{"quantity": {"2"}}, lock: true, wantCode: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.lock {
				budget.Set("status", string(services.StatusSent))
				if err := app.Save(budget); err != nil {
					t.Fatal(err)
				}
			}
			req := newFormRequest(http.MethodPatch, "/budgets/"+budget.Id+"/items/"+tt.itemID, tt.form)
			req.SetPathValue("id", budget.Id)
			req.SetPathValue("itemId", tt.itemID)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleItemPatch(app)(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}

	items, _, err := services.LoadBudgetItems(app, budget.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Reference != "A" || items[0].Quantity != 1 {
		t.Errorf("rejected patches must not change the stored item, got %+v", items)
	}
	stored, err := app.FindRecordById("budgets", budget.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got := stored.GetFloat("total_selling"); got != 15 {
		t.Errorf("expected total_selling 15, got %v", got)
	}
}

func TestHandleItemDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Ana Costa")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("A", 1, 10, 15),
		testhelpers.TestItem("B", 1, 20, 30),
	)
	_, records, _ := services.LoadBudgetItems(app, budget.Id)
	first := records[0].Id

	req := httptest.NewRequest(http.MethodDelete, "/budgets/"+budget.Id+"/items/"+first, nil)
	req.SetPathValue("id", budget.Id)
	req.SetPathValue("itemId", first)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleItemDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `hx-swap-oob="true"`, "30,00\u00a0€")

	items, remaining, _ := services.LoadBudgetItems(app, budget.Id)
	if len(items) != 1 || items[0].Reference != "B" {
		t.Fatalf("unexpected items %+v", items)
	}
	if remaining[0].GetInt("sequence") != 1 {
		t.Errorf("expected remaining item resequenced to 1, got %d", remaining[0].GetInt("sequence"))
	}
	stored, _ := app.FindRecordById("budgets", budget.Id)
	if stored.GetFloat("total_selling") != 30 {
		t.Errorf("expected total selling 30, got %v", stored.GetFloat("total_selling"))
	}

	// The last item cannot be removed.
	last := remaining[0].Id
	req = httptest.NewRequest(http.MethodDelete, "/budgets/"+budget.Id+"/items/"+last, nil)
	req.SetPathValue("id", budget.Id)
	req.SetPathValue("itemId", last)
	rec = httptest.NewRecorder()
	e = newTestRequestEvent(app, req, rec)

	if err := HandleItemDelete(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}
