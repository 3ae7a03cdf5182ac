package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"budgetdesk/services"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestItemFieldName(t *testing.T) {
	if got := ItemFieldName(12, "cost_price"); got != "items[12].cost_price" {
		t.Errorf("got %q", got)
	}
}

func TestItemRow(t *testing.T) {
	got := render(t, ItemRow(ItemRowData{
		Index:        4,
		ID:           "abc",
		Reference:    `<TIL>`,
		Description:  "Floor tiles",
		Unit:         string(services.UnitSquareMeter),
		Quantity:     "2",
		CostPrice:    "10",
		SellingPrice: "8",
		Band:         services.MarginNegative,
		Diagnostics:  []string{services.DiagSellingBelowCost},
		WarningOnly:  true,
	}))

	for _, want := range []string{
		`id="item-row-4"`,
		`hx-post="/budgets/items/calc?index=4"`,
		`name="items[4].id" value="abc"`,
		`name="items[4].reference" value="&lt;TIL&gt;"`,
		`<option value="square_meter" selected>`,
		`<li class="diag-warning">` + services.DiagSellingBelowCost + `</li>`,
		`class="num margin-negative"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected row to contain %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "has-errors") {
		t.Error("a warning-only row should not be flagged as an error")
	}
}

func TestItemRow_BlockingDiagnostics(t *testing.T) {
	got := render(t, ItemRow(ItemRowData{
		Index:       0,
		Diagnostics: []string{services.DiagReferenceRequired},
	}))
	if !strings.Contains(got, "has-errors") || !strings.Contains(got, `class="diag-error"`) {
		t.Errorf("expected blocking diagnostics to be marked\n%s", got)
	}
	if !strings.Contains(got, `<option value="each" selected>`) {
		t.Error("an empty unit should select the default unit")
	}
}

func TestTotalsPanel(t *testing.T) {
	plain := render(t, TotalsPanel(TotalsData{ItemCount: 2, TotalSelling: "350,00\u00a0€"}))
	if strings.Contains(plain, "hx-post") || strings.Contains(plain, "hx-swap-oob") {
		t.Errorf("a stored panel should be static\n%s", plain)
	}
	if strings.Contains(plain, "Discount") {
		t.Error("discount line should be hidden when empty")
	}

	live := render(t, TotalsPanel(TotalsData{Live: true, Discount: "35,00\u00a0€"}))
	if !strings.Contains(live, `hx-post="/budgets/items/totals"`) || !strings.Contains(live, "-35,00\u00a0€") {
		t.Errorf("unexpected live panel\n%s", live)
	}

	oob := render(t, TotalsPanel(TotalsData{OOB: true}))
	if !strings.Contains(oob, `hx-swap-oob="true"`) {
		t.Errorf("expected out-of-band panel\n%s", oob)
	}
}

func TestStoredItemRow(t *testing.T) {
	row := ItemRowData{ID: "it1", Reference: "A", Unit: "hour", Quantity: "2"}

	editable := render(t, StoredItemRow("b1", row, true))
	if !strings.Contains(editable, `hx-patch="/budgets/b1/items/it1"`) || !strings.Contains(editable, `hx-delete="/budgets/b1/items/it1"`) {
		t.Errorf("expected editable row\n%s", editable)
	}

	locked := render(t, StoredItemRow("b1", row, false))
	if strings.Contains(locked, "hx-patch") || strings.Contains(locked, "hx-delete") {
		t.Errorf("expected read-only row\n%s", locked)
	}
}

func TestImportResult(t *testing.T) {
	got := render(t, ImportResult(ImportResultData{
		FileName:   "items.csv",
		TotalRows:  2,
		ValidRows:  1,
		ErrorRows:  1,
		Rows:       []ItemRowData{{Index: 100, Reference: "A"}},
		Errors:     []services.ValidationError{{Row: 3, Field: "Item", Message: "reference required"}},
		ErrorsJSON: `[{"row":3}]`,
	}))
	for _, want := range []string{
		"items.csv: 2 rows, 1 valid, 1 with issues",
		"Row 3 (Item): reference required",
		`value="[{&#34;row&#34;:3}]"`,
		`<tbody hx-swap-oob="beforeend:#item-rows">`,
		`name="items[100].reference" value="A"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected import result to contain %q\n%s", want, got)
		}
	}
}
