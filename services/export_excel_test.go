package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleExportData(internal bool) ExportData {
	items := []LineItem{
		CalcLineItem(ItemInput{Reference: "CAB-01", Description: "Copper cable", Unit: "meter", Quantity: 100, CostPrice: 2, SellingPrice: 3}),
		CalcLineItem(ItemInput{Reference: "SOC-02", Description: "=HYPERLINK(\"x\")", Quantity: 4, CostPrice: 10, SellingPrice: 12.5}),
	}
	totals := CalcQuotationTotals(items)
	return ExportData{
		Issuer:       Issuer{Name: "Acme Lda"},
		Title:        "Budget #42",
		BudgetNumber: "#42",
		CustomerName: "Maria Silva",
		CreatedDate:  "15/01/2026",
		ValidUntil:   "14/02/2026",
		Internal:     internal,
		Rows:         NewExportRows(items),
		Totals:       totals,
		Grand:        CalcGrandTotal(totals.TotalSelling, 10, 0, 20),
	}
}

func rowValues(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	return rows
}

func findRow(rows [][]string, first string) []string {
	for _, r := range rows {
		for _, c := range r {
			if c == first {
				return r
			}
		}
	}
	return nil
}

func TestGenerateExcel_CustomerVersion(t *testing.T) {
	result, err := GenerateExcel(sampleExportData(false))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "#42" {
		t.Fatalf("expected sheet name '#42', got %v", sheets)
	}
	rows := rowValues(t, f, sheets[0])

	header := findRow(rows, "Description")
	if header == nil {
		t.Fatal("header row not found")
	}
	for _, h := range header {
		if h == "Unit Cost" || h == "Margin" {
			t.Errorf("customer export must not contain %q column", h)
		}
	}

	injected := findRow(rows, "SOC-02")
	if injected == nil || !strings.HasPrefix(injected[2], "'=") {
		t.Errorf("expected sanitized description, got %v", injected)
	}

	total := findRow(rows, "Total:")
	if total == nil || total[len(total)-1] != "335,00\u00a0€" {
		t.Errorf("expected total 335,00\u00a0€, got %v", total)
	}
}

func TestGenerateExcel_InternalVersion(t *testing.T) {
	result, err := GenerateExcel(sampleExportData(true))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	rows := rowValues(t, f, f.GetSheetList()[0])
	header := findRow(rows, "Description")
	want := []string{"#", "Reference", "Description", "Unit", "Qty", "Unit Cost", "Total Cost", "Unit Price", "Total", "Margin", "Margin %"}
	if len(header) != len(want) {
		t.Fatalf("header = %v, want %v", header, want)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	if findRow(rows, "Total Cost:") == nil {
		t.Error("internal export should list the total cost")
	}
	cable := findRow(rows, "CAB-01")
	if cable == nil || cable[len(cable)-1] != "50,00%" {
		t.Errorf("expected cable margin 50,00%%, got %v", cable)
	}
}

func TestGenerateExcel_EmptyItems(t *testing.T) {
	result, err := GenerateExcel(ExportData{Title: "Empty", CreatedDate: "15/01/2026"})
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()
	if f.GetSheetList()[0] != "Budget" {
		t.Errorf("expected fallback sheet name 'Budget', got %q", f.GetSheetList()[0])
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input, expect string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-2", "'-2"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.expect {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
