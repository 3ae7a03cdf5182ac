package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "Reference,Description,Quantity\nA-1,Cable,3\nA-2,Socket,1\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("Reference,Description\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !errors.Is(err, errNoDataRows) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("")); !errors.Is(err, errNoDataRows) {
		t.Errorf("expected errNoDataRows for empty file, got %v", err)
	}
}

func TestMapHeadersToColumns(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		headers := []string{"Reference", "Description", "Unit", "Quantity", "Cost Price", "Selling Price"}
		mapped, unrecognized := mapHeadersToColumns(headers, ItemImportColumns)
		if len(unrecognized) != 0 {
			t.Errorf("expected no unrecognized, got %v", unrecognized)
		}
		want := []string{"reference", "description", "unit", "quantity", "cost_price", "selling_price"}
		for i := range want {
			if mapped[i] != want[i] {
				t.Errorf("mapped[%d] = %q, want %q", i, mapped[i], want[i])
			}
		}
	})

	t.Run("case and asterisk", func(t *testing.T) {
		mapped, _ := mapHeadersToColumns([]string{"REFERENCE *", "  cost price  "}, ItemImportColumns)
		if mapped[0] != "reference" || mapped[1] != "cost_price" {
			t.Errorf("unexpected mapping: %v", mapped)
		}
	})

	t.Run("unrecognized columns", func(t *testing.T) {
		mapped, unrecognized := mapHeadersToColumns([]string{"Reference", "Colour"}, ItemImportColumns)
		if len(unrecognized) != 1 || unrecognized[0] != "Colour" {
			t.Errorf("expected ['Colour'], got %v", unrecognized)
		}
		if mapped[1] != "" {
			t.Errorf("expected empty key for unrecognized column, got %q", mapped[1])
		}
	})
}

func TestParseItemFile_CSV(t *testing.T) {
	input := "Reference,Description,Unit,Quantity,Cost Price,Selling Price\n" +
		"CAB-01,Copper cable,meter,10,2.5,4\n" +
		",,,,,\n" +
		"SOC-02,Socket,furlong,2,\"10,50\",8\n"

	result, err := ParseItemFile(strings.NewReader(input), "items.CSV")
	if err != nil {
		t.Fatalf("ParseItemFile() error = %v", err)
	}
	if result.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2 (blank row skipped)", result.TotalRows)
	}
	if result.ValidRows != 1 || result.ErrorRows != 1 {
		t.Errorf("ValidRows/ErrorRows = %d/%d, want 1/1", result.ValidRows, result.ErrorRows)
	}

	first := result.Items[0].Item
	if first.Unit != UnitMeter || !almostEqual(first.TotalCost, 25) || !almostEqual(first.TotalSelling, 40) {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.ID == "" {
		t.Error("imported items should get an id")
	}

	second := result.Items[1]
	if second.Row != 4 {
		t.Errorf("second row number = %d, want 4", second.Row)
	}
	if second.Item.Unit != UnitEach || !almostEqual(second.Item.CostPrice, 10.5) {
		t.Errorf("unexpected second item: %+v", second.Item)
	}
	if len(second.Diagnostics) != 1 || second.Diagnostics[0] != DiagSellingBelowCost {
		t.Errorf("second diagnostics = %v", second.Diagnostics)
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected unit + below-cost errors, got %v", result.Errors)
	}
}

func TestParseItemFile_MissingColumns(t *testing.T) {
	_, err := ParseItemFile(strings.NewReader("Reference,Description\nA,B\n"), "items.csv")
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "Quantity") || !strings.Contains(err.Error(), "Cost Price") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseItemFile_UnsupportedFormat(t *testing.T) {
	if _, err := ParseItemFile(strings.NewReader("x"), "items.txt"); err == nil {
		t.Error("expected error for .txt file")
	}
}

func TestParseItemFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Reference", "Description", "Unit", "Quantity", "Cost Price", "Selling Price"})
	f.SetSheetRow(sheet, "A2", &[]any{"PNT-1", "Wall paint", "liter", 4, 12, 18})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	result, err := ParseItemFile(&buf, "items.xlsx")
	if err != nil {
		t.Fatalf("ParseItemFile() error = %v", err)
	}
	if result.TotalRows != 1 || result.ErrorRows != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	item := result.Items[0].Item
	if item.Unit != UnitLiter || !almostEqual(item.ProfitMargin, 24) || !almostEqual(item.ProfitPercentage, 50) {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestGenerateItemTemplate(t *testing.T) {
	data, err := GenerateItemTemplate()
	if err != nil {
		t.Fatalf("GenerateItemTemplate() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	a1, _ := f.GetCellValue("Items", "A1")
	c1, _ := f.GetCellValue("Items", "C1")
	if a1 != "Reference *" || c1 != "Unit" {
		t.Errorf("unexpected headers: %q, %q", a1, c1)
	}

	// The template's own headers must be accepted by the importer.
	headers, _ := f.GetRows("Items")
	_, unrecognized := mapHeadersToColumns(headers[0], ItemImportColumns)
	if len(unrecognized) != 0 {
		t.Errorf("template headers not recognised: %v", unrecognized)
	}
}

func TestGenerateErrorReport_WithErrors(t *testing.T) {
	rowErrs := []ValidationError{
		{Row: 2, Field: "Item", Message: DiagReferenceRequired},
		{Row: 3, Field: "Unit", Message: `unknown unit "furlong", using un`},
	}

	result, err := GenerateErrorReport(rowErrs)
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if sheet != "Errors" {
		t.Errorf("expected sheet name 'Errors', got %q", sheet)
	}
	a2, _ := f.GetCellValue(sheet, "A2")
	c2, _ := f.GetCellValue(sheet, "C2")
	if a2 != "2" || c2 != DiagReferenceRequired {
		t.Errorf("unexpected first row: %q, %q", a2, c2)
	}
}
