package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportColumn describes one recognised column of an item spreadsheet.
type ImportColumn struct {
	Key      string
	Label    string
	Required bool
}

// ItemImportColumns are the columns an item import file may carry, in
// template order.
var ItemImportColumns = []ImportColumn{
	{Key: "reference", Label: "Reference", Required: true},
	{Key: "description", Label: "Description", Required: true},
	{Key: "unit", Label: "Unit"},
	{Key: "quantity", Label: "Quantity", Required: true},
	{Key: "cost_price", Label: "Cost Price", Required: true},
	{Key: "selling_price", Label: "Selling Price"},
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportedItem is one priced row of an import file.
type ImportedItem struct {
	Row         int
	Item        LineItem
	Diagnostics []string
}

// ItemImportResult is returned after parsing and pricing an uploaded file.
type ItemImportResult struct {
	FileName  string
	TotalRows int
	ValidRows int
	ErrorRows int
	Items     []ImportedItem
	Errors    []ValidationError
}

var errNoDataRows = errors.New("file must contain a header row and at least one data row")

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, errNoDataRows
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, errNoDataRows
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded column headers to ImportColumn keys.
// Returns ordered list of keys (one per header, "" when unknown) and the
// unrecognised headers.
func mapHeadersToColumns(headers []string, columns []ImportColumn) ([]string, []string) {
	labelToKey := make(map[string]string, len(columns)*2)
	for _, c := range columns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[c.Key] = c.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required columns
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseItemFile reads a .csv or .xlsx item sheet, prices every row with
// CalcLineItem and validates it. Blank rows are skipped. Rows are returned
// even when they carry diagnostics so the user can fix them in the form.
func ParseItemFile(file io.Reader, fileName string) (*ItemImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, errors.New("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToColumns(headers, ItemImportColumns)
	present := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		if k != "" {
			present[k] = true
		}
	}
	var missing []string
	for _, c := range ItemImportColumns {
		if c.Required && !present[c.Key] {
			missing = append(missing, c.Label)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ItemImportResult{FileName: fileName}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		data := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[colIdx])
			if v != "" {
				blank = false
			}
			data[key] = v
		}
		if blank {
			continue
		}

		var rowErrors []ValidationError
		unit, ok := ParseUnit(data["unit"])
		if !ok {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   "Unit",
				Message: fmt.Sprintf("unknown unit %q, using %s", data["unit"], UnitLabel(DefaultUnit)),
			})
		}

		item := CalcLineItem(ItemInput{
			ID:           NewLineItem().ID,
			Reference:    data["reference"],
			Description:  data["description"],
			Unit:         string(unit),
			Quantity:     ParseInputNumber(data["quantity"]),
			CostPrice:    ParseInputNumber(data["cost_price"]),
			SellingPrice: ParseInputNumber(data["selling_price"]),
		})
		diags := ValidateLineItem(item)
		for _, d := range diags {
			rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: "Item", Message: d})
		}

		result.TotalRows++
		if len(rowErrors) > 0 {
			result.ErrorRows++
			result.Errors = append(result.Errors, rowErrors...)
		}
		result.Items = append(result.Items, ImportedItem{Row: rowNum, Item: item, Diagnostics: diags})
	}

	if result.TotalRows == 0 {
		return nil, errNoDataRows
	}
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

// GenerateItemTemplate creates a downloadable .xlsx with the import headers
// and a unit dropdown.
func GenerateItemTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Items"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	optionalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, c := range ItemImportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		col, _ := excelize.ColumnNumberToName(i + 1)
		label, style := c.Label, optionalStyle
		if c.Required {
			label, style = label+" *", requiredStyle
		}
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, style)
		width := 16.0
		if c.Key == "description" {
			width = 40
		}
		f.SetColWidth(sheet, col, col, width)

		if c.Key == "unit" {
			values := make([]string, len(UnitOptions))
			for j, o := range UnitOptions {
				values[j] = o.Value
			}
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", col, col)
			if err := dv.SetDropList(values); err != nil {
				return nil, fmt.Errorf("unit dropdown: %w", err)
			}
			if err := f.AddDataValidation(sheet, dv); err != nil {
				return nil, fmt.Errorf("add unit dropdown: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
