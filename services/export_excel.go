package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// excelColumn is one column of the exported item table.
type excelColumn struct {
	Header string
	Width  float64
	Value  func(r ExportRow) any
}

func excelColumns(internal bool) []excelColumn {
	cols := []excelColumn{
		{"#", 6, func(r ExportRow) any { return r.Index }},
		{"Reference", 14, func(r ExportRow) any { return sanitizeExcelCell(r.Reference) }},
		{"Description", 40, func(r ExportRow) any { return sanitizeExcelCell(r.Description) }},
		{"Unit", 8, func(r ExportRow) any { return r.Unit }},
		{"Qty", 10, func(r ExportRow) any { return r.Quantity }},
	}
	if internal {
		cols = append(cols,
			excelColumn{"Unit Cost", 14, func(r ExportRow) any { return RoundMoney(r.CostPrice) }},
			excelColumn{"Total Cost", 14, func(r ExportRow) any { return RoundMoney(r.TotalCost) }},
		)
	}
	cols = append(cols,
		excelColumn{"Unit Price", 14, func(r ExportRow) any { return RoundMoney(r.SellingPrice) }},
		excelColumn{"Total", 14, func(r ExportRow) any { return RoundMoney(r.TotalSelling) }},
	)
	if internal {
		cols = append(cols,
			excelColumn{"Margin", 14, func(r ExportRow) any { return RoundMoney(r.ProfitMargin) }},
			excelColumn{"Margin %", 10, func(r ExportRow) any { return FormatPercentage(r.ProfitPercentage) }},
		)
	}
	return cols
}

// GenerateExcel creates an Excel file from the given ExportData and returns
// the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := data.BudgetNumber
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Budget"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := excelColumns(data.Internal)
	lastCol, _ := excelize.ColumnNumberToName(len(columns))

	for i, c := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, c.Width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	// Built-in number format 4 is "#,##0.00".
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows ─────────────────────────────────────────────────────

	row := 1
	writeMerged := func(value string, style int) error {
		cell := fmt.Sprintf("A%d", row)
		if err := f.MergeCell(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return fmt.Errorf("merge row %d: %w", row, err)
		}
		f.SetCellValue(sheetName, cell, sanitizeExcelCell(value))
		f.SetCellStyle(sheetName, cell, cell, style)
		row++
		return nil
	}

	if data.Issuer.Name != "" {
		if err := writeMerged(data.Issuer.Name, subtitleStyle); err != nil {
			return nil, err
		}
	}
	if err := writeMerged(data.Title, titleStyle); err != nil {
		return nil, err
	}
	if data.CustomerName != "" {
		if err := writeMerged("Customer: "+data.CustomerName, subtitleStyle); err != nil {
			return nil, err
		}
	}
	if err := writeMerged("Date: "+data.CreatedDate, subtitleStyle); err != nil {
		return nil, err
	}
	if data.ValidUntil != "" {
		if err := writeMerged("Valid until: "+data.ValidUntil, subtitleStyle); err != nil {
			return nil, err
		}
	}
	row++

	// ── Column Headers ──────────────────────────────────────────────────

	headerRow := row
	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, c.Header)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)
	row++

	// ── Data Rows ───────────────────────────────────────────────────────

	for _, r := range data.Rows {
		for i, c := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, c.Value(r))
			style := itemStyle
			if _, isMoney := c.Value(r).(float64); isMoney && c.Header != "Qty" {
				style = moneyStyle
			}
			f.SetCellStyle(sheetName, cell, cell, style)
		}
		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++
	labelCol, _ := excelize.ColumnNumberToName(len(columns) - 1)
	writeSummary := func(label string, value string) {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, labelCol+r, label)
		f.SetCellStyle(sheetName, labelCol+r, labelCol+r, summaryLabelStyle)
		f.SetCellValue(sheetName, lastCol+r, value)
		f.SetCellStyle(sheetName, lastCol+r, lastCol+r, summaryValueStyle)
		row++
	}

	if data.Internal {
		writeSummary("Total Cost:", FormatCurrency(data.Totals.TotalCost))
	}
	writeSummary("Subtotal:", FormatCurrency(data.Grand.Subtotal))
	if data.Grand.DiscountAmount > 0 {
		writeSummary("Discount:", "-"+FormatCurrency(data.Grand.DiscountAmount))
	}
	if data.Grand.Shipping > 0 {
		writeSummary("Shipping:", FormatCurrency(data.Grand.Shipping))
	}
	writeSummary("Total:", FormatCurrency(data.Grand.Total))
	if data.Internal {
		writeSummary(fmt.Sprintf("Margin (%s):", FormatPercentage(data.Totals.ProfitPercentage)), FormatCurrency(data.Totals.ProfitMargin))
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
