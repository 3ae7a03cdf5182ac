package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// pdfColumn is one column of the item table; sizes add up to 12.
type pdfColumn struct {
	Header string
	Size   int
	Align  align.Type
	Value  func(r ExportRow) string
}

func pdfColumns(internal bool) []pdfColumn {
	if internal {
		return []pdfColumn{
			{"#", 1, align.Center, func(r ExportRow) string { return r.Index }},
			{"Ref.", 1, align.Left, func(r ExportRow) string { return r.Reference }},
			{"Description", 3, align.Left, func(r ExportRow) string { return r.Description }},
			{"Unit", 1, align.Center, func(r ExportRow) string { return r.Unit }},
			{"Qty", 1, align.Right, func(r ExportRow) string { return formatQty(r.Quantity) }},
			{"Unit Cost", 1, align.Right, func(r ExportRow) string { return FormatCurrency(r.CostPrice) }},
			{"Unit Price", 1, align.Right, func(r ExportRow) string { return FormatCurrency(r.SellingPrice) }},
			{"Total", 1, align.Right, func(r ExportRow) string { return FormatCurrency(r.TotalSelling) }},
			{"Margin", 1, align.Right, func(r ExportRow) string { return FormatCurrency(r.ProfitMargin) }},
			{"Margin %", 1, align.Right, func(r ExportRow) string { return FormatPercentage(r.ProfitPercentage) }},
		}
	}
	return []pdfColumn{
		{"#", 1, align.Center, func(r ExportRow) string { return r.Index }},
		{"Reference", 2, align.Left, func(r ExportRow) string { return r.Reference }},
		{"Description", 3, align.Left, func(r ExportRow) string { return r.Description }},
		{"Unit", 1, align.Center, func(r ExportRow) string { return r.Unit }},
		{"Qty", 1, align.Right, func(r ExportRow) string { return formatQty(r.Quantity) }},
		{"Unit Price", 2, align.Right, func(r ExportRow) string { return FormatCurrency(r.SellingPrice) }},
		{"Total", 2, align.Right, func(r ExportRow) string { return FormatCurrency(r.TotalSelling) }},
	}
}

// bandColors tints the margin cells of internal exports.
var bandColors = map[MarginBand]*props.Color{
	MarginNegative: {Red: 220, Green: 38, Blue: 38},
	MarginLow:      {Red: 202, Green: 138, Blue: 4},
	MarginMedium:   {Red: 37, Green: 99, Blue: 235},
	MarginHealthy:  {Red: 22, Green: 163, Blue: 74},
}

// GeneratePDF creates a quotation PDF from the export data using maroto/v2.
// Internal exports are landscape to fit the cost and margin columns.
func GeneratePDF(data ExportData) ([]byte, error) {
	orient := orientation.Vertical
	if data.Internal {
		orient = orientation.Horizontal
	}
	cfg := config.NewBuilder().
		WithOrientation(orient).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	columns := pdfColumns(data.Internal)
	addTableHeader(m, columns)
	for _, r := range data.Rows {
		addTableRow(m, columns, r, data.Internal)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

var mutedText = &props.Color{Red: 80, Green: 80, Blue: 80}

// addHeader adds the issuer, title, customer and dates to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	if data.Issuer.Name != "" {
		issuerLines := []string{}
		for _, s := range []string{data.Issuer.Address, data.Issuer.TaxID, data.Issuer.Email, data.Issuer.Phone} {
			if s != "" {
				issuerLines = append(issuerLines, s)
			}
		}
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(data.Issuer.Name, props.Text{Size: 12, Style: fontstyle.Bold}),
				),
			),
		)
		if len(issuerLines) > 0 {
			m.AddAutoRow(
				col.New(12).Add(
					text.New(strings.Join(issuerLines, " | "), props.Text{Size: 8, Color: mutedText}),
				),
			)
		}
		m.AddRows(row.New(4))
	}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	dates := "Date: " + data.CreatedDate
	if data.ValidUntil != "" {
		dates += "   Valid until: " + data.ValidUntil
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New("Status: "+data.Status, props.Text{Size: 9, Align: align.Left, Color: mutedText}),
			),
			col.New(6).Add(
				text.New(dates, props.Text{Size: 9, Align: align.Right, Color: mutedText}),
			),
		),
	)

	if data.CustomerName != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New("Customer: "+data.CustomerName, props.Text{Size: 10, Style: fontstyle.Bold}),
				),
			),
		)
		if data.CustomerInfo != "" {
			m.AddAutoRow(
				col.New(12).Add(
					text.New(strings.ReplaceAll(data.CustomerInfo, "\n", " | "), props.Text{Size: 8, Color: mutedText}),
				),
			)
		}
	}

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the item table.
func addTableHeader(m core.Maroto, columns []pdfColumn) {
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		cols[i] = col.New(c.Size).Add(
			text.New(c.Header, props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: c.Align,
				Color: &props.Color{Red: 255, Green: 255, Blue: 255},
			}),
		).WithStyle(headerCell)
	}
	m.AddRows(row.New(8).Add(cols...))
}

// addTableRow adds a single item row. Internal exports colour the margin
// cells by band.
func addTableRow(m core.Maroto, columns []pdfColumn, r ExportRow, internal bool) {
	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		style := props.Text{Size: 7, Align: c.Align}
		if internal && strings.HasPrefix(c.Header, "Margin") {
			style.Color = bandColors[r.Band]
			style.Style = fontstyle.Bold
		}
		cols[i] = col.New(c.Size).Add(text.New(c.Value(r), style))
	}
	m.AddAutoRow(cols...)
}

// addSummary adds the totals, discount, shipping and grand total.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	line := func(label, value string) {
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	if data.Internal {
		line("Total Cost", FormatCurrency(data.Totals.TotalCost))
	}
	line("Subtotal", FormatCurrency(data.Grand.Subtotal))
	if data.Grand.DiscountAmount > 0 {
		label := "Discount"
		if data.Discount > 0 {
			label = fmt.Sprintf("Discount (%s)", FormatPercentage(data.Discount))
		}
		line(label, "-"+FormatCurrency(data.Grand.DiscountAmount))
	}
	if data.Grand.Shipping > 0 {
		line("Shipping", FormatCurrency(data.Grand.Shipping))
	}
	line("Total", FormatCurrency(data.Grand.Total))
	if data.Internal {
		line(fmt.Sprintf("Margin (%s)", FormatPercentage(data.Totals.ProfitPercentage)), FormatCurrency(data.Totals.ProfitMargin))
	}
}

// addFooter adds payment terms, notes and the generated-date line.
func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	small := props.Text{Size: 8, Align: align.Left}

	if data.PaymentTerm != "" {
		m.AddAutoRow(col.New(12).Add(text.New("Payment: "+data.PaymentTerm, small)))
	}
	if data.DeliveryTime != "" {
		m.AddAutoRow(col.New(12).Add(text.New("Delivery: "+data.DeliveryTime, small)))
	}
	if data.Notes != "" {
		m.AddAutoRow(col.New(12).Add(text.New(data.Notes, small)))
	}
	if data.Terms != "" {
		m.AddRows(row.New(3))
		m.AddAutoRow(col.New(12).Add(text.New(data.Terms, props.Text{Size: 7, Color: mutedText})))
	}

	m.AddRows(row.New(4))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get up to
// 3 decimal places in the pt-PT convention.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return FormatNumber(qty, 0)
	}
	return strings.TrimSuffix(strings.TrimRight(FormatNumber(qty, 3), "0"), ",")
}
