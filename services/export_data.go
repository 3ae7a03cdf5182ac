package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// Issuer is the company printed at the top of exported quotations.
type Issuer struct {
	Name    string
	TaxID   string
	Address string
	Email   string
	Phone   string
}

// ExportRow is one line item as written to an export.
type ExportRow struct {
	Index            string
	Reference        string
	Description      string
	Unit             string
	Quantity         float64
	CostPrice        float64
	SellingPrice     float64
	TotalCost        float64
	TotalSelling     float64
	ProfitMargin     float64
	ProfitPercentage float64
	Band             MarginBand
}

// ExportData holds all data needed for an XLSX or PDF export of a budget.
// Internal exports include cost and margin columns; customer exports only
// show selling prices.
type ExportData struct {
	Issuer       Issuer
	Title        string
	BudgetNumber string
	Status       string
	CustomerName string
	CustomerInfo string // formatted multi-line
	CreatedDate  string
	ValidUntil   string
	PaymentTerm  string
	DeliveryTime string
	Notes        string
	Terms        string

	Internal bool
	Rows     []ExportRow
	Totals   QuotationTotals
	Grand    GrandTotal
	Discount float64 // percent
}

// NewExportRows converts priced items into export rows numbered from 1.
func NewExportRows(items []LineItem) []ExportRow {
	rows := make([]ExportRow, len(items))
	for i, it := range items {
		it = RecalcLineItem(it)
		rows[i] = ExportRow{
			Index:            fmt.Sprintf("%d", i+1),
			Reference:        it.Reference,
			Description:      it.Description,
			Unit:             UnitLabel(it.Unit),
			Quantity:         it.Quantity,
			CostPrice:        it.CostPrice,
			SellingPrice:     it.SellingPrice,
			TotalCost:        it.TotalCost,
			TotalSelling:     it.TotalSelling,
			ProfitMargin:     it.ProfitMargin,
			ProfitPercentage: it.ProfitPercentage,
			Band:             ClassifyMargin(it.ProfitPercentage),
		}
	}
	return rows
}

// BuildBudgetExportData assembles everything an export needs from the
// budget, its customer and its items.
func BuildBudgetExportData(app core.App, budgetID string, issuer Issuer, internal bool) (*ExportData, error) {
	budget, err := app.FindRecordById("budgets", budgetID)
	if err != nil {
		return nil, fmt.Errorf("budget not found: %w", err)
	}

	items, _, err := LoadBudgetItems(app, budgetID)
	if err != nil {
		return nil, err
	}

	number := FormatBudgetNumber(budget.GetInt("budget_number"), budget.GetInt("revision"))
	created := budget.GetDateTime("created").Time()
	if created.IsZero() {
		created = time.Now()
	}

	data := &ExportData{
		Issuer:       issuer,
		Title:        "Budget " + number,
		BudgetNumber: number,
		Status:       StatusLabel(BudgetStatus(budget.GetString("status"))),
		CreatedDate:  created.Format("02/01/2006"),
		PaymentTerm:  PaymentTermLabel(budget.GetString("payment_term")),
		DeliveryTime: budget.GetString("delivery_time"),
		Notes:        budget.GetString("notes"),
		Terms:        budget.GetString("terms_and_conditions"),
		Internal:     internal,
		Rows:         NewExportRows(items),
		Totals:       CalcQuotationTotals(items),
		Discount:     budget.GetFloat("discount_percentage"),
	}
	if custom := budget.GetString("custom_payment_term"); budget.GetString("payment_term") == "custom" && custom != "" {
		data.PaymentTerm = custom
	}
	if days := budget.GetInt("validity_days"); days > 0 {
		data.ValidUntil = created.AddDate(0, 0, days).Format("02/01/2006")
	}
	data.Grand = CalcGrandTotal(
		data.Totals.TotalSelling,
		data.Discount,
		budget.GetFloat("discount_amount"),
		budget.GetFloat("shipping_cost"),
	)

	if customerID := budget.GetString("customer"); customerID != "" {
		c, err := app.FindRecordById("customers", customerID)
		if err != nil {
			log.Printf("budget_export: could not find customer %s: %v", customerID, err)
		} else {
			data.CustomerName = CustomerDisplayName(c)
			data.CustomerInfo = customerInfoLines(c)
		}
	}

	return data, nil
}

// CustomerDisplayName prefers the company name for companies.
func CustomerDisplayName(c *core.Record) string {
	if c.GetString("type") == "company" {
		if name := c.GetString("company_name"); name != "" {
			return name
		}
	}
	return c.GetString("name")
}

func customerInfoLines(c *core.Record) string {
	var lines []string
	if addr := c.GetString("address"); addr != "" {
		lines = append(lines, addr)
	}
	var cityParts []string
	for _, k := range []string{"postal_code", "city", "state"} {
		if v := c.GetString(k); v != "" {
			cityParts = append(cityParts, v)
		}
	}
	if len(cityParts) > 0 {
		lines = append(lines, strings.Join(cityParts, " "))
	}
	if tax := c.GetString("tax_id"); tax != "" {
		lines = append(lines, "Tax ID: "+tax)
	}
	if email := c.GetString("email"); email != "" {
		lines = append(lines, email)
	}
	if phone := c.GetString("phone"); phone != "" {
		lines = append(lines, phone)
	}
	return strings.Join(lines, "\n")
}
