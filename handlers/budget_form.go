package handlers

import (
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/config"
	"budgetdesk/services"
	"budgetdesk/templates"
)

var itemFieldPattern = regexp.MustCompile(`^items\[(\d+)\]\.([a-z_]+)$`)

// rawItemRow is one item row exactly as the browser posted it.
type rawItemRow struct {
	Index        int
	ID           string
	Reference    string
	Description  string
	Unit         string
	Quantity     string
	CostPrice    string
	SellingPrice string
}

func (r rawItemRow) isBlank() bool {
	return strings.TrimSpace(r.Reference) == "" &&
		strings.TrimSpace(r.Description) == "" &&
		strings.TrimSpace(r.CostPrice) == "" &&
		strings.TrimSpace(r.SellingPrice) == ""
}

// item prices the row. An unknown unit falls back to the default.
func (r rawItemRow) item() services.LineItem {
	unit, _ := services.ParseUnit(r.Unit)
	return services.CalcLineItem(services.ItemInput{
		ID:           r.ID,
		Reference:    strings.TrimSpace(r.Reference),
		Description:  strings.TrimSpace(r.Description),
		Unit:         string(unit),
		Quantity:     services.ParseInputNumber(r.Quantity),
		CostPrice:    services.ParseInputNumber(r.CostPrice),
		SellingPrice: services.ParseInputNumber(r.SellingPrice),
	})
}

// parseItemRows collects the items[N].field values of a parsed form in
// ascending index order. Blank rows are dropped.
func parseItemRows(r *http.Request) []rawItemRow {
	rows := make(map[int]*rawItemRow)
	for key, values := range r.Form {
		m := itemFieldPattern.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := rows[idx]
		if !ok {
			row = &rawItemRow{Index: idx}
			rows[idx] = row
		}
		setRawField(row, m[2], values[0])
	}

	indices := make([]int, 0, len(rows))
	for idx := range rows {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]rawItemRow, 0, len(indices))
	for _, idx := range indices {
		if rows[idx].isBlank() {
			continue
		}
		out = append(out, *rows[idx])
	}
	return out
}

func setRawField(row *rawItemRow, field, value string) {
	switch field {
	case "id":
		row.ID = value
	case "reference":
		row.Reference = value
	case "description":
		row.Description = value
	case "unit":
		row.Unit = value
	case "quantity":
		row.Quantity = value
	case "cost_price":
		row.CostPrice = value
	case "selling_price":
		row.SellingPrice = value
	}
}

// rawRowAt reads a single row, whatever its content.
func rawRowAt(r *http.Request, index int) rawItemRow {
	row := rawItemRow{Index: index}
	for _, f := range []string{"id", "reference", "description", "unit", "quantity", "cost_price", "selling_price"} {
		setRawField(&row, f, r.FormValue(templates.ItemFieldName(index, f)))
	}
	return row
}

// inputNumber renders a stored number for an input box.
func inputNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// itemRowData builds the view model of a priced item. raw keeps what the
// user typed; pass nil to show the item's own values.
func itemRowData(index int, item services.LineItem, raw *rawItemRow) templates.ItemRowData {
	diags := services.ValidateLineItem(item)
	row := templates.ItemRowData{
		Index:            index,
		ID:               item.ID,
		Reference:        item.Reference,
		Description:      item.Description,
		Unit:             string(item.Unit),
		Quantity:         inputNumber(item.Quantity),
		CostPrice:        inputNumber(item.CostPrice),
		SellingPrice:     inputNumber(item.SellingPrice),
		TotalCost:        services.FormatCurrency(item.TotalCost),
		TotalSelling:     services.FormatCurrency(item.TotalSelling),
		ProfitMargin:     services.FormatCurrency(item.ProfitMargin),
		ProfitPercentage: services.FormatPercentage(item.ProfitPercentage),
		Band:             services.ClassifyMargin(item.ProfitPercentage),
		Diagnostics:      diags,
		WarningOnly:      services.IsWarningOnly(diags),
	}
	if raw != nil {
		row.Reference = raw.Reference
		row.Description = raw.Description
		row.Quantity = raw.Quantity
		row.CostPrice = raw.CostPrice
		row.SellingPrice = raw.SellingPrice
	}
	return row
}

// totalsData formats the totals panel of a list of items.
func totalsData(items []services.LineItem, discountPct, discountAmount, shipping float64) templates.TotalsData {
	totals := services.CalcQuotationTotals(items)
	grand := services.CalcGrandTotal(totals.TotalSelling, discountPct, discountAmount, shipping)
	data := templates.TotalsData{
		ItemCount:        totals.ItemCount,
		TotalCost:        services.FormatCurrency(totals.TotalCost),
		TotalSelling:     services.FormatCurrency(totals.TotalSelling),
		ProfitMargin:     services.FormatCurrency(totals.ProfitMargin),
		ProfitPercentage: services.FormatPercentage(totals.ProfitPercentage),
		AveragePerItem:   services.FormatCurrency(services.AveragePerItem(totals.TotalSelling, totals.ItemCount)),
		Band:             services.ClassifyMargin(totals.ProfitPercentage),
		GrandTotal:       services.FormatCurrency(grand.Total),
	}
	if grand.DiscountAmount > 0 {
		data.Discount = services.FormatCurrency(grand.DiscountAmount)
	}
	if grand.Shipping > 0 {
		data.Shipping = services.FormatCurrency(grand.Shipping)
	}
	return data
}

// budgetTotalsData formats the totals panel of a stored budget.
func budgetTotalsData(budget *core.Record, items []services.LineItem) templates.TotalsData {
	return totalsData(items,
		budget.GetFloat("discount_percentage"),
		budget.GetFloat("discount_amount"),
		budget.GetFloat("shipping_cost"))
}

// budgetHeader holds the non-item fields of the budget form.
type budgetHeader struct {
	CustomerID        string
	ValidityDays      string
	PaymentTerm       string
	CustomPaymentTerm string
	DeliveryTime      string
	ShippingCost      string
	DiscountPercent   string
	DiscountAmount    string
	TargetMargin      string
	Notes             string
	InternalNotes     string
	Terms             string
	PaymentConditions string
	WarrantyTerms     string
}

func parseBudgetHeader(r *http.Request) budgetHeader {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	return budgetHeader{
		CustomerID:        v("customer"),
		ValidityDays:      v("validity_days"),
		PaymentTerm:       v("payment_term"),
		CustomPaymentTerm: v("custom_payment_term"),
		DeliveryTime:      v("delivery_time"),
		ShippingCost:      v("shipping_cost"),
		DiscountPercent:   v("discount_percentage"),
		DiscountAmount:    v("discount_amount"),
		TargetMargin:      v("target_margin"),
		Notes:             v("notes"),
		InternalNotes:     v("internal_notes"),
		Terms:             v("terms_and_conditions"),
		PaymentConditions: v("payment_conditions"),
		WarrantyTerms:     v("warranty_terms"),
	}
}

func headerFromRecord(b *core.Record, cfg *config.Config) budgetHeader {
	return budgetHeader{
		CustomerID:        b.GetString("customer"),
		ValidityDays:      strconv.Itoa(b.GetInt("validity_days")),
		PaymentTerm:       b.GetString("payment_term"),
		CustomPaymentTerm: b.GetString("custom_payment_term"),
		DeliveryTime:      b.GetString("delivery_time"),
		ShippingCost:      inputNumber(b.GetFloat("shipping_cost")),
		DiscountPercent:   inputNumber(b.GetFloat("discount_percentage")),
		DiscountAmount:    inputNumber(b.GetFloat("discount_amount")),
		TargetMargin:      inputNumber(cfg.Pricing.DefaultTargetMargin),
		Notes:             b.GetString("notes"),
		InternalNotes:     b.GetString("internal_notes"),
		Terms:             b.GetString("terms_and_conditions"),
		PaymentConditions: b.GetString("payment_conditions"),
		WarrantyTerms:     b.GetString("warranty_terms"),
	}
}

func defaultHeader(cfg *config.Config) budgetHeader {
	return budgetHeader{
		ValidityDays: strconv.Itoa(cfg.Budget.DefaultValidityDays),
		PaymentTerm:  cfg.Budget.DefaultPaymentTerm,
		TargetMargin: inputNumber(cfg.Pricing.DefaultTargetMargin),
		Terms:        cfg.Budget.DefaultTerms,
	}
}

// validate checks the header fields and returns per-field messages.
func (h budgetHeader) validate(app core.App) map[string]string {
	errors := make(map[string]string)
	if h.CustomerID == "" {
		errors["customer"] = "Customer is required"
	} else if _, err := app.FindRecordById("customers", h.CustomerID); err != nil {
		errors["customer"] = "Customer not found"
	}
	if h.ValidityDays != "" {
		if n, err := strconv.Atoi(h.ValidityDays); err != nil || n < 0 {
			errors["validity_days"] = "Validity must be a whole number of days"
		}
	}
	valid := false
	for _, t := range services.PaymentTerms {
		if t == h.PaymentTerm {
			valid = true
		}
	}
	if !valid {
		errors["payment_term"] = "Choose a payment term"
	}
	if h.PaymentTerm == "custom" && h.CustomPaymentTerm == "" {
		errors["custom_payment_term"] = "Describe the custom payment term"
	}
	if pct := services.ParseInputNumber(h.DiscountPercent); pct < 0 || pct > 100 {
		errors["discount_percentage"] = "Discount must be between 0 and 100"
	}
	if services.ParseInputNumber(h.DiscountAmount) < 0 {
		errors["discount_amount"] = "Discount cannot be negative"
	}
	if services.ParseInputNumber(h.ShippingCost) < 0 {
		errors["shipping_cost"] = "Shipping cannot be negative"
	}
	return errors
}

// apply writes the header fields onto a budgets record.
func (h budgetHeader) apply(b *core.Record) {
	days, _ := strconv.Atoi(h.ValidityDays)
	b.Set("customer", h.CustomerID)
	b.Set("validity_days", days)
	b.Set("payment_term", h.PaymentTerm)
	b.Set("custom_payment_term", h.CustomPaymentTerm)
	b.Set("delivery_time", h.DeliveryTime)
	b.Set("shipping_cost", services.ParseInputNumber(h.ShippingCost))
	b.Set("discount_percentage", services.ParseInputNumber(h.DiscountPercent))
	b.Set("discount_amount", services.ParseInputNumber(h.DiscountAmount))
	b.Set("notes", h.Notes)
	b.Set("internal_notes", h.InternalNotes)
	b.Set("terms_and_conditions", h.Terms)
	b.Set("payment_conditions", h.PaymentConditions)
	b.Set("warranty_terms", h.WarrantyTerms)
}

// pricedRows prices every posted row and reports whether any row has a
// blocking diagnostic.
func pricedRows(raws []rawItemRow) ([]services.LineItem, []templates.ItemRowData, bool) {
	items := make([]services.LineItem, len(raws))
	rows := make([]templates.ItemRowData, len(raws))
	blocked := false
	for i := range raws {
		items[i] = raws[i].item()
		rows[i] = itemRowData(raws[i].Index, items[i], &raws[i])
		if !rows[i].WarningOnly {
			blocked = true
		}
	}
	return items, rows, blocked
}

// customerOptions lists customers for the budget form select.
func customerOptions(app core.App) []services.Option {
	records, err := app.FindRecordsByFilter("customers", "id != ''", "name", 0, 0)
	if err != nil {
		return nil
	}
	opts := make([]services.Option, len(records))
	for i, c := range records {
		opts[i] = services.Option{Value: c.Id, Label: services.CustomerDisplayName(c)}
	}
	return opts
}

func budgetFormData(app core.App, h budgetHeader, rows []templates.ItemRowData, items []services.LineItem, errors map[string]string) templates.BudgetFormData {
	return templates.BudgetFormData{
		CustomerID:        h.CustomerID,
		Customers:         customerOptions(app),
		ValidityDays:      h.ValidityDays,
		PaymentTerm:       h.PaymentTerm,
		CustomPaymentTerm: h.CustomPaymentTerm,
		DeliveryTime:      h.DeliveryTime,
		ShippingCost:      h.ShippingCost,
		DiscountPercent:   h.DiscountPercent,
		DiscountAmount:    h.DiscountAmount,
		TargetMargin:      h.TargetMargin,
		Notes:             h.Notes,
		InternalNotes:     h.InternalNotes,
		Terms:             h.Terms,
		PaymentConditions: h.PaymentConditions,
		WarrantyTerms:     h.WarrantyTerms,
		Rows:              rows,
		Totals: totalsData(items,
			services.ParseInputNumber(h.DiscountPercent),
			services.ParseInputNumber(h.DiscountAmount),
			services.ParseInputNumber(h.ShippingCost)),
		Errors: errors,
	}
}

// budgetNumberLabel formats the number of a budgets record.
func budgetNumberLabel(b *core.Record) string {
	return services.FormatBudgetNumber(b.GetInt("budget_number"), b.GetInt("revision"))
}

// validateItems adds the item-level form errors.
func validateItems(raws []rawItemRow, blocked bool, errors map[string]string) {
	if len(raws) == 0 {
		errors["items"] = "Add at least one item"
	} else if blocked {
		errors["items"] = "Fix the highlighted items before saving"
	}
}
