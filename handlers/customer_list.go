package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/templates"
)

// budgetCounts counts the budgets of every customer.
func budgetCounts(app core.App) map[string]int {
	var rows []struct {
		Customer string `db:"customer"`
		Count    int    `db:"count"`
	}
	counts := make(map[string]int)
	err := app.DB().
		Select("customer", "COUNT(*) AS count").
		From("budgets").
		GroupBy("customer").
		All(&rows)
	if err != nil {
		log.Printf("customer_list: could not count budgets: %v", err)
		return counts
	}
	for _, r := range rows {
		counts[r.Customer] = r.Count
	}
	return counts
}

// HandleCustomerList returns a handler that renders the customer list,
// searchable by name, email or tax id and filterable by type.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := strings.TrimSpace(e.Request.URL.Query().Get("q"))
		customerType := strings.TrimSpace(e.Request.URL.Query().Get("type"))

		filter := "id != ''"
		params := dbx.Params{}
		if query != "" {
			filter += " && (name ~ {:q} || company_name ~ {:q} || email ~ {:q} || tax_id ~ {:q})"
			params["q"] = query
		}
		if customerType != "" {
			filter += " && type = {:type}"
			params["type"] = customerType
		}

		records, err := app.FindRecordsByFilter("customers", filter, "name", 0, 0, params)
		if err != nil {
			log.Printf("customer_list: could not query customers: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		counts := budgetCounts(app)
		var items []templates.CustomerListItem
		for _, c := range records {
			items = append(items, templates.CustomerListItem{
				ID:          c.Id,
				Name:        displayName(c),
				Type:        c.GetString("type"),
				Email:       c.GetString("email"),
				Phone:       c.GetString("phone"),
				TaxID:       c.GetString("tax_id"),
				City:        c.GetString("city"),
				BudgetCount: counts[c.Id],
				IsActive:    c.GetBool("is_active"),
			})
		}

		data := templates.CustomerListData{Items: items, Query: query, Type: customerType}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.CustomerListContent(data)
		} else {
			component = templates.CustomerListPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
