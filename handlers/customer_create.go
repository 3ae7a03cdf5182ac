package handlers

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
	"budgetdesk/templates"
)

// displayName is the name shown for a customer in lists and selects.
func displayName(c *core.Record) string {
	return services.CustomerDisplayName(c)
}

// HandleCustomerCreate returns a handler that renders an empty customer form.
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := customerForm{Type: "individual", IsActive: true}.data(make(map[string]string))

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.CustomerFormContent(data)
		} else {
			component = templates.CustomerFormPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleCustomerSave returns a handler that validates and stores a new
// customer.
func HandleCustomerSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("customer_create: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		form := parseCustomerForm(e.Request)
		if err := form.Validate(); err != nil {
			data := form.data(fieldErrors(err))
			return templates.CustomerFormPage(data, GetHeaderData(e.Request)).Render(e.Request.Context(), e.Response)
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customer_create: could not find customers collection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		rec := core.NewRecord(col)
		form.apply(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_create: could not save customer: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the customer")
		}

		SetToast(e, ToastSuccess, "Customer created")
		redirectURL := "/customers/" + rec.Id
		return redirect(e, redirectURL)
	}
}
