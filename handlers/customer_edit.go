package handlers

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/templates"
)

// HandleCustomerEdit returns a handler that renders the edit form of a
// customer.
func HandleCustomerEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := app.FindRecordById("customers", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}

		data := customerFormFromRecord(rec).data(make(map[string]string))
		data.ID = id
		data.IsEdit = true

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.CustomerFormContent(data)
		} else {
			component = templates.CustomerFormPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleCustomerUpdate returns a handler that validates and saves an edited
// customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := app.FindRecordById("customers", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			log.Printf("customer_edit: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		form := parseCustomerForm(e.Request)
		if err := form.Validate(); err != nil {
			data := form.data(fieldErrors(err))
			data.ID = id
			data.IsEdit = true
			return templates.CustomerFormPage(data, GetHeaderData(e.Request)).Render(e.Request.Context(), e.Response)
		}

		form.apply(rec)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_edit: could not save customer %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the customer")
		}

		SetToast(e, ToastSuccess, "Customer updated")
		redirectURL := "/customers/" + id
		return redirect(e, redirectURL)
	}
}
