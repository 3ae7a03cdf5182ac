package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
)

// HandleCustomerDelete returns a handler that deletes a customer. Customers
// that still have budgets are kept.
// Route: DELETE /customers/{id}
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := app.FindRecordById("customers", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}

		count, err := services.CountBudgetsForCustomer(app, id)
		if err != nil {
			log.Printf("customer_delete: could not count budgets of %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if count > 0 {
			return ErrorToast(e, http.StatusConflict,
				fmt.Sprintf("%s has %d budget(s) and cannot be deleted", displayName(rec), count))
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("customer_delete: could not delete customer %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete the customer")
		}

		SetToast(e, ToastSuccess, "Customer deleted")
		if e.Request.Header.Get("HX-Target") == "customer-"+id {
			return e.String(http.StatusOK, "")
		}
		return redirect(e, "/customers")
	}
}
