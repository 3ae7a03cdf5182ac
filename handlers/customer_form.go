package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/templates"
)

// customerForm is the posted customer form.
type customerForm struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	TaxID        string `json:"tax_id"`
	CompanyName  string `json:"company_name"`
	TradingName  string `json:"trading_name"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Website      string `json:"website"`
	Notes        string `json:"notes"`
	IsActive     bool   `json:"is_active"`
}

func parseCustomerForm(r *http.Request) customerForm {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	f := customerForm{
		Type:         v("type"),
		Name:         v("name"),
		Email:        v("email"),
		Phone:        v("phone"),
		Address:      v("address"),
		City:         v("city"),
		State:        v("state"),
		PostalCode:   v("postal_code"),
		TaxID:        v("tax_id"),
		CompanyName:  v("company_name"),
		TradingName:  v("trading_name"),
		ContactName:  v("contact_name"),
		ContactPhone: v("contact_phone"),
		ContactEmail: v("contact_email"),
		Website:      v("website"),
		Notes:        v("notes"),
		IsActive:     r.FormValue("is_active") == "true",
	}
	if f.Type == "" {
		f.Type = "individual"
	}
	return f
}

// Validate implements validation.Validatable.
func (f customerForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Type,
			validation.Required,
			validation.In("individual", "company").Error("must be individual or company")),
		validation.Field(&f.Name,
			validation.Required.Error("Name is required"),
			validation.Length(0, 255)),
		validation.Field(&f.Email, is.EmailFormat.Error("Enter a valid email address")),
		validation.Field(&f.ContactEmail, is.EmailFormat.Error("Enter a valid email address")),
		validation.Field(&f.CompanyName,
			validation.When(f.Type == "company", validation.Required.Error("Company name is required for companies"))),
		validation.Field(&f.Website, is.URL.Error("Enter a valid website address")),
	)
}

// fieldErrors flattens ozzo errors into the form error map.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if err == nil {
		return errors
	}
	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			errors[field] = ferr.Error()
		}
		return errors
	}
	errors["form"] = err.Error()
	return errors
}

func (f customerForm) apply(r *core.Record) {
	r.Set("type", f.Type)
	r.Set("name", f.Name)
	r.Set("email", f.Email)
	r.Set("phone", f.Phone)
	r.Set("address", f.Address)
	r.Set("city", f.City)
	r.Set("state", f.State)
	r.Set("postal_code", f.PostalCode)
	r.Set("tax_id", f.TaxID)
	r.Set("company_name", f.CompanyName)
	r.Set("trading_name", f.TradingName)
	r.Set("contact_name", f.ContactName)
	r.Set("contact_phone", f.ContactPhone)
	r.Set("contact_email", f.ContactEmail)
	r.Set("website", f.Website)
	r.Set("notes", f.Notes)
	r.Set("is_active", f.IsActive)
}

func customerFormFromRecord(r *core.Record) customerForm {
	return customerForm{
		Type:         r.GetString("type"),
		Name:         r.GetString("name"),
		Email:        r.GetString("email"),
		Phone:        r.GetString("phone"),
		Address:      r.GetString("address"),
		City:         r.GetString("city"),
		State:        r.GetString("state"),
		PostalCode:   r.GetString("postal_code"),
		TaxID:        r.GetString("tax_id"),
		CompanyName:  r.GetString("company_name"),
		TradingName:  r.GetString("trading_name"),
		ContactName:  r.GetString("contact_name"),
		ContactPhone: r.GetString("contact_phone"),
		ContactEmail: r.GetString("contact_email"),
		Website:      r.GetString("website"),
		Notes:        r.GetString("notes"),
		IsActive:     r.GetBool("is_active"),
	}
}

func (f customerForm) data(errors map[string]string) templates.CustomerFormData {
	return templates.CustomerFormData{
		Type:         f.Type,
		Name:         f.Name,
		Email:        f.Email,
		Phone:        f.Phone,
		Address:      f.Address,
		City:         f.City,
		State:        f.State,
		PostalCode:   f.PostalCode,
		TaxID:        f.TaxID,
		CompanyName:  f.CompanyName,
		TradingName:  f.TradingName,
		ContactName:  f.ContactName,
		ContactPhone: f.ContactPhone,
		ContactEmail: f.ContactEmail,
		Website:      f.Website,
		Notes:        f.Notes,
		IsActive:     f.IsActive,
		Errors:       errors,
	}
}
