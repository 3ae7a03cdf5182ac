package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
)

// Setup programmatically creates/ensures the users, customers, budgets,
// budget_items and budget_history collections exist.
func Setup(app core.App) {
	users := ensureUsers(app)

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    []string{"individual", "company"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "city"})
		c.Fields.Add(&core.TextField{Name: "state"})
		c.Fields.Add(&core.TextField{Name: "postal_code"})
		c.Fields.Add(&core.TextField{Name: "tax_id"})
		c.Fields.Add(&core.TextField{Name: "company_name"})
		c.Fields.Add(&core.TextField{Name: "trading_name"})
		c.Fields.Add(&core.TextField{Name: "contact_name"})
		c.Fields.Add(&core.TextField{Name: "contact_phone"})
		c.Fields.Add(&core.TextField{Name: "contact_email"})
		c.Fields.Add(&core.TextField{Name: "website"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	statuses := make([]string, len(services.BudgetStatuses))
	for i, s := range services.BudgetStatuses {
		statuses[i] = string(s)
	}

	budgets := ensureCollection(app, "budgets", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "budget_number", Required: true, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "revision", OnlyInt: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    statuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "validity_days", OnlyInt: true})
		c.Fields.Add(&core.SelectField{
			Name:      "payment_term",
			Values:    services.PaymentTerms,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "custom_payment_term"})
		c.Fields.Add(&core.TextField{Name: "delivery_time"})
		c.Fields.Add(&core.NumberField{Name: "shipping_cost"})
		c.Fields.Add(&core.NumberField{Name: "discount_percentage"})
		c.Fields.Add(&core.NumberField{Name: "discount_amount"})
		c.Fields.Add(&core.NumberField{Name: "total_cost"})
		c.Fields.Add(&core.NumberField{Name: "total_selling"})
		c.Fields.Add(&core.NumberField{Name: "profit_margin"})
		c.Fields.Add(&core.NumberField{Name: "profit_percentage"})
		c.Fields.Add(&core.NumberField{Name: "grand_total"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "internal_notes"})
		c.Fields.Add(&core.TextField{Name: "terms_and_conditions"})
		c.Fields.Add(&core.TextField{Name: "payment_conditions"})
		c.Fields.Add(&core.TextField{Name: "warranty_terms"})
		c.Fields.Add(&core.DateField{Name: "sent_at"})
		c.Fields.Add(&core.DateField{Name: "approved_at"})
		c.Fields.Add(&core.DateField{Name: "rejected_at"})
		c.Fields.Add(&core.TextField{Name: "rejection_reason"})
		c.Fields.Add(&core.RelationField{Name: "created_by", CollectionId: users.Id, MaxSelect: 1})
		c.Fields.Add(&core.RelationField{Name: "last_updated_by", CollectionId: users.Id, MaxSelect: 1})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	units := make([]string, len(services.UnitOptions))
	for i, o := range services.UnitOptions {
		units[i] = o.Value
	}

	ensureCollection(app, "budget_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "budget",
			Required:      true,
			CollectionId:  budgets.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sequence", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "reference"})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.SelectField{
			Name:      "unit",
			Values:    units,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "cost_price"})
		c.Fields.Add(&core.NumberField{Name: "selling_price"})
		c.Fields.Add(&core.NumberField{Name: "total_cost"})
		c.Fields.Add(&core.NumberField{Name: "total_selling"})
		c.Fields.Add(&core.NumberField{Name: "profit_margin"})
		c.Fields.Add(&core.NumberField{Name: "profit_percentage"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "budget_history", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "budget",
			Required:      true,
			CollectionId:  budgets.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "action", Required: true})
		c.Fields.Add(&core.TextField{Name: "status"})
		c.Fields.Add(&core.RelationField{Name: "user", CollectionId: users.Id, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.JSONField{Name: "changes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureUsers returns the users auth collection, creating it when the
// database was bootstrapped without one.
func ensureUsers(app core.App) *core.Collection {
	existing, err := app.FindCollectionByNameOrId("users")
	if err == nil && existing != nil {
		return existing
	}

	collection := core.NewAuthCollection("users")
	collection.Fields.Add(&core.TextField{Name: "name"})

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", "users", err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", "users", collection.Id)
	return collection
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
