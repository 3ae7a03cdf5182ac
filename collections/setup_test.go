package collections_test

import (
	"testing"

	"budgetdesk/collections"
	"budgetdesk/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"users",
	"customers",
	"budgets",
	"budget_items",
	"budget_history",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_UsersIsAuth(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("users")
	if !col.IsAuth() {
		t.Error("users should be an auth collection")
	}
}

func TestSetup_CustomersFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("customers")

	fields := []string{"type", "name", "email", "phone", "address", "city", "state", "postal_code",
		"tax_id", "company_name", "trading_name", "contact_name", "contact_phone", "contact_email",
		"website", "notes", "is_active", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("customers: missing field %q", f)
		}
	}

	if sf, ok := col.Fields.GetByName("type").(*core.SelectField); ok {
		if len(sf.Values) != 2 {
			t.Errorf("customers.type values = %v", sf.Values)
		}
	} else {
		t.Error("customers.type is not a SelectField")
	}
}

func TestSetup_BudgetsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("budgets")

	fields := []string{"customer", "budget_number", "revision", "status", "validity_days", "payment_term",
		"shipping_cost", "discount_percentage", "discount_amount", "total_cost", "total_selling",
		"profit_margin", "profit_percentage", "grand_total", "sent_at", "approved_at", "rejected_at",
		"rejection_reason", "created_by", "last_updated_by", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("budgets: missing field %q", f)
		}
	}

	if sf, ok := col.Fields.GetByName("status").(*core.SelectField); ok {
		expected := map[string]bool{"draft": true, "sent": true, "approved": true, "rejected": true, "cancelled": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected status value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing status value: %q", v)
		}
	} else {
		t.Error("status field is not a SelectField")
	}

	if rf, ok := col.Fields.GetByName("customer").(*core.RelationField); ok {
		if rf.CascadeDelete {
			t.Error("budgets.customer must not cascade")
		}
	} else {
		t.Error("budgets.customer is not a RelationField")
	}
}

func TestSetup_BudgetItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("budget_items")

	fields := []string{"budget", "sequence", "reference", "description", "unit", "quantity", "cost_price",
		"selling_price", "total_cost", "total_selling", "profit_margin", "profit_percentage"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("budget_items: missing field %q", f)
		}
	}

	if rf, ok := col.Fields.GetByName("budget").(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("budget_items.budget: expected CascadeDelete=true")
		}
	} else {
		t.Error("budget_items.budget is not a RelationField")
	}

	if sf, ok := col.Fields.GetByName("unit").(*core.SelectField); ok {
		if len(sf.Values) != 7 {
			t.Errorf("budget_items.unit values = %v", sf.Values)
		}
	} else {
		t.Error("budget_items.unit is not a SelectField")
	}
}

func TestSetup_BudgetCascadeDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Cascade Customer")
	budget := testhelpers.CreateTestBudget(t, app, customer.Id,
		testhelpers.TestItem("A", 1, 10, 12),
		testhelpers.TestItem("B", 2, 5, 8),
	)

	if err := app.Delete(budget); err != nil {
		t.Fatalf("delete budget: %v", err)
	}

	items, err := app.FindAllRecords("budget_items")
	if err != nil {
		t.Fatalf("query items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected items to be cascade deleted, got %d", len(items))
	}
}
