package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"budgetdesk/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type customerDef struct {
	kind        string
	name        string
	companyName string
	email       string
	phone       string
	address     string
	city        string
	postalCode  string
	taxID       string
	contactName string
}

type itemDef struct {
	reference    string
	description  string
	unit         services.Unit
	quantity     float64
	costPrice    float64
	sellingPrice float64
}

type budgetDef struct {
	customer       int // index into seedCustomers
	status         services.BudgetStatus
	paymentTerm    string
	validityDays   int
	deliveryTime   string
	discountPct    float64
	shippingCost   float64
	notes          string
	rejectionNotes string
	items          []itemDef
}

var seedCustomers = []customerDef{
	{
		kind: "company", name: "Rui Almeida", companyName: "Construções Almeida Lda",
		email: "obras@almeida.pt", phone: "+351 212 345 678",
		address: "Rua das Flores 12", city: "Lisboa", postalCode: "1200-195",
		taxID: "PT503123456", contactName: "Rui Almeida",
	},
	{
		kind: "individual", name: "Maria Silva",
		email: "maria.silva@example.pt", phone: "+351 912 345 678",
		address: "Av. da Boavista 800", city: "Porto", postalCode: "4100-112",
	},
	{
		kind: "company", name: "Ana Costa", companyName: "Hotel Atlântico SA",
		email: "compras@hotelatlantico.pt", phone: "+351 289 000 111",
		address: "Estrada da Praia 3", city: "Faro", postalCode: "8000-001",
		taxID: "PT509876543", contactName: "Ana Costa",
	},
}

var seedBudgets = []budgetDef{
	{
		customer: 0, status: services.StatusApproved, paymentTerm: "30_days", validityDays: 30,
		deliveryTime: "3 weeks", discountPct: 5, shippingCost: 45,
		notes: "Materials delivered to site.",
		items: []itemDef{
			{"CAB-2.5", "Copper cable 2.5mm²", services.UnitMeter, 250, 0.62, 0.95},
			{"TOM-SCH", "Schuko socket, white", services.UnitEach, 40, 3.10, 5.40},
			{"QDE-12", "Distribution board, 12 modules", services.UnitEach, 2, 38.00, 59.00},
			{"MO-ELE", "Electrician labour", services.UnitHour, 32, 18.00, 28.00},
		},
	},
	{
		customer: 1, status: services.StatusSent, paymentTerm: "immediate", validityDays: 15,
		deliveryTime: "1 week",
		items: []itemDef{
			{"TIN-BR", "Interior paint, white, 15L", services.UnitLiter, 45, 2.80, 3.60},
			{"PAV-CER", "Ceramic floor tile 60x60", services.UnitSquareMeter, 38, 14.50, 16.00},
			{"MO-PIN", "Painter labour", services.UnitHour, 24, 15.00, 15.00},
		},
	},
	{
		customer: 2, status: services.StatusDraft, paymentTerm: "45_days", validityDays: 30,
		shippingCost: 120,
		items: []itemDef{
			{"AC-12K", "Split air conditioner 12000 BTU", services.UnitEach, 12, 410.00, 640.00},
			{"TUB-CU", "Copper pipe kit", services.UnitMeter, 60, 9.20, 11.50},
			{"BET-C25", "Concrete C25/30", services.UnitCubicMeter, 1.5, 85.00, 78.00},
		},
	},
	{
		customer: 1, status: services.StatusRejected, paymentTerm: "immediate", validityDays: 15,
		rejectionNotes: "Found a cheaper supplier.",
		items: []itemDef{
			{"GRD-INOX", "Stainless steel railing", services.UnitMeter, 8, 95.00, 150.00},
			{"FIX-KIT", "Anchor bolts", services.UnitKilogram, 2, 6.00, 9.50},
		},
	},
}

// Seed populates the customers and budgets collections with demo data. It
// is safe to call on every startup because it returns early if any
// customer records already exist.
func Seed(app core.App) error {
	// ── idempotency: skip if customers already exist ────────────────
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	existing, err := app.FindAllRecords(customersCol)
	if err != nil {
		return fmt.Errorf("seed: could not query customers: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: customers collection is empty – inserting seed data …")

	budgetsCol, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		return fmt.Errorf("seed: could not find budgets collection: %w", err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		customerIDs := make([]string, len(seedCustomers))
		for i, d := range seedCustomers {
			r := core.NewRecord(customersCol)
			r.Set("type", d.kind)
			r.Set("name", d.name)
			r.Set("company_name", d.companyName)
			r.Set("email", d.email)
			r.Set("phone", d.phone)
			r.Set("address", d.address)
			r.Set("city", d.city)
			r.Set("postal_code", d.postalCode)
			r.Set("tax_id", d.taxID)
			r.Set("contact_name", d.contactName)
			r.Set("is_active", true)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: customer %q: %w", d.name, err)
			}
			customerIDs[i] = r.Id
		}

		for i, d := range seedBudgets {
			items := make([]services.LineItem, len(d.items))
			for j, it := range d.items {
				items[j] = services.CalcLineItem(services.ItemInput{
					Reference:    it.reference,
					Description:  it.description,
					Unit:         string(it.unit),
					Quantity:     it.quantity,
					CostPrice:    it.costPrice,
					SellingPrice: it.sellingPrice,
				})
			}

			b := core.NewRecord(budgetsCol)
			b.Set("customer", customerIDs[d.customer])
			b.Set("budget_number", i+1)
			b.Set("revision", 1)
			b.Set("status", string(d.status))
			b.Set("payment_term", d.paymentTerm)
			b.Set("validity_days", d.validityDays)
			b.Set("delivery_time", d.deliveryTime)
			b.Set("discount_percentage", d.discountPct)
			b.Set("shipping_cost", d.shippingCost)
			b.Set("notes", d.notes)
			if field := services.StatusTimestampField(d.status); field != "" {
				b.Set(field, types.NowDateTime())
			}
			if d.status == services.StatusRejected {
				b.Set("rejection_reason", d.rejectionNotes)
			}
			services.SetBudgetTotals(b, items)
			if err := txApp.Save(b); err != nil {
				return fmt.Errorf("seed: budget %d: %w", i+1, err)
			}
			if err := services.ReplaceBudgetItems(txApp, b.Id, items); err != nil {
				return fmt.Errorf("seed: items of budget %d: %w", i+1, err)
			}
			if err := services.AddBudgetHistory(txApp, b.Id, "created", d.status, "", "seed data", nil); err != nil {
				return fmt.Errorf("seed: history of budget %d: %w", i+1, err)
			}
		}

		log.Printf("seed: inserted %d customers and %d budgets.\n", len(seedCustomers), len(seedBudgets))
		return nil
	})
}

// EnsureAdminUser creates the first login when the users collection is
// empty. An empty password disables it.
func EnsureAdminUser(app core.App, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	usersCol, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return fmt.Errorf("seed: could not find users collection: %w", err)
	}
	total, err := app.CountRecords(usersCol)
	if err != nil {
		return fmt.Errorf("seed: could not count users: %w", err)
	}
	if total > 0 {
		return nil
	}

	u := core.NewRecord(usersCol)
	u.SetEmail(email)
	u.SetPassword(password)
	u.SetVerified(true)
	if err := app.Save(u); err != nil {
		return fmt.Errorf("seed: create user %s: %w", email, err)
	}
	log.Printf("seed: created user %s\n", email)
	return nil
}
