package specification

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fastygo/salescore/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Code: "WID-1", Active: true, UsesInventory: true, Stock: 10, MinimumStock: 3},
		{ID: "p2", Code: "WID-2", Active: false, UsesInventory: true, Stock: 0, MinimumStock: 1},
		{ID: "p3", Code: "SRV-1", Active: true, UsesInventory: false, Stock: 0, MinimumStock: 0},
		{ID: "p4", Code: "WID-3", Active: true, UsesInventory: true, Stock: 2, MinimumStock: 5},
	}
}

// Both evaluation forms of a specification must agree on every entity:
// direct IsSatisfiedBy, and interpretation of the predicate tree.
func assertFormsAgree(t *testing.T, name string, spec Specification[domain.Product]) {
	t.Helper()
	pred := spec.Predicate()
	for _, p := range sampleProducts() {
		direct := spec.IsSatisfiedBy(p)
		interpreted := EvalPredicate(pred, ProductFields, p)
		if direct != interpreted {
			t.Errorf("%s: forms disagree on %s (direct=%v, predicate=%v)", name, p.ID, direct, interpreted)
		}
	}
}

func TestSpecificationForms_Agree(t *testing.T) {
	cases := map[string]Specification[domain.Product]{
		"active":            ProductIsActive(),
		"tracked":           ProductTracksInventory(),
		"low":               ProductStockAtMost(2),
		"code":              ProductCodeIs("WID-2"),
		"and":               And(ProductIsActive(), ProductTracksInventory()),
		"or":                Or(ProductCodeIs("SRV-1"), ProductStockAtMost(0)),
		"not":               Not(ProductIsActive()),
		"nested":            And(Not(ProductCodeIs("WID-1")), Or(ProductIsActive(), ProductStockAtMost(0))),
		"unknown_field_lt":  Field("no_such_field", func(domain.Product) interface{} { return nil }).Lt(1),
		"unknown_field_neq": Field("no_such_field", func(domain.Product) interface{} { return nil }).Neq(1),
	}
	for name, spec := range cases {
		assertFormsAgree(t, name, spec)
	}
}

func TestCombinators_TruthTables(t *testing.T) {
	products := sampleProducts()

	got := Filter(products, And(ProductIsActive(), ProductTracksInventory()))
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p4" {
		t.Errorf("and: expected [p1 p4], got %v", ids(got))
	}

	got = Filter(products, Or(ProductIsActive(), ProductStockAtMost(0)))
	if len(got) != 4 {
		t.Errorf("or: expected all, got %v", ids(got))
	}

	got = Filter(products, Not(ProductTracksInventory()))
	if len(got) != 1 || got[0].ID != "p3" {
		t.Errorf("not: expected [p3], got %v", ids(got))
	}
}

func TestCompare_NormalizesNumerics(t *testing.T) {
	cases := []struct {
		left  interface{}
		op    Op
		right interface{}
		want  bool
	}{
		{5, OpEq, int64(5), true},
		{5, OpLt, 6, true},
		{int32(7), OpGte, 7, true},
		{decimal.NewFromInt(10), OpEq, 10, true},
		{decimal.RequireFromString("10.50"), OpGt, 10, true},
		{"abc", OpLt, "abd", true},
		{"abc", OpEq, "abc", true},
		{true, OpEq, true, true},
		{false, OpLt, true, true},
		// Incomparable pairs satisfy nothing except inequality.
		{"abc", OpEq, 5, false},
		{"abc", OpNeq, 5, true},
		{nil, OpLte, 5, false},
	}
	for i, c := range cases {
		if got := Compare(c.left, c.op, c.right); got != c.want {
			t.Errorf("case %d: Compare(%v, %s, %v) = %v, want %v", i, c.left, c.op, c.right, got, c.want)
		}
	}
}

func TestPredicate_TreeShape(t *testing.T) {
	spec := And(ProductIsActive(), Not(ProductStockAtMost(3)))
	pred := spec.Predicate()

	if pred.Kind != KindAnd || len(pred.Children) != 2 {
		t.Fatalf("expected and with 2 children, got %+v", pred)
	}
	leaf := pred.Children[0]
	if leaf.Kind != KindLeaf || leaf.Field != "active" || leaf.Op != OpEq || leaf.Value != true {
		t.Errorf("unexpected left leaf: %+v", leaf)
	}
	not := pred.Children[1]
	if not.Kind != KindNot || len(not.Children) != 1 {
		t.Fatalf("expected not with 1 child, got %+v", not)
	}
	inner := not.Children[0]
	if inner.Field != "stock" || inner.Op != OpLte || inner.Value != 3 {
		t.Errorf("unexpected negated leaf: %+v", inner)
	}
}

func TestSaleSpecifications(t *testing.T) {
	sale := domain.NewSale("USD", "cust-1", true)

	if !SaleStatusIs(domain.SaleStatusDraft).IsSatisfiedBy(sale) {
		t.Errorf("new sale must match draft status")
	}
	if SaleStatusIs(domain.SaleStatusSubmitted).IsSatisfiedBy(sale) {
		t.Errorf("new sale must not match submitted")
	}
	if !SaleForCustomer("cust-1").IsSatisfiedBy(sale) {
		t.Errorf("customer filter must match")
	}
	if !SaleIsCredit().IsSatisfiedBy(sale) {
		t.Errorf("credit filter must match")
	}
	if !SaleInCurrency("USD").IsSatisfiedBy(sale) {
		t.Errorf("currency filter must match")
	}

	pred := SaleStatusIs(domain.SaleStatusDraft).Predicate()
	if !EvalPredicate(pred, SaleFields, sale) {
		t.Errorf("predicate form must agree with direct form")
	}
}

func TestCustomerSpecifications(t *testing.T) {
	customer := domain.Customer{
		ID:              "c1",
		Name:            "Acme",
		AvailableCredit: domain.MustMoney("100.00", "USD"),
	}

	if !CustomerCreditAtLeast(decimal.NewFromInt(50)).IsSatisfiedBy(customer) {
		t.Errorf("credit floor 50 must match 100.00")
	}
	if CustomerCreditAtLeast(decimal.NewFromInt(200)).IsSatisfiedBy(customer) {
		t.Errorf("credit floor 200 must not match 100.00")
	}
	if !CustomerNamed("Acme").IsSatisfiedBy(customer) {
		t.Errorf("name filter must match")
	}

	pred := CustomerCreditAtLeast(decimal.NewFromInt(50)).Predicate()
	if !EvalPredicate(pred, CustomerFields, customer) {
		t.Errorf("predicate form must agree with direct form")
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
