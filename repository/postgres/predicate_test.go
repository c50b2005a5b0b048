package postgres

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/specification"
)

func TestBuildWhere_Leaf(t *testing.T) {
	spec := specification.ProductStockAtMost(3)

	clause, args, err := buildWhere(spec.Predicate(), productColumns)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if clause != "stock <= $1" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 1 || args[0] != 3 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildWhere_NestedCombinators(t *testing.T) {
	spec := specification.And(
		specification.ProductIsActive(),
		specification.Not(specification.ProductCodeIs("WID-1")),
	)

	clause, args, err := buildWhere(spec.Predicate(), productColumns)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if clause != "(active = $1 AND NOT (code = $2))" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 2 || args[0] != true || args[1] != "WID-1" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildWhere_DecimalGetsNumericCast(t *testing.T) {
	spec := specification.CustomerCreditAtLeast(decimal.RequireFromString("100.50"))

	clause, args, err := buildWhere(spec.Predicate(), customerColumns)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if clause != "available_credit >= $1::numeric" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 1 || args[0] != "100.50" {
		t.Errorf("decimal must pass as its string form, got %v", args)
	}
}

func TestBuildWhere_UnmappedFieldFails(t *testing.T) {
	spec := specification.Field("no_such_field", func(domain.Product) interface{} { return nil }).Eq(1)

	_, _, err := buildWhere(spec.Predicate(), productColumns)
	if domain.CodeOf(err) != domain.ErrCodeInvalid {
		t.Errorf("expected invalid for unmapped field, got %v", err)
	}
}

func TestBuildWhere_NullableColumnCoalesces(t *testing.T) {
	// customer_id is NULL for walk-in sales but reads back as "" in
	// memory. Without the coalesce, NOT over a NULL comparison would
	// exclude those rows while the in-memory form includes them.
	spec := specification.Not(specification.SaleForCustomer("c1"))

	clause, args, err := buildWhere(spec.Predicate(), saleColumns)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if clause != "NOT (COALESCE(sales.customer_id, '') = $1)" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 1 || args[0] != "c1" {
		t.Errorf("unexpected args: %v", args)
	}

	// Matching the empty string selects exactly the walk-in rows.
	clause, args, err = buildWhere(specification.SaleForCustomer("").Predicate(), saleColumns)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if clause != "COALESCE(sales.customer_id, '') = $1" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 1 || args[0] != "" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildWhere_SaleTotalUsesComputedColumn(t *testing.T) {
	spec := specification.Field("total", func(s *domain.Sale) interface{} { return s.Total().Amount }).
		Gt(decimal.NewFromInt(100))

	clause, args, err := buildWhere(spec.Predicate(), saleColumns)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	want := "(SELECT COALESCE(SUM(quantity * unit_price), 0) FROM sale_items WHERE sale_id = sales.id) > $1::numeric"
	if clause != want {
		t.Errorf("unexpected clause:\n got %s\nwant %s", clause, want)
	}
	if len(args) != 1 || args[0] != "100" {
		t.Errorf("unexpected args: %v", args)
	}
}
