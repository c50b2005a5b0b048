package domain

import (
	"errors"
	"testing"
)

func draftSale(t *testing.T) *Sale {
	t.Helper()
	return NewSale("USD", "cust-1", false)
}

func TestNewSale_RecordsCreationEvent(t *testing.T) {
	sale := draftSale(t)

	if sale.Status() != SaleStatusDraft {
		t.Fatalf("expected draft status, got %s", sale.Status())
	}
	if sale.Version() != 0 {
		t.Errorf("expected version 0 for a new sale, got %d", sale.Version())
	}

	events := sale.PendingEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 pending event, got %d", len(events))
	}
	if events[0].Name != EventSaleCreated {
		t.Errorf("expected %s, got %s", EventSaleCreated, events[0].Name)
	}
	if events[0].AggregateID != sale.ID() {
		t.Errorf("event aggregate id %q does not match sale id %q", events[0].AggregateID, sale.ID())
	}
}

func TestAddItem_MergesDuplicateProduct(t *testing.T) {
	sale := draftSale(t)
	price := MustMoney("10.00", "USD")

	if err := sale.AddItem("prod-1", "Widget", 2, price); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := sale.AddItem("prod-1", "Widget", 3, price); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	items := sale.Items()
	if len(items) != 1 {
		t.Fatalf("expected merged single line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", items[0].Quantity)
	}
	if got := sale.Total().String(); got != "50.00 USD" {
		t.Errorf("expected total 50.00 USD, got %s", got)
	}
}

func TestAddItem_RejectsCurrencyMismatch(t *testing.T) {
	sale := draftSale(t)

	err := sale.AddItem("prod-1", "Widget", 1, MustMoney("10.00", "EUR"))
	if CodeOf(err) != ErrCodeCurrencyMismatch {
		t.Errorf("expected currency mismatch, got %v", err)
	}
	if len(sale.Items()) != 0 {
		t.Errorf("rejected item must not be appended")
	}
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	sale := draftSale(t)

	for _, qty := range []int{0, -1} {
		err := sale.AddItem("prod-1", "Widget", qty, MustMoney("10.00", "USD"))
		if CodeOf(err) != ErrCodeInvalid {
			t.Errorf("quantity %d: expected invalid, got %v", qty, err)
		}
	}
}

func TestSubmit_EmptySaleFails(t *testing.T) {
	sale := draftSale(t)

	if err := sale.Submit(); !errors.Is(err, ErrEmptySale) {
		t.Errorf("expected ErrEmptySale, got %v", err)
	}
	if sale.Status() != SaleStatusDraft {
		t.Errorf("failed submit must not change status")
	}
}

func TestSubmit_FreezesItems(t *testing.T) {
	sale := draftSale(t)
	price := MustMoney("2.50", "USD")
	if err := sale.AddItem("prod-1", "Widget", 4, price); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := sale.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sale.Status() != SaleStatusSubmitted {
		t.Fatalf("expected submitted, got %s", sale.Status())
	}

	if err := sale.AddItem("prod-2", "Gadget", 1, price); !errors.Is(err, ErrSaleNotDraft) {
		t.Errorf("expected ErrSaleNotDraft on add, got %v", err)
	}
	if err := sale.RemoveItem("prod-1"); !errors.Is(err, ErrSaleNotDraft) {
		t.Errorf("expected ErrSaleNotDraft on remove, got %v", err)
	}
	if err := sale.SetItemQuantity("prod-1", 1); !errors.Is(err, ErrSaleNotDraft) {
		t.Errorf("expected ErrSaleNotDraft on requantify, got %v", err)
	}
}

func TestCancel_IsTerminal(t *testing.T) {
	sale := draftSale(t)
	if err := sale.Cancel("customer request"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if sale.Status() != SaleStatusCancelled {
		t.Fatalf("expected cancelled, got %s", sale.Status())
	}
	if err := sale.Cancel("again"); CodeOf(err) != ErrCodeInvalid {
		t.Errorf("second cancel should fail, got %v", err)
	}
}

func TestPendingEvents_AccumulateUntilCleared(t *testing.T) {
	sale := draftSale(t)
	price := MustMoney("1.00", "USD")
	_ = sale.AddItem("prod-1", "Widget", 1, price)
	_ = sale.Submit()

	names := make([]string, 0)
	for _, e := range sale.PendingEvents() {
		names = append(names, e.Name)
	}
	want := []string{EventSaleCreated, EventSaleItemAdded, EventSaleSubmitted}
	if len(names) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	sale.ClearEvents()
	if len(sale.PendingEvents()) != 0 {
		t.Errorf("ledger must be empty after clear")
	}
}

func TestRehydrateSale_RecordsNoEvents(t *testing.T) {
	sale := draftSale(t)
	_ = sale.AddItem("prod-1", "Widget", 2, MustMoney("3.00", "USD"))
	state := sale.State()
	state.Version = 7

	restored := RehydrateSale(state)
	if len(restored.PendingEvents()) != 0 {
		t.Errorf("rehydration must not record events")
	}
	if restored.Version() != 7 {
		t.Errorf("expected version 7, got %d", restored.Version())
	}
	if got := restored.Total().String(); got != "6.00 USD" {
		t.Errorf("expected total 6.00 USD, got %s", got)
	}
}

func TestTotal_IsAlwaysRecomputed(t *testing.T) {
	sale := draftSale(t)
	_ = sale.AddItem("prod-1", "Widget", 2, MustMoney("3.00", "USD"))
	_ = sale.AddItem("prod-2", "Gadget", 1, MustMoney("4.50", "USD"))

	if got := sale.Total().String(); got != "10.50 USD" {
		t.Fatalf("expected 10.50 USD, got %s", got)
	}
	if err := sale.SetItemQuantity("prod-1", 5); err != nil {
		t.Fatalf("requantify failed: %v", err)
	}
	if got := sale.Total().String(); got != "19.50 USD" {
		t.Errorf("expected 19.50 USD after requantify, got %s", got)
	}
	if err := sale.RemoveItem("prod-2"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := sale.Total().String(); got != "15.00 USD" {
		t.Errorf("expected 15.00 USD after remove, got %s", got)
	}
}
