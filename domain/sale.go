package domain

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus enumerates the sale lifecycle.
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "draft"
	SaleStatusSubmitted SaleStatus = "submitted"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Sale is the aggregate guarding the sale-transaction consistency
// boundary. Items are reachable only through the aggregate; once the
// status leaves draft the item list is frozen.
type Sale struct {
	Root

	currency   string
	items      []SaleItem
	status     SaleStatus
	customerID string
	creditSale bool
	createdAt  time.Time
	updatedAt  time.Time
}

// SaleItem is a line inside the Sale aggregate. Subtotal is always
// computed from quantity and unit price, never stored.
type SaleItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
}

// Subtotal returns quantity times unit price.
func (i SaleItem) Subtotal() Money {
	return i.UnitPrice.Scale(i.Quantity)
}

// NewSale creates a draft sale and records the creation event.
func NewSale(currency string, customerID string, creditSale bool) *Sale {
	now := time.Now().UTC()
	s := &Sale{
		Root:       NewRoot(uuid.NewString()),
		currency:   currency,
		status:     SaleStatusDraft,
		customerID: customerID,
		creditSale: creditSale,
		createdAt:  now,
		updatedAt:  now,
	}
	s.Record(EventSaleCreated, SaleCreatedPayload{
		SaleID:     s.ID(),
		CustomerID: customerID,
		Currency:   currency,
		CreditSale: creditSale,
	})
	return s
}

// SaleState carries persisted sale fields for rehydration. Repository
// use only; it bypasses business methods and records no events.
type SaleState struct {
	ID         string
	Version    int
	Currency   string
	Items      []SaleItem
	Status     SaleStatus
	CustomerID string
	CreditSale bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RehydrateSale rebuilds a sale aggregate from persisted state.
func RehydrateSale(state SaleState) *Sale {
	items := make([]SaleItem, len(state.Items))
	copy(items, state.Items)
	return &Sale{
		Root:       RehydrateRoot(state.ID, state.Version),
		currency:   state.Currency,
		items:      items,
		status:     state.Status,
		customerID: state.CustomerID,
		creditSale: state.CreditSale,
		createdAt:  state.CreatedAt,
		updatedAt:  state.UpdatedAt,
	}
}

// State snapshots the sale for persistence.
func (s *Sale) State() SaleState {
	items := make([]SaleItem, len(s.items))
	copy(items, s.items)
	return SaleState{
		ID:         s.ID(),
		Version:    s.Version(),
		Currency:   s.currency,
		Items:      items,
		Status:     s.status,
		CustomerID: s.customerID,
		CreditSale: s.creditSale,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

func (s *Sale) Currency() string     { return s.currency }
func (s *Sale) Status() SaleStatus   { return s.status }
func (s *Sale) CustomerID() string   { return s.customerID }
func (s *Sale) CreditSale() bool     { return s.creditSale }
func (s *Sale) CreatedAt() time.Time { return s.createdAt }
func (s *Sale) UpdatedAt() time.Time { return s.updatedAt }

// Items returns a copy of the line items in order.
func (s *Sale) Items() []SaleItem {
	out := make([]SaleItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem appends a line item, merging quantities when the product is
// already present. Fails once the sale has left draft, on non-positive
// quantity, or when the unit price currency differs from the sale's.
func (s *Sale) AddItem(productID, productName string, quantity int, unitPrice Money) error {
	if s.status != SaleStatusDraft {
		return ErrSaleNotDraft
	}
	if quantity <= 0 {
		return NewError(ErrCodeInvalid, "quantity must be positive")
	}
	if unitPrice.Currency != s.currency {
		return NewError(ErrCodeCurrencyMismatch, "item currency differs from sale currency")
	}

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity += quantity
			s.touch()
			s.Record(EventSaleItemAdded, SaleItemAddedPayload{
				SaleID:    s.ID(),
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: unitPrice.Amount.String(),
				Currency:  unitPrice.Currency,
			})
			return nil
		}
	}

	s.items = append(s.items, SaleItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	s.touch()
	s.Record(EventSaleItemAdded, SaleItemAddedPayload{
		SaleID:    s.ID(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice.Amount.String(),
		Currency:  unitPrice.Currency,
	})
	return nil
}

// RemoveItem drops the line item for a product while the sale is draft.
func (s *Sale) RemoveItem(productID string) error {
	if s.status != SaleStatusDraft {
		return ErrSaleNotDraft
	}
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.touch()
			s.Record(EventSaleItemRemoved, SaleItemRemovedPayload{
				SaleID:    s.ID(),
				ProductID: productID,
			})
			return nil
		}
	}
	return NewError(ErrCodeNotFound, "item not in sale")
}

// SetItemQuantity re-quantifies an existing line item while draft.
func (s *Sale) SetItemQuantity(productID string, quantity int) error {
	if s.status != SaleStatusDraft {
		return ErrSaleNotDraft
	}
	if quantity <= 0 {
		return NewError(ErrCodeInvalid, "quantity must be positive")
	}
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			s.touch()
			return nil
		}
	}
	return NewError(ErrCodeNotFound, "item not in sale")
}

// Total recomputes the sum of line subtotals. An empty sale totals zero.
func (s *Sale) Total() Money {
	total := Zero(s.currency)
	for _, item := range s.items {
		// Currencies are enforced at AddItem, so Add cannot fail here.
		total, _ = total.Add(item.Subtotal())
	}
	return total
}

// Submit moves a non-empty draft to submitted and freezes the items.
func (s *Sale) Submit() error {
	if s.status != SaleStatusDraft {
		return ErrSaleNotDraft
	}
	if len(s.items) == 0 {
		return ErrEmptySale
	}
	s.status = SaleStatusSubmitted
	s.touch()
	s.Record(EventSaleSubmitted, SaleSubmittedPayload{
		SaleID:   s.ID(),
		Total:    s.Total().Amount.String(),
		Currency: s.currency,
		Items:    len(s.items),
	})
	return nil
}

// Cancel marks the sale cancelled. Cancelled is terminal.
func (s *Sale) Cancel(reason string) error {
	if s.status == SaleStatusCancelled {
		return NewError(ErrCodeInvalid, "sale already cancelled")
	}
	s.status = SaleStatusCancelled
	s.touch()
	s.Record(EventSaleCancelled, SaleCancelledPayload{
		SaleID: s.ID(),
		Reason: reason,
	})
	return nil
}

func (s *Sale) touch() {
	s.updatedAt = time.Now().UTC()
}
