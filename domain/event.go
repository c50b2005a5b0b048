package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event names recorded by the sale aggregate.
const (
	EventSaleCreated     = "SaleCreated"
	EventSaleItemAdded   = "SaleItemAdded"
	EventSaleItemRemoved = "SaleItemRemoved"
	EventSaleSubmitted   = "SaleSubmitted"
	EventSaleCancelled   = "SaleCancelled"
)

// Event is an immutable record of something that happened inside an
// aggregate. It is published to external consumers only after the owning
// aggregate has been persisted.
type Event struct {
	ID          string          `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func newEvent(aggregateID, name string, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return Event{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		Name:        name,
		Payload:     data,
		OccurredAt:  time.Now().UTC(),
	}
}

// Payload types per event.

type SaleCreatedPayload struct {
	SaleID     string `json:"sale_id"`
	CustomerID string `json:"customer_id,omitempty"`
	Currency   string `json:"currency"`
	CreditSale bool   `json:"credit_sale"`
}

type SaleItemAddedPayload struct {
	SaleID    string `json:"sale_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Currency  string `json:"currency"`
}

type SaleItemRemovedPayload struct {
	SaleID    string `json:"sale_id"`
	ProductID string `json:"product_id"`
}

type SaleSubmittedPayload struct {
	SaleID   string `json:"sale_id"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
	Items    int    `json:"items"`
}

type SaleCancelledPayload struct {
	SaleID string `json:"sale_id"`
	Reason string `json:"reason,omitempty"`
}
