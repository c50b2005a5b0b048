package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind classifies what caused a stock change.
type MovementKind string

const (
	MovementPurchase   MovementKind = "purchase"
	MovementSale       MovementKind = "sale"
	MovementAdjustment MovementKind = "adjustment"
	MovementInitial    MovementKind = "initial"
)

// Movement is an append-only record of a single stock change. It is
// written atomically with the stock mutation it describes and never
// modified afterwards.
type Movement struct {
	ID            string       `json:"id"`
	ProductID     string       `json:"product_id"`
	Kind          MovementKind `json:"kind"`
	Delta         int          `json:"delta"`
	UnitCost      *Money       `json:"unit_cost,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Reference     string       `json:"reference,omitempty"`
	ActorID       string       `json:"actor_id,omitempty"`
	PreviousStock int          `json:"previous_stock"`
	NewStock      int          `json:"new_stock"`
	CreatedAt     time.Time    `json:"created_at"`
}

// NewMovement builds a movement for a stock change from previousStock by
// delta. The new-stock snapshot is derived, keeping the replay invariant
// new_stock = previous_stock + delta true by construction.
func NewMovement(productID string, kind MovementKind, delta, previousStock int) Movement {
	return Movement{
		ID:            uuid.NewString(),
		ProductID:     productID,
		Kind:          kind,
		Delta:         delta,
		PreviousStock: previousStock,
		NewStock:      previousStock + delta,
		CreatedAt:     time.Now().UTC(),
	}
}
