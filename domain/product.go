package domain

import "time"

// Product is catalog state consumed by the sale core. Stock is
// authoritative only under the inventory service's per-product lock.
type Product struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	SellPrice     Money     `json:"sell_price"`
	Active        bool      `json:"active"`
	UsesInventory bool      `json:"uses_inventory"`
	Stock         int       `json:"stock"`
	MinimumStock  int       `json:"minimum_stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BelowMinimum reports whether current stock sits at or under the
// configured floor.
func (p *Product) BelowMinimum() bool {
	return p != nil && p.UsesInventory && p.Stock <= p.MinimumStock
}
