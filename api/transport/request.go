package transport

// SaleItemRequest is one requested line item. UnitPrice is a decimal
// string; when empty the product's sell price applies.
type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

type CreateSaleRequest struct {
	RequestID  string            `json:"request_id,omitempty"`
	CustomerID string            `json:"customer_id,omitempty"`
	CreditSale bool              `json:"credit_sale"`
	Items      []SaleItemRequest `json:"items"`
}

type AdjustInventoryRequest struct {
	Delta            int    `json:"delta"`
	Kind             string `json:"kind"`
	UnitCost         string `json:"unit_cost,omitempty"`
	UnitCostCurrency string `json:"unit_cost_currency,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Reference        string `json:"reference,omitempty"`
}

// SaleResponse is the serialized view of a committed sale.
type SaleResponse struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	Currency   string             `json:"currency"`
	CustomerID string             `json:"customer_id,omitempty"`
	CreditSale bool               `json:"credit_sale"`
	Total      string             `json:"total"`
	Version    int                `json:"version"`
	Items      []SaleItemResponse `json:"items"`
}

type SaleItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}
