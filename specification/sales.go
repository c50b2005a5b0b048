package specification

import "github.com/fastygo/salescore/domain"

// Field readers used when interpreting predicate trees against in-memory
// collections. The postgres layer translates the same field names into
// column references.

func SaleFields(s *domain.Sale, field string) interface{} {
	switch field {
	case "id":
		return s.ID()
	case "status":
		return string(s.Status())
	case "customer_id":
		return s.CustomerID()
	case "credit_sale":
		return s.CreditSale()
	case "currency":
		return s.Currency()
	case "total":
		return s.Total().Amount
	default:
		return nil
	}
}

func ProductFields(p domain.Product, field string) interface{} {
	switch field {
	case "id":
		return p.ID
	case "code":
		return p.Code
	case "active":
		return p.Active
	case "uses_inventory":
		return p.UsesInventory
	case "stock":
		return p.Stock
	case "minimum_stock":
		return p.MinimumStock
	default:
		return nil
	}
}

func CustomerFields(c domain.Customer, field string) interface{} {
	switch field {
	case "id":
		return c.ID
	case "name":
		return c.Name
	case "available_credit":
		return c.AvailableCredit.Amount
	default:
		return nil
	}
}

// Sale specifications.

func SaleStatusIs(status domain.SaleStatus) Specification[*domain.Sale] {
	return Field("status", func(s *domain.Sale) interface{} { return string(s.Status()) }).
		Eq(string(status))
}

func SaleForCustomer(customerID string) Specification[*domain.Sale] {
	return Field("customer_id", func(s *domain.Sale) interface{} { return s.CustomerID() }).
		Eq(customerID)
}

func SaleIsCredit() Specification[*domain.Sale] {
	return Field("credit_sale", func(s *domain.Sale) interface{} { return s.CreditSale() }).
		Eq(true)
}

func SaleInCurrency(currency string) Specification[*domain.Sale] {
	return Field("currency", func(s *domain.Sale) interface{} { return s.Currency() }).
		Eq(currency)
}

// Product specifications.

func ProductIsActive() Specification[domain.Product] {
	return Field("active", func(p domain.Product) interface{} { return p.Active }).Eq(true)
}

func ProductTracksInventory() Specification[domain.Product] {
	return Field("uses_inventory", func(p domain.Product) interface{} { return p.UsesInventory }).Eq(true)
}

func ProductStockAtMost(n int) Specification[domain.Product] {
	return Field("stock", func(p domain.Product) interface{} { return p.Stock }).Lte(n)
}

func ProductCodeIs(code string) Specification[domain.Product] {
	return Field("code", func(p domain.Product) interface{} { return p.Code }).Eq(code)
}

// Customer specifications.

func CustomerCreditAtLeast(amount interface{}) Specification[domain.Customer] {
	return Field("available_credit", func(c domain.Customer) interface{} { return c.AvailableCredit.Amount }).
		Gte(amount)
}

func CustomerNamed(name string) Specification[domain.Customer] {
	return Field("name", func(c domain.Customer) interface{} { return c.Name }).Eq(name)
}
