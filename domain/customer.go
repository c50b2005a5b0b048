package domain

import "time"

// Customer carries the credit-relevant view the sale core needs.
type Customer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	AvailableCredit Money     `json:"available_credit"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CanAfford reports whether a credit sale of the given total fits inside
// the remaining credit.
func (c *Customer) CanAfford(total Money) (bool, error) {
	if c == nil {
		return false, ErrCustomerNotFound
	}
	cmp, err := c.AvailableCredit.Cmp(total)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}
