package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in a single currency. Arithmetic across currencies
// is an explicit error, never a silent coercion.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value from a decimal string such as "10.00".
func NewMoney(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, WrapError(ErrCodeInvalid, "invalid amount", err)
	}
	return Money{Amount: d, Currency: currency}, nil
}

// MustMoney is NewMoney for literals; it panics on malformed input.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns a+b, failing when the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, NewError(ErrCodeCurrencyMismatch,
			fmt.Sprintf("cannot add %s to %s", other.Currency, m.Currency))
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Scale returns the amount multiplied by an integer quantity.
func (m Money) Scale(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Cmp compares two amounts, failing when the currencies differ.
// The result is -1, 0 or 1 like decimal.Cmp.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, NewError(ErrCodeCurrencyMismatch,
			fmt.Sprintf("cannot compare %s with %s", m.Currency, other.Currency))
	}
	return m.Amount.Cmp(other.Amount), nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
