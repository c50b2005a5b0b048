package postgres

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/fastygo/salescore/domain"
)

// Numeric columns are selected with ::text casts and parsed on scan, so
// amounts round-trip through the decimal type without float conversion.

func scanMoney(amount, currency string) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, err
	}
	return domain.Money{Amount: d, Currency: currency}, nil
}

func nullableMoney(m *domain.Money) (interface{}, interface{}) {
	if m == nil {
		return nil, nil
	}
	return m.Amount.String(), m.Currency
}

func scanNullableMoney(amount, currency sql.NullString) (*domain.Money, error) {
	if !amount.Valid || !currency.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(amount.String)
	if err != nil {
		return nil, err
	}
	return &domain.Money{Amount: d, Currency: currency.String}, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func stringOrEmpty(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
