package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation of
// CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) repository.CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerSelect = `
	SELECT id, name, available_credit::text, currency, created_at, updated_at
	FROM customers
`

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, customerSelect+` WHERE id = $1`, id))
}

func (r *customerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	return r.query(ctx, customerSelect+` ORDER BY created_at, id`)
}

func (r *customerRepository) Find(ctx context.Context, spec specification.Specification[domain.Customer]) ([]domain.Customer, error) {
	where, args, err := buildWhere(spec.Predicate(), customerColumns)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, customerSelect+` WHERE `+where+` ORDER BY created_at, id`, args...)
}

func (r *customerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	if customer == nil || customer.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO customers (id, name, available_credit, currency)
	VALUES ($1, $2, $3::numeric, $4)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		available_credit = EXCLUDED.available_credit,
		currency = EXCLUDED.currency,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		customer.ID,
		customer.Name,
		customer.AvailableCredit.Amount.String(),
		customer.AvailableCredit.Currency,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) query(ctx context.Context, sql string, args ...interface{}) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}
	return customers, rows.Err()
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		customer domain.Customer
		amount   string
	)
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&amount,
		&customer.AvailableCredit.Currency,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	credit, err := scanMoney(amount, customer.AvailableCredit.Currency)
	if err != nil {
		return nil, err
	}
	customer.AvailableCredit = credit
	return &customer, nil
}
