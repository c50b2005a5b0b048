package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
)

type saleRepository struct {
	pool *pgxpool.Pool
	sink repository.EventSink
}

// NewSaleRepository returns a Postgres-backed implementation of
// SaleRepository. Writes run in a transaction covering the sale row and
// its items; the version column carries the optimistic concurrency
// check.
func NewSaleRepository(pool *pgxpool.Pool, sink repository.EventSink) repository.SaleRepository {
	return &saleRepository{pool: pool, sink: sink}
}

const saleSelect = `
	SELECT id, currency, status, customer_id, credit_sale, version, created_at, updated_at
	FROM sales
`

func (r *saleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	row := r.pool.QueryRow(ctx, saleSelect+` WHERE id = $1`, id)
	state, err := scanSale(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, state); err != nil {
		return nil, err
	}
	return domain.RehydrateSale(*state), nil
}

func (r *saleRepository) GetAll(ctx context.Context) ([]*domain.Sale, error) {
	return r.query(ctx, saleSelect+` ORDER BY created_at, id`)
}

func (r *saleRepository) Find(ctx context.Context, spec specification.Specification[*domain.Sale]) ([]*domain.Sale, error) {
	where, args, err := buildWhere(spec.Predicate(), saleColumns)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, saleSelect+` WHERE `+where+` ORDER BY created_at, id`, args...)
}

func (r *saleRepository) Save(ctx context.Context, sale *domain.Sale) error {
	if sale == nil {
		return domain.ErrInvalidPayload
	}

	pending := sale.PendingEvents()
	state := sale.State()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var storedVersion int
	err = tx.QueryRow(ctx, `SELECT version FROM sales WHERE id = $1 FOR UPDATE`, state.ID).Scan(&storedVersion)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO sales (id, currency, status, customer_id, credit_sale, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			state.ID, state.Currency, string(state.Status), nullString(state.CustomerID),
			state.CreditSale, state.Version+1, state.CreatedAt, state.UpdatedAt)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if storedVersion != state.Version {
			return domain.ErrVersionConflict
		}
		_, err = tx.Exec(ctx, `
			UPDATE sales
			SET currency = $2, status = $3, customer_id = $4, credit_sale = $5,
				version = $6, updated_at = $7
			WHERE id = $1`,
			state.ID, state.Currency, string(state.Status), nullString(state.CustomerID),
			state.CreditSale, state.Version+1, state.UpdatedAt)
		if err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, state.ID); err != nil {
			return err
		}
	}

	for i, item := range state.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, product_name, quantity, unit_price, currency)
			VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)`,
			state.ID, i, item.ProductID, item.ProductName, item.Quantity,
			item.UnitPrice.Amount.String(), item.UnitPrice.Currency)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	sale.IncrementVersion()

	if r.sink != nil && len(pending) > 0 {
		if err := r.sink.Publish(ctx, pending); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "event publication failed", err)
		}
	}
	sale.ClearEvents()
	return nil
}

func (r *saleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *saleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *saleRepository) query(ctx context.Context, sql string, args ...interface{}) ([]*domain.Sale, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*domain.SaleState
	for rows.Next() {
		state, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sales := make([]*domain.Sale, 0, len(states))
	for _, state := range states {
		if err := r.loadItems(ctx, state); err != nil {
			return nil, err
		}
		sales = append(sales, domain.RehydrateSale(*state))
	}
	return sales, nil
}

func (r *saleRepository) loadItems(ctx context.Context, state *domain.SaleState) error {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_price::text, currency
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY position`, state.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item   domain.SaleItem
			amount string
		)
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &amount, &item.UnitPrice.Currency); err != nil {
			return err
		}
		price, err := scanMoney(amount, item.UnitPrice.Currency)
		if err != nil {
			return err
		}
		item.UnitPrice = price
		state.Items = append(state.Items, item)
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*domain.SaleState, error) {
	var (
		state      domain.SaleState
		status     string
		customerID sql.NullString
	)
	if err := row.Scan(
		&state.ID,
		&state.Currency,
		&status,
		&customerID,
		&state.CreditSale,
		&state.Version,
		&state.CreatedAt,
		&state.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, err
	}
	state.Status = domain.SaleStatus(status)
	state.CustomerID = stringOrEmpty(customerID)
	return &state, nil
}
