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

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation of
// ProductRepository. Stock writes use a compare-and-swap on the stored
// level so concurrent adjustments stay linearizable.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

const productSelect = `
	SELECT id, code, description, sell_price::text, currency, active, uses_inventory,
		stock, minimum_stock, created_at, updated_at
	FROM products
`

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE id = $1`, id))
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE code = $1`, code))
}

func (r *productRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, productSelect+` ORDER BY created_at, id`)
}

func (r *productRepository) Find(ctx context.Context, spec specification.Specification[domain.Product]) ([]domain.Product, error) {
	where, args, err := buildWhere(spec.Predicate(), productColumns)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, productSelect+` WHERE `+where+` ORDER BY created_at, id`, args...)
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO products (id, code, description, sell_price, currency, active, uses_inventory, stock, minimum_stock)
	VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET code = EXCLUDED.code,
		description = EXCLUDED.description,
		sell_price = EXCLUDED.sell_price,
		currency = EXCLUDED.currency,
		active = EXCLUDED.active,
		uses_inventory = EXCLUDED.uses_inventory,
		stock = EXCLUDED.stock,
		minimum_stock = EXCLUDED.minimum_stock,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		product.ID,
		product.Code,
		product.Description,
		product.SellPrice.Amount.String(),
		product.SellPrice.Currency,
		product.Active,
		product.UsesInventory,
		product.Stock,
		product.MinimumStock,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) UpdateStock(ctx context.Context, productID string, previous, next int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET stock = $3, updated_at = NOW()
		WHERE id = $1 AND stock = $2`,
		productID, previous, next)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *productRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *productRepository) query(ctx context.Context, sql string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product domain.Product
		amount  string
	)
	if err := row.Scan(
		&product.ID,
		&product.Code,
		&product.Description,
		&amount,
		&product.SellPrice.Currency,
		&product.Active,
		&product.UsesInventory,
		&product.Stock,
		&product.MinimumStock,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	price, err := scanMoney(amount, product.SellPrice.Currency)
	if err != nil {
		return nil, err
	}
	product.SellPrice = price
	return &product, nil
}
