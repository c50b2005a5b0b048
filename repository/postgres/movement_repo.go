package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
)

type movementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository returns the Postgres-backed append-only stock
// movement log.
func NewMovementRepository(pool *pgxpool.Pool) repository.MovementRepository {
	return &movementRepository{pool: pool}
}

func (r *movementRepository) Append(ctx context.Context, movement domain.Movement) error {
	if movement.ProductID == "" {
		return domain.ErrInvalidPayload
	}

	unitCost, unitCostCurrency := nullableMoney(movement.UnitCost)

	const query = `
	INSERT INTO stock_movements
		(id, product_id, kind, delta, unit_cost, unit_cost_currency, reason, reference, actor_id,
		 previous_stock, new_stock, created_at)
	VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		movement.ID,
		movement.ProductID,
		string(movement.Kind),
		movement.Delta,
		unitCost,
		unitCostCurrency,
		nullString(movement.Reason),
		nullString(movement.Reference),
		nullString(movement.ActorID),
		movement.PreviousStock,
		movement.NewStock,
		movement.CreatedAt,
	)
	return err
}

func (r *movementRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	const query = `
	SELECT id, product_id, kind, delta, unit_cost::text, unit_cost_currency, reason, reference,
		actor_id, previous_stock, new_stock, created_at
	FROM stock_movements
	WHERE product_id = $1
	ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		var (
			m                          domain.Movement
			kind                       string
			unitCost, unitCostCurrency sql.NullString
			reason, reference, actorID sql.NullString
		)
		if err := rows.Scan(
			&m.ID,
			&m.ProductID,
			&kind,
			&m.Delta,
			&unitCost,
			&unitCostCurrency,
			&reason,
			&reference,
			&actorID,
			&m.PreviousStock,
			&m.NewStock,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Kind = domain.MovementKind(kind)
		m.Reason = stringOrEmpty(reason)
		m.Reference = stringOrEmpty(reference)
		m.ActorID = stringOrEmpty(actorID)
		cost, err := scanNullableMoney(unitCost, unitCostCurrency)
		if err != nil {
			return nil, err
		}
		m.UnitCost = cost
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
