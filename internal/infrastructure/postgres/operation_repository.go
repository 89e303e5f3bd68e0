package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

const operationColumns = `id, reference, type, status, partner_id, source_location_id, destination_location_id,
	scheduled_date, created_by, notes, created_at, updated_at, validated_at`

// OperationRepo operaciones y renglones sobre PostgreSQL (usable con pool o tx).
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

// Create inserta la cabecera y sus renglones. Debe ir dentro de una transacción.
func (r *OperationRepo) Create(ctx context.Context, op *entity.Operation, lines []*entity.OperationLine) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Reference, op.Type, op.Status, op.PartnerID, op.SourceLocationID, op.DestinationLocationID,
		op.ScheduledDate, op.CreatedBy, op.Notes, op.CreatedAt, op.UpdatedAt, op.ValidatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: referencia %s", domain.ErrDuplicate, op.Reference)
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return r.insertLines(ctx, op.ID, lines)
}

func (r *OperationRepo) insertLines(ctx context.Context, operationID string, lines []*entity.OperationLine) error {
	query := `
		INSERT INTO operation_lines (id, operation_id, position, product_id, quantity, unit_cost, system_quantity, counted_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, l := range lines {
		_, err := r.q.Exec(ctx, query,
			l.ID, operationID, i+1, l.ProductID, l.Quantity, l.UnitCost, l.SystemQuantity, l.CountedQuantity,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			return fmt.Errorf("insert operation line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la cabecera de una operación.
func (r *OperationRepo) GetByID(ctx context.Context, id string) (*entity.Operation, error) {
	return r.getOne(ctx, `SELECT `+operationColumns+` FROM operations WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila hasta el fin de la transacción.
func (r *OperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	return r.getOne(ctx, `SELECT `+operationColumns+` FROM operations WHERE id = $1 FOR UPDATE`, id)
}

func (r *OperationRepo) getOne(ctx context.Context, query, id string) (*entity.Operation, error) {
	op, err := scanOperation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return op, nil
}

// Update actualiza cabecera y estado. reference, type, created_by y created_at no se tocan.
func (r *OperationRepo) Update(ctx context.Context, op *entity.Operation) error {
	query := `
		UPDATE operations SET status = $2, partner_id = $3, source_location_id = $4, destination_location_id = $5,
			scheduled_date = $6, notes = $7, updated_at = $8, validated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		op.ID, op.Status, op.PartnerID, op.SourceLocationID, op.DestinationLocationID,
		op.ScheduledDate, op.Notes, op.UpdatedAt, op.ValidatedAt,
	)
	if err != nil {
		return fmt.Errorf("update operation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines borra los renglones de la operación e inserta los nuevos.
func (r *OperationRepo) ReplaceLines(ctx context.Context, operationID string, lines []*entity.OperationLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM operation_lines WHERE operation_id = $1`, operationID); err != nil {
		return fmt.Errorf("delete operation lines: %w", err)
	}
	return r.insertLines(ctx, operationID, lines)
}

// ListLines devuelve los renglones en orden de captura, con el SKU del producto.
func (r *OperationRepo) ListLines(ctx context.Context, operationID string) ([]*entity.OperationLine, error) {
	query := `
		SELECT l.id, l.operation_id, l.product_id, p.sku, l.quantity, l.unit_cost, l.system_quantity, l.counted_quantity
		FROM operation_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.operation_id = $1
		ORDER BY l.position`
	rows, err := r.q.Query(ctx, query, operationID)
	if err != nil {
		return nil, fmt.Errorf("list operation lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OperationLine
	for rows.Next() {
		var l entity.OperationLine
		if err := rows.Scan(&l.ID, &l.OperationID, &l.ProductID, &l.ProductSKU,
			&l.Quantity, &l.UnitCost, &l.SystemQuantity, &l.CountedQuantity); err != nil {
			return nil, fmt.Errorf("scan operation line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List lista operaciones filtrando por tipo y estado, más recientes primero.
func (r *OperationRepo) List(ctx context.Context, f repository.OperationFilter) ([]*entity.Operation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE ($1 = '' OR type = $1) AND ($2 = '' OR status = $2)
		ORDER BY seq DESC
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(f.Type), string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, op)
	}
	return list, rows.Err()
}

// LatestReferenceWithPrefix referencia de la última operación creada con el prefijo dado.
func (r *OperationRepo) LatestReferenceWithPrefix(ctx context.Context, prefix string) (string, bool, error) {
	var ref string
	err := r.q.QueryRow(ctx, `
		SELECT reference FROM operations
		WHERE starts_with(reference, $1)
		ORDER BY seq DESC
		LIMIT 1`, prefix,
	).Scan(&ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("latest reference: %w", err)
	}
	return ref, true, nil
}

// CountReferencesWithPrefix cuenta operaciones cuya referencia empieza con el prefijo.
func (r *OperationRepo) CountReferencesWithPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM operations WHERE starts_with(reference, $1)`, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count references: %w", err)
	}
	return n, nil
}

func scanOperation(row pgx.Row) (*entity.Operation, error) {
	var op entity.Operation
	err := row.Scan(&op.ID, &op.Reference, &op.Type, &op.Status, &op.PartnerID, &op.SourceLocationID,
		&op.DestinationLocationID, &op.ScheduledDate, &op.CreatedBy, &op.Notes, &op.CreatedAt, &op.UpdatedAt,
		&op.ValidatedAt)
	if err != nil {
		return nil, err
	}
	return &op, nil
}
