package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores de referencia por (tipo, año, bodega). El UPDATE ... RETURNING
// bloquea la fila hasta el Commit, así las creaciones concurrentes del mismo alcance se serializan.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Usar con la tx de la creación.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Increment suma 1 y devuelve el nuevo valor; found=false si el alcance no tiene contador.
func (r *SequenceRepo) Increment(ctx context.Context, scope repository.SequenceScope) (int, bool, error) {
	var value int
	err := r.q.QueryRow(ctx, `
		UPDATE operation_sequences SET last_value = last_value + 1
		WHERE type = $1 AND year = $2 AND warehouse_code = $3
		RETURNING last_value`,
		string(scope.Type), scope.Year, scope.WarehouseCode,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("increment sequence: %w", err)
	}
	return value, true, nil
}

// Init crea el contador; created=false si otra transacción lo creó primero.
func (r *SequenceRepo) Init(ctx context.Context, scope repository.SequenceScope, value int) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO operation_sequences (type, year, warehouse_code, last_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (type, year, warehouse_code) DO NOTHING`,
		string(scope.Type), scope.Year, scope.WarehouseCode, value,
	)
	if err != nil {
		return false, fmt.Errorf("init sequence: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
