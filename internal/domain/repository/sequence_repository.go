package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SequenceScope alcance de un contador de referencias: (tipo, año, bodega).
type SequenceScope struct {
	Type          entity.OperationType
	Year          int
	WarehouseCode string
}

// SequenceRepository contador atómico por alcance. Debe usarse dentro de una transacción.
type SequenceRepository interface {
	// Increment suma 1 al contador del alcance y devuelve el nuevo valor.
	// found es false si el alcance aún no tiene contador.
	Increment(ctx context.Context, scope SequenceScope) (value int, found bool, err error)
	// Init crea el contador con value. created es false si otro proceso lo creó primero.
	Init(ctx context.Context, scope SequenceScope, value int) (created bool, err error)
}
