package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// OperationFilter filtros para listar operaciones. Campos vacíos no filtran.
type OperationFilter struct {
	Type   entity.OperationType
	Status entity.OperationStatus
	Limit  int
	Offset int
}

// OperationRepository puerto de persistencia para operaciones y sus renglones.
type OperationRepository interface {
	// Create persiste la cabecera y los renglones.
	Create(ctx context.Context, op *entity.Operation, lines []*entity.OperationLine) error
	GetByID(ctx context.Context, id string) (*entity.Operation, error)
	// GetForUpdate bloquea la fila de la operación (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Operation, error)
	// Update actualiza cabecera y estado; nunca la referencia.
	Update(ctx context.Context, op *entity.Operation) error
	ReplaceLines(ctx context.Context, operationID string, lines []*entity.OperationLine) error
	ListLines(ctx context.Context, operationID string) ([]*entity.OperationLine, error)
	List(ctx context.Context, filter OperationFilter) ([]*entity.Operation, error)
	// LatestReferenceWithPrefix devuelve la referencia de la última operación creada cuyo prefijo coincide.
	LatestReferenceWithPrefix(ctx context.Context, prefix string) (string, bool, error)
	CountReferencesWithPrefix(ctx context.Context, prefix string) (int, error)
}
