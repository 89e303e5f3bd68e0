package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLevelRepository puerto para consultar/actualizar stock por (producto, ubicación).
// Get y GetForUpdate devuelven cantidad 0 si la fila no existe.
type StockLevelRepository interface {
	Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usado dentro de transacciones.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error
	ListByLocation(ctx context.Context, locationID string) ([]*entity.StockLevel, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error)
}

// LedgerFilter filtros de consulta del libro de movimientos. Campos vacíos no filtran.
type LedgerFilter struct {
	ProductID   string
	LocationID  string
	OperationID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// LedgerRepository puerto de persistencia del libro de movimientos (solo inserción y lectura).
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.StockLedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]*entity.StockLedgerEntry, error)
}
