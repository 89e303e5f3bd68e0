package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ningún cambio parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// EventPublisher publica eventos de stock después del Commit. Un error aquí nunca revierte la operación.
type EventPublisher interface {
	PublishOperationValidated(ctx context.Context, evt event.OperationValidated) error
}

// StockCache caché de lectura de niveles de stock por (producto, ubicación).
type StockCache interface {
	GetLevel(ctx context.Context, productID, locationID string) (*entity.StockLevel, bool)
	SetLevel(ctx context.Context, level *entity.StockLevel)
}
