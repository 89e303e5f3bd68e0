package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductStock stock agregado de un producto activo (una bodega o todas).
type ProductStock struct {
	ProductID   string
	SKU         string
	ProductName string
	MinStock    decimal.Decimal
	Cost        decimal.Decimal
	Quantity    decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes y dashboard.
type ReportRepository interface {
	// StockByProduct devuelve todos los productos activos con su stock agregado.
	// warehouseID vacío agrega todas las bodegas.
	StockByProduct(ctx context.Context, warehouseID string) ([]ProductStock, error)
	CountOperations(ctx context.Context, opType entity.OperationType, statuses []entity.OperationStatus) (int, error)
}
