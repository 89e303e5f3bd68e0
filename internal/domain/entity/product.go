package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Cost es promedio ponderado calculado desde recepciones; el stock vive por ubicación en StockLevel.
type Product struct {
	ID              string
	SKU             string // único, no cambia después de creado
	Name            string
	CategoryID      *string
	UnitOfMeasureID *string
	MinStock        decimal.Decimal // umbral de stock bajo
	Cost            decimal.Decimal // costo promedio ponderado (inicia en 0 si no se indica)
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
