// Package event define los eventos de dominio que se publican hacia afuera (Kafka, WebSocket).
package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeOperationValidated nombre del evento emitido al pasar una operación a DONE.
const TypeOperationValidated = "operation.validated"

// StockMovement cambio aplicado a un nivel de stock.
type StockMovement struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
}

// OperationValidated payload de operation.validated.
type OperationValidated struct {
	Event       string          `json:"event"`
	OperationID string          `json:"operation_id"`
	Reference   string          `json:"reference"`
	Type        string          `json:"type"`
	ValidatedAt time.Time       `json:"validated_at"`
	Movements   []StockMovement `json:"movements"`
}
