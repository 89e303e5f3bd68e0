package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLedgerEntry registro inmutable de un cambio de stock.
// LocationID es la ubicación cuyo StockLevel cambió; Source/Destination describen el movimiento.
// La suma de QuantityChange por (producto, ubicación) coincide con StockLevel.Quantity.
type StockLedgerEntry struct {
	ID                    string
	OperationID           string
	LineID                string
	ProductID             string
	LocationID            string
	SourceLocationID      *string
	DestinationLocationID *string
	QuantityChange        decimal.Decimal
	QuantityAfter         decimal.Decimal
	CreatedAt             time.Time
}
