package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel es la cantidad actual de un producto en una ubicación (fila única por par).
type StockLevel struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
