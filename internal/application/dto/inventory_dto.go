package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelResponse cantidad actual de un producto en una ubicación.
type StockLevelResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// LedgerFilterRequest query de GET /api/ledger. from/to en RFC3339.
type LedgerFilterRequest struct {
	ProductID   string `query:"product_id" validate:"omitempty,uuid"`
	LocationID  string `query:"location_id" validate:"omitempty,uuid"`
	OperationID string `query:"operation_id" validate:"omitempty,uuid"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PageRequest
}

// LedgerEntryResponse registro del libro de movimientos.
type LedgerEntryResponse struct {
	ID                    string          `json:"id"`
	OperationID           string          `json:"operation_id"`
	LineID                string          `json:"line_id"`
	ProductID             string          `json:"product_id"`
	LocationID            string          `json:"location_id"`
	SourceLocationID      *string         `json:"source_location_id,omitempty"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty"`
	QuantityChange        decimal.Decimal `json:"quantity_change"`
	QuantityAfter         decimal.Decimal `json:"quantity_after"`
	CreatedAt             time.Time       `json:"created_at"`
}

// LedgerListResponse lista paginada del libro.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	OutOfStock         bool            `json:"out_of_stock"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
