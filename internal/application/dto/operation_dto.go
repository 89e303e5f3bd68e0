package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationLineRequest renglón de una operación.
// Quantity es positiva salvo en ajustes (delta con signo). En ajustes, si Quantity es 0 y vienen
// system_quantity y counted_quantity, el delta se calcula como contado − sistema.
type OperationLineRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	SystemQuantity  *decimal.Decimal `json:"system_quantity,omitempty"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity,omitempty"`
}

// CreateOperationRequest body para POST /api/operations.
type CreateOperationRequest struct {
	Type                  string                 `json:"type" validate:"required,oneof=RECEIPT DELIVERY INTERNAL ADJUST"`
	PartnerID             *string                `json:"partner_id" validate:"omitempty,uuid"`
	SourceLocationID      *string                `json:"source_location_id" validate:"omitempty,uuid"`
	DestinationLocationID *string                `json:"destination_location_id" validate:"omitempty,uuid"`
	ScheduledDate         *time.Time             `json:"scheduled_date"`
	Notes                 string                 `json:"notes" validate:"max=2000"`
	Lines                 []OperationLineRequest `json:"lines" validate:"dive"`
}

// UpdateOperationRequest body para PUT /api/operations/:id (solo en DRAFT).
// Lines nil deja los renglones como están; una lista (incluso vacía) los reemplaza.
type UpdateOperationRequest struct {
	PartnerID             *string                `json:"partner_id" validate:"omitempty,uuid"`
	SourceLocationID      *string                `json:"source_location_id" validate:"omitempty,uuid"`
	DestinationLocationID *string                `json:"destination_location_id" validate:"omitempty,uuid"`
	ScheduledDate         *time.Time             `json:"scheduled_date"`
	Notes                 *string                `json:"notes" validate:"omitempty,max=2000"`
	Lines                 []OperationLineRequest `json:"lines" validate:"omitempty,dive"`
}

// OperationFilterRequest query de GET /api/operations.
type OperationFilterRequest struct {
	Type   string `query:"type" validate:"omitempty,oneof=RECEIPT DELIVERY INTERNAL ADJUST"`
	Status string `query:"status" validate:"omitempty,oneof=DRAFT WAITING READY DONE CANCEL"`
	PageRequest
}

// OperationLineResponse salida de un renglón.
type OperationLineResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	ProductSKU      string           `json:"product_sku,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	SystemQuantity  *decimal.Decimal `json:"system_quantity,omitempty"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity,omitempty"`
}

// OperationResponse salida de una operación con sus renglones.
type OperationResponse struct {
	ID                    string                  `json:"id"`
	Reference             string                  `json:"reference"`
	Type                  string                  `json:"type"`
	Status                string                  `json:"status"`
	PartnerID             *string                 `json:"partner_id,omitempty"`
	SourceLocationID      *string                 `json:"source_location_id,omitempty"`
	DestinationLocationID *string                 `json:"destination_location_id,omitempty"`
	ScheduledDate         time.Time               `json:"scheduled_date"`
	CreatedBy             string                  `json:"created_by"`
	Notes                 string                  `json:"notes"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
	ValidatedAt           *time.Time              `json:"validated_at,omitempty"`
	Lines                 []OperationLineResponse `json:"lines"`
}

// OperationListResponse lista paginada de operaciones (sin renglones).
type OperationListResponse struct {
	Items []OperationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// StockChangeDTO cambio aplicado a un nivel de stock al validar.
type StockChangeDTO struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Clamped        bool            `json:"clamped,omitempty"`
}

// ValidateOperationResponse salida de POST /api/operations/:id/validate.
// Warning viene lleno cuando la operación ya estaba en DONE (no se aplicó nada).
type ValidateOperationResponse struct {
	Operation OperationResponse `json:"operation"`
	Changes   []StockChangeDTO  `json:"changes"`
	Warning   string            `json:"warning,omitempty"`
}
