package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType tipo cerrado de operación de inventario.
type OperationType string

// Tipos de operación.
const (
	OperationReceipt  OperationType = "RECEIPT"  // entrada desde proveedor
	OperationDelivery OperationType = "DELIVERY" // salida a cliente
	OperationInternal OperationType = "INTERNAL" // traslado entre ubicaciones
	OperationAdjust   OperationType = "ADJUST"   // ajuste por conteo físico
)

// OperationTypes lista todos los tipos válidos en orden estable.
var OperationTypes = []OperationType{OperationReceipt, OperationDelivery, OperationInternal, OperationAdjust}

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t OperationType) Valid() bool {
	switch t {
	case OperationReceipt, OperationDelivery, OperationInternal, OperationAdjust:
		return true
	}
	return false
}

// OperationStatus estado del ciclo de vida de una operación.
type OperationStatus string

// Estados de operación.
const (
	StatusDraft   OperationStatus = "DRAFT"
	StatusWaiting OperationStatus = "WAITING"
	StatusReady   OperationStatus = "READY"
	StatusDone    OperationStatus = "DONE"
	StatusCancel  OperationStatus = "CANCEL"
)

// Operation documento de inventario (recepción, entrega, traslado o ajuste).
// Reference se asigna una sola vez al crear y no cambia después.
type Operation struct {
	ID                    string
	Reference             string
	Type                  OperationType
	Status                OperationStatus
	PartnerID             *string
	SourceLocationID      *string
	DestinationLocationID *string
	ScheduledDate         time.Time
	CreatedBy             string
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ValidatedAt           *time.Time
}

// IsTerminal indica si la operación ya no admite transiciones.
func (o *Operation) IsTerminal() bool {
	return o.Status == StatusDone || o.Status == StatusCancel
}

// OperationLine renglón de una operación.
// Quantity es positiva salvo en ajustes, donde es el delta con signo.
// SystemQuantity/CountedQuantity solo aplican a ajustes y quedan como soporte de auditoría.
type OperationLine struct {
	ID              string
	OperationID     string
	ProductID       string
	ProductSKU      string // solo lectura
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	SystemQuantity  *decimal.Decimal
	CountedQuantity *decimal.Decimal
}
