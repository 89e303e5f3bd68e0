package operation

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// NormalizeLine valida la cantidad de un renglón según el tipo y completa el delta de ajustes.
// En ajustes con conteo físico y cantidad de sistema y sin Quantity, el delta es contado − sistema.
func NormalizeLine(t entity.OperationType, l *entity.OperationLine) error {
	p, ok := PolicyFor(t)
	if !ok {
		return domain.InvalidInput("tipo de operación desconocido %q", t)
	}
	if l.ProductID == "" {
		return domain.InvalidInput("product_id es requerido en cada renglón")
	}
	if p.SignedQuantity {
		if l.Quantity.IsZero() && l.CountedQuantity != nil && l.SystemQuantity != nil {
			l.Quantity = l.CountedQuantity.Sub(*l.SystemQuantity)
		}
		if l.Quantity.IsZero() {
			return domain.InvalidInput("el ajuste del producto %s no cambia el stock", l.ProductID)
		}
	} else {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.InvalidInput("la cantidad debe ser positiva")
		}
		l.SystemQuantity, l.CountedQuantity = nil, nil
	}
	if l.UnitCost != nil {
		if !p.AcceptsUnitCost {
			l.UnitCost = nil
		} else if l.UnitCost.LessThan(decimal.Zero) {
			return domain.InvalidInput("unit_cost no puede ser negativo")
		}
	}
	return nil
}

// NormalizeLocations valida las ubicaciones de cabecera al crear/editar.
// Un ajuste usa una sola ubicación como origen y destino.
func NormalizeLocations(op *entity.Operation) error {
	p, ok := PolicyFor(op.Type)
	if !ok {
		return domain.InvalidInput("tipo de operación desconocido %q", op.Type)
	}
	switch op.Type {
	case entity.OperationAdjust:
		loc := op.SourceLocationID
		if loc == nil {
			loc = op.DestinationLocationID
		}
		op.SourceLocationID, op.DestinationLocationID = loc, loc
	case entity.OperationReceipt:
		op.SourceLocationID = nil
	case entity.OperationDelivery:
		op.DestinationLocationID = nil
	}
	if p.DistinctLocations && op.SourceLocationID != nil && op.DestinationLocationID != nil &&
		*op.SourceLocationID == *op.DestinationLocationID {
		return domain.Reject(domain.ReasonSameLocation, "Source and destination locations must differ")
	}
	return nil
}

// CheckPartner verifica que el tercero tenga el rol que pide el tipo de operación.
func CheckPartner(t entity.OperationType, partner *entity.Partner) error {
	if partner == nil {
		return nil
	}
	p, _ := PolicyFor(t)
	switch p.PartnerRole {
	case entity.PartnerSupplier:
		if !partner.IsSupplier() {
			return domain.Reject(domain.ReasonInvalidPartner, "Partner %s is not a supplier", partner.Name)
		}
	case entity.PartnerCustomer:
		if !partner.IsCustomer() {
			return domain.Reject(domain.ReasonInvalidPartner, "Partner %s is not a customer", partner.Name)
		}
	}
	return nil
}
