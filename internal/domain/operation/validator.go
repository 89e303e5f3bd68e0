package operation

import (
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockLookup cantidad disponible de un producto en una ubicación.
type StockLookup func(productID, locationID string) decimal.Decimal

// CheckHeader verifica el estado y la completitud de ubicaciones (reglas 1 a 3).
// Una operación Done devuelve un rechazo ReasonAlreadyDone que el caller trata como aviso.
func CheckHeader(op *entity.Operation, lines []*entity.OperationLine) error {
	switch op.Status {
	case entity.StatusDone:
		return domain.Reject(domain.ReasonAlreadyDone, "Operation %s is already done", op.Reference)
	case entity.StatusCancel:
		return domain.Reject(domain.ReasonCancelled, "Operation %s is cancelled and cannot be validated", op.Reference)
	}
	if len(lines) == 0 {
		return domain.Reject(domain.ReasonNoLines, "Operation %s has no lines", op.Reference)
	}
	p, ok := PolicyFor(op.Type)
	if !ok {
		return domain.InvalidInput("tipo de operación desconocido %q", op.Type)
	}
	if p.NeedsSource && op.SourceLocationID == nil {
		return domain.Reject(domain.ReasonMissingLocation, "%s requires a source location", typeLabel(op.Type))
	}
	if p.NeedsDestination && op.DestinationLocationID == nil {
		return domain.Reject(domain.ReasonMissingLocation, "%s requires a destination location", typeLabel(op.Type))
	}
	if p.DistinctLocations && *op.SourceLocationID == *op.DestinationLocationID {
		return domain.Reject(domain.ReasonSameLocation, "Source and destination locations must differ")
	}
	return nil
}

// CheckAvailability verifica stock suficiente en origen para tipos salientes (regla 4).
// Los renglones del mismo producto se suman antes de comparar.
func CheckAvailability(op *entity.Operation, lines []*entity.OperationLine, available StockLookup) error {
	p, ok := PolicyFor(op.Type)
	if !ok || !p.ChecksAvailability {
		return nil
	}
	required := make(map[string]decimal.Decimal)
	skus := make(map[string]string)
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, seen := required[l.ProductID]; !seen {
			order = append(order, l.ProductID)
		}
		required[l.ProductID] = required[l.ProductID].Add(l.Quantity)
		if l.ProductSKU != "" {
			skus[l.ProductID] = l.ProductSKU
		}
	}
	for _, productID := range order {
		have := available(productID, *op.SourceLocationID)
		need := required[productID]
		if have.LessThan(need) {
			label := skus[productID]
			if label == "" {
				label = productID
			}
			return domain.Reject(domain.ReasonInsufficientStock,
				"Insufficient stock for %s. Available: %s, Required: %s", label, have.String(), need.String())
		}
	}
	return nil
}

// CanValidate ejecuta todas las reglas en orden; la primera falla gana.
func CanValidate(op *entity.Operation, lines []*entity.OperationLine, available StockLookup) error {
	if err := CheckHeader(op, lines); err != nil {
		return err
	}
	return CheckAvailability(op, lines, available)
}

// LockKey par (producto, ubicación) a bloquear antes de validar.
type LockKey struct {
	ProductID  string
	LocationID string
}

// LockOrder devuelve los pares tocados por los movimientos, sin repetir y en orden determinista
// para evitar deadlocks entre validaciones concurrentes.
func LockOrder(movements []Movement) []LockKey {
	seen := make(map[LockKey]struct{}, len(movements))
	keys := make([]LockKey, 0, len(movements))
	for _, m := range movements {
		k := LockKey{ProductID: m.ProductID, LocationID: m.LocationID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		return keys[i].LocationID < keys[j].LocationID
	})
	return keys
}

func typeLabel(t entity.OperationType) string {
	switch t {
	case entity.OperationReceipt:
		return "Receipt"
	case entity.OperationDelivery:
		return "Delivery"
	case entity.OperationInternal:
		return "Internal transfer"
	case entity.OperationAdjust:
		return "Stock adjustment"
	}
	return string(t)
}
