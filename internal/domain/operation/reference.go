package operation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DefaultWarehouseCode se usa cuando no se puede resolver la bodega de la operación.
const DefaultWarehouseCode = "WH"

// ReferenceLocationID devuelve la ubicación de la que se toma la bodega para la referencia:
// recepción → destino; entrega y traslado → origen; ajuste → origen o, si falta, destino.
func ReferenceLocationID(op *entity.Operation) *string {
	p, ok := PolicyFor(op.Type)
	if !ok {
		return nil
	}
	if !p.ReferenceFromSource {
		return op.DestinationLocationID
	}
	if op.SourceLocationID == nil && op.Type == entity.OperationAdjust {
		return op.DestinationLocationID
	}
	return op.SourceLocationID
}

// ReferencePrefix arma "WH1/IN/2025/". Un código vacío usa DefaultWarehouseCode.
func ReferencePrefix(t entity.OperationType, warehouseCode string, year int) string {
	if warehouseCode == "" {
		warehouseCode = DefaultWarehouseCode
	}
	code := "UNK"
	if p, ok := PolicyFor(t); ok {
		code = p.Code
	}
	return fmt.Sprintf("%s/%s/%d/", warehouseCode, code, year)
}

// FormatReference arma la referencia completa con secuencia de 4 dígitos (más si no alcanza).
func FormatReference(t entity.OperationType, warehouseCode string, year, seq int) string {
	return fmt.Sprintf("%s%04d", ReferencePrefix(t, warehouseCode, year), seq)
}

// ParseSequence extrae el segmento numérico final de una referencia.
func ParseSequence(reference string) (int, bool) {
	i := strings.LastIndex(reference, "/")
	tail := reference[i+1:]
	n, err := strconv.Atoi(tail)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// SeedSequence calcula el último número usado en un alcance que aún no tiene contador.
// Usa la referencia más reciente; si no se puede leer, cae al conteo de operaciones del alcance.
// degraded indica que se usó el respaldo.
func SeedSequence(latestRef string, hasLatest bool, count int) (last int, degraded bool) {
	if !hasLatest {
		return 0, false
	}
	if n, ok := ParseSequence(latestRef); ok {
		// Nunca por debajo del conteo del alcance.
		if n < count {
			return count, false
		}
		return n, false
	}
	return count, true
}
