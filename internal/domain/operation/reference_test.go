package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/operation"
)

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de bodega para la referencia
// ──────────────────────────────────────────────────────────────────────────────

func TestReferenceLocationID_PorTipo(t *testing.T) {
	src, dst := strPtr("loc-src"), strPtr("loc-dst")

	cases := []struct {
		name string
		op   entity.Operation
		want *string
	}{
		{"recepción usa destino", entity.Operation{Type: entity.OperationReceipt, SourceLocationID: src, DestinationLocationID: dst}, dst},
		{"entrega usa origen", entity.Operation{Type: entity.OperationDelivery, SourceLocationID: src, DestinationLocationID: dst}, src},
		{"traslado usa origen", entity.Operation{Type: entity.OperationInternal, SourceLocationID: src, DestinationLocationID: dst}, src},
		{"ajuste usa origen", entity.Operation{Type: entity.OperationAdjust, SourceLocationID: src, DestinationLocationID: dst}, src},
		{"ajuste sin origen cae a destino", entity.Operation{Type: entity.OperationAdjust, DestinationLocationID: dst}, dst},
		{"entrega sin origen", entity.Operation{Type: entity.OperationDelivery, DestinationLocationID: dst}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, operation.ReferenceLocationID(&tc.op))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato y parseo
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatReference_CodigosYRelleno(t *testing.T) {
	assert.Equal(t, "WH1/IN/2025/0001", operation.FormatReference(entity.OperationReceipt, "WH1", 2025, 1))
	assert.Equal(t, "WH1/OUT/2025/0042", operation.FormatReference(entity.OperationDelivery, "WH1", 2025, 42))
	assert.Equal(t, "MAIN/MOVE/2026/0100", operation.FormatReference(entity.OperationInternal, "MAIN", 2026, 100))
	assert.Equal(t, "WH/ADJ/2026/0007", operation.FormatReference(entity.OperationAdjust, "", 2026, 7),
		"sin bodega se usa el literal WH")
	assert.Equal(t, "WH1/IN/2025/12345", operation.FormatReference(entity.OperationReceipt, "WH1", 2025, 12345),
		"secuencias de más de 4 dígitos no se truncan")
}

func TestParseSequence(t *testing.T) {
	n, ok := operation.ParseSequence("WH1/IN/2025/0012")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = operation.ParseSequence("WH1/IN/2025/abc")
	assert.False(t, ok)

	_, ok = operation.ParseSequence("")
	assert.False(t, ok)
}

func TestSeedSequence(t *testing.T) {
	last, degraded := operation.SeedSequence("", false, 0)
	assert.Equal(t, 0, last)
	assert.False(t, degraded, "sin registros previos no hay degradación")

	last, degraded = operation.SeedSequence("WH1/IN/2025/0009", true, 3)
	assert.Equal(t, 9, last)
	assert.False(t, degraded)

	last, degraded = operation.SeedSequence("WH1/IN/2025/XX", true, 4)
	assert.Equal(t, 4, last, "referencia ilegible cae al conteo")
	assert.True(t, degraded)

	last, _ = operation.SeedSequence("WH1/IN/2025/0002", true, 5)
	assert.Equal(t, 5, last, "nunca por debajo del conteo del alcance")
}
