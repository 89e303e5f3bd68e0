package operation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/operation"
)

func stockOf(levels map[string]int64) operation.StockLookup {
	return func(productID, locationID string) decimal.Decimal {
		return decimal.NewFromInt(levels[productID+"@"+locationID])
	}
}

func line(productID, sku string, qty int64) *entity.OperationLine {
	return &entity.OperationLine{ProductID: productID, ProductSKU: sku, Quantity: decimal.NewFromInt(qty)}
}

func requireReason(t *testing.T, err error, reason domain.RejectionReason) *domain.RejectionError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationRejected), "debe ser un rechazo de validación")
	re, ok := domain.RejectionOf(err)
	require.True(t, ok)
	assert.Equal(t, reason, re.Reason)
	return re
}

func TestCanValidate_DeliveryStockInsuficiente(t *testing.T) {
	op := &entity.Operation{Type: entity.OperationDelivery, Status: entity.StatusDraft, SourceLocationID: strPtr("A")}
	err := operation.CanValidate(op, []*entity.OperationLine{line("p1", "SKU1", 8)}, stockOf(map[string]int64{"p1@A": 5}))

	re := requireReason(t, err, domain.ReasonInsufficientStock)
	assert.Contains(t, re.Message, "Insufficient stock")
	assert.Contains(t, re.Message, "SKU1")
	assert.Contains(t, re.Message, "Available: 5, Required: 8")
}

func TestCanValidate_DeliveryConStockSuficiente(t *testing.T) {
	op := &entity.Operation{Type: entity.OperationDelivery, Status: entity.StatusReady, SourceLocationID: strPtr("A")}
	err := operation.CanValidate(op, []*entity.OperationLine{line("p1", "SKU1", 3)}, stockOf(map[string]int64{"p1@A": 5}))
	assert.NoError(t, err)
}

func TestCanValidate_RenglonesDelMismoProductoSeSuman(t *testing.T) {
	op := &entity.Operation{Type: entity.OperationInternal, Status: entity.StatusDraft,
		SourceLocationID: strPtr("A"), DestinationLocationID: strPtr("B")}
	lines := []*entity.OperationLine{line("p1", "SKU1", 3), line("p1", "SKU1", 3)}
	err := operation.CanValidate(op, lines, stockOf(map[string]int64{"p1@A": 5}))

	re := requireReason(t, err, domain.ReasonInsufficientStock)
	assert.Contains(t, re.Message, "Available: 5, Required: 6")
}

func TestCanValidate_OrdenDeReglas(t *testing.T) {
	// Done gana sobre todo lo demás, aunque no tenga renglones ni ubicaciones.
	done := &entity.Operation{Type: entity.OperationDelivery, Status: entity.StatusDone}
	requireReason(t, operation.CanValidate(done, nil, stockOf(nil)), domain.ReasonAlreadyDone)

	cancelled := &entity.Operation{Type: entity.OperationDelivery, Status: entity.StatusCancel}
	requireReason(t, operation.CanValidate(cancelled, nil, stockOf(nil)), domain.ReasonCancelled)

	// Sin renglones antes que ubicación faltante.
	noLines := &entity.Operation{Type: entity.OperationDelivery, Status: entity.StatusDraft}
	requireReason(t, operation.CanValidate(noLines, nil, stockOf(nil)), domain.ReasonNoLines)

	// Ubicación faltante antes que disponibilidad.
	noSource := &entity.Operation{Type: entity.OperationDelivery, Status: entity.StatusDraft}
	requireReason(t, operation.CanValidate(noSource, []*entity.OperationLine{line("p1", "SKU1", 100)}, stockOf(nil)),
		domain.ReasonMissingLocation)
}

func TestCanValidate_UbicacionesPorTipo(t *testing.T) {
	lines := []*entity.OperationLine{line("p1", "SKU1", 1)}
	levels := stockOf(map[string]int64{"p1@A": 10})

	receipt := &entity.Operation{Type: entity.OperationReceipt, Status: entity.StatusDraft, SourceLocationID: strPtr("A")}
	requireReason(t, operation.CanValidate(receipt, lines, levels), domain.ReasonMissingLocation)

	transferNoDest := &entity.Operation{Type: entity.OperationInternal, Status: entity.StatusDraft, SourceLocationID: strPtr("A")}
	requireReason(t, operation.CanValidate(transferNoDest, lines, levels), domain.ReasonMissingLocation)

	transferSame := &entity.Operation{Type: entity.OperationInternal, Status: entity.StatusDraft,
		SourceLocationID: strPtr("A"), DestinationLocationID: strPtr("A")}
	requireReason(t, operation.CanValidate(transferSame, lines, levels), domain.ReasonSameLocation)

	adjustNoLoc := &entity.Operation{Type: entity.OperationAdjust, Status: entity.StatusDraft}
	requireReason(t, operation.CanValidate(adjustNoLoc, lines, levels), domain.ReasonMissingLocation)
}

func TestCanValidate_RecepcionYAjusteNoVerificanDisponibilidad(t *testing.T) {
	receipt := &entity.Operation{Type: entity.OperationReceipt, Status: entity.StatusDraft, DestinationLocationID: strPtr("A")}
	assert.NoError(t, operation.CanValidate(receipt, []*entity.OperationLine{line("p1", "SKU1", 1000)}, stockOf(nil)))

	adjust := &entity.Operation{Type: entity.OperationAdjust, Status: entity.StatusDraft,
		SourceLocationID: strPtr("A"), DestinationLocationID: strPtr("A")}
	assert.NoError(t, operation.CanValidate(adjust, []*entity.OperationLine{line("p1", "SKU1", -50)}, stockOf(nil)))
}

func TestLockOrder_DeterministaySinRepetidos(t *testing.T) {
	op := &entity.Operation{Type: entity.OperationInternal, SourceLocationID: strPtr("B"), DestinationLocationID: strPtr("A")}
	movs, err := operation.Movements(op, []*entity.OperationLine{line("p2", "", 1), line("p1", "", 1), line("p2", "", 2)})
	require.NoError(t, err)

	keys := operation.LockOrder(movs)
	assert.Equal(t, []operation.LockKey{
		{ProductID: "p1", LocationID: "A"},
		{ProductID: "p1", LocationID: "B"},
		{ProductID: "p2", LocationID: "A"},
		{ProductID: "p2", LocationID: "B"},
	}, keys)
}
