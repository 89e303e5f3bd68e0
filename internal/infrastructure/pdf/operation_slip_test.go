package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
)

func TestGenerateOperationSlip(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	cost := decimal.RequireFromString("12500")
	slip := inventory.OperationSlip{
		Operation: &entity.Operation{
			ID:            "op-1",
			Reference:     "WH1/IN/2026/0001",
			Type:          entity.OperationReceipt,
			Status:        entity.StatusDone,
			ScheduledDate: now,
			CreatedAt:     now,
			ValidatedAt:   &now,
			Notes:         "Entrega parcial",
		},
		Lines: []inventory.SlipLine{
			{SKU: "SKU-1", ProductName: "Tornillo", Quantity: decimal.NewFromInt(10), UnitCost: &cost},
		},
		PartnerName: "Proveedor SAS",
		Destination: "WH1/Stock",
		GeneratedAt: now,
	}

	doc, err := pdf.NewSlipGenerator("Bodega central").GenerateOperationSlip(context.Background(), slip)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateOperationSlip_SinRenglones(t *testing.T) {
	slip := inventory.OperationSlip{
		Operation: &entity.Operation{Reference: "WH/ADJ/2026/0001", Type: entity.OperationAdjust, Status: entity.StatusDraft},
	}
	doc, err := pdf.NewSlipGenerator("").GenerateOperationSlip(context.Background(), slip)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestGenerateOperationSlip_SinOperacion(t *testing.T) {
	_, err := pdf.NewSlipGenerator("").GenerateOperationSlip(context.Background(), inventory.OperationSlip{})
	assert.Error(t, err)
}
