package analytics_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	wh := &entity.Warehouse{ID: uuid.NewString(), Code: "WH1", Name: "Principal"}
	stock := &entity.Location{ID: uuid.NewString(), WarehouseID: wh.ID, Name: "Stock"}
	supplier := &entity.Partner{ID: uuid.NewString(), Name: "Acme", Type: entity.PartnerSupplier}
	low := &entity.Product{ID: uuid.NewString(), SKU: "LOW", Name: "Bajo", MinStock: decimal.NewFromInt(5), Active: true}
	ok := &entity.Product{ID: uuid.NewString(), SKU: "OK", Name: "Suficiente", MinStock: decimal.NewFromInt(1), Active: true}
	empty := &entity.Product{ID: uuid.NewString(), SKU: "OUT", Name: "Agotado", Active: true}
	require.NoError(t, store.Warehouses().Create(ctx, wh))
	require.NoError(t, store.Locations().Create(ctx, stock))
	require.NoError(t, store.Partners().Create(ctx, supplier))
	for _, p := range []*entity.Product{low, ok, empty} {
		require.NoError(t, store.Products().Create(ctx, p))
	}

	ops := inventory.NewOperationUseCase(store, store.Operations(), nil, logger.Nop())
	receive := func(p *entity.Product, n int64) *dto.OperationResponse {
		op, err := ops.Create(ctx, "user-1", dto.CreateOperationRequest{
			Type:                  string(entity.OperationReceipt),
			PartnerID:             &supplier.ID,
			DestinationLocationID: &stock.ID,
			Lines:                 []dto.OperationLineRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(n)}},
		})
		require.NoError(t, err)
		return op
	}
	for _, r := range []struct {
		p *entity.Product
		n int64
	}{{low, 3}, {ok, 10}} {
		_, err := ops.Validate(ctx, receive(r.p, r.n).ID)
		require.NoError(t, err)
	}
	receive(ok, 1) // queda en DRAFT
	pending := receive(ok, 1)
	_, err := ops.MarkWaiting(ctx, pending.ID)
	require.NoError(t, err)

	summary, err := analytics.NewDashboardUseCase(store.Reports(), store.Operations()).GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 1, summary.LowStockCount)
	assert.Equal(t, 1, summary.OutOfStockCount)
	assert.Equal(t, 2, summary.PendingReceipts)
	assert.Zero(t, summary.PendingDeliveries)
	assert.Zero(t, summary.PendingInternalTransfers)
	assert.Len(t, summary.RecentOperations, 4)
}
