package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ─── Transacciones ─────────────────────────────────────────────────────────────

func TestRun_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	boom := errors.New("boom")

	err := store.Run(ctx, func(repos repository.TxRepos) error {
		require.NoError(t, repos.Stock.Upsert(ctx, &entity.StockLevel{ProductID: "p1", LocationID: "A", Quantity: decimal.NewFromInt(7)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	level, err := store.Stock().Get(ctx, "p1", "A")
	require.NoError(t, err)
	assert.True(t, level.Quantity.IsZero(), "el rollback no deja rastro")
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	err := store.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Stock.Upsert(ctx, &entity.StockLevel{ProductID: "p1", LocationID: "A", Quantity: decimal.NewFromInt(7)})
	})
	require.NoError(t, err)

	level, err := store.Stock().Get(ctx, "p1", "A")
	require.NoError(t, err)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(7)))
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.New().Run(ctx, func(repository.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ─── Secuencias ────────────────────────────────────────────────────────────────

func TestSequence_InitEIncrement(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	scope := repository.SequenceScope{Type: entity.OperationReceipt, Year: 2026, WarehouseCode: "WH1"}

	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		_, found, err := repos.Sequences.Increment(ctx, scope)
		require.NoError(t, err)
		assert.False(t, found)

		created, err := repos.Sequences.Init(ctx, scope, 5)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repos.Sequences.Init(ctx, scope, 1)
		require.NoError(t, err)
		assert.False(t, created, "el segundo Init no pisa el contador")

		v, found, err := repos.Sequences.Increment(ctx, scope)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 6, v)
		return nil
	}))
}

// ─── Repositorios ──────────────────────────────────────────────────────────────

func TestRepos_NotFoundYDuplicados(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := store.Products().GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Operations().GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p := &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Tornillo", Active: true}
	require.NoError(t, store.Products().Create(ctx, p))
	err = store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "SKU-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	w := &entity.Warehouse{ID: "w1", Code: "WH1", Name: "Principal"}
	require.NoError(t, store.Warehouses().Create(ctx, w))
	assert.ErrorIs(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Code: "WH1"}), domain.ErrDuplicate)

	err = store.Locations().Create(ctx, &entity.Location{ID: "l1", WarehouseID: "otra", Name: "Rack"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "la bodega debe existir")
}

func TestRepos_DevuelvenCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Tornillo"}))

	got, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	got.Name = "modificado"

	again, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Tornillo", again.Name)
}

func TestLocation_LlenaWarehouseCode(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Code: "WH1", Name: "Principal"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l1", WarehouseID: "w1", Name: "Stock"}))

	loc, err := store.Locations().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "WH1", loc.WarehouseCode)
	assert.Equal(t, "WH1/Stock", loc.FullName())
}

func TestOperation_UpdateNoCambiaReferencia(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	op := &entity.Operation{ID: "o1", Reference: "WH1/IN/2026/0001", Type: entity.OperationReceipt, Status: entity.StatusDraft}
	require.NoError(t, store.Operations().Create(ctx, op, nil))

	op.Reference = "otra"
	op.Status = entity.StatusReady
	require.NoError(t, store.Operations().Update(ctx, op))

	got, err := store.Operations().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "WH1/IN/2026/0001", got.Reference)
	assert.Equal(t, entity.StatusReady, got.Status)
}

func TestOperation_LatestReferenceWithPrefix(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ops := store.Operations()
	for i, ref := range []string{"WH1/IN/2026/0003", "WH1/IN/2026/0001", "WH1/OUT/2026/0009"} {
		op := &entity.Operation{ID: string(rune('a' + i)), Reference: ref}
		require.NoError(t, ops.Create(ctx, op, nil))
	}

	ref, found, err := ops.LatestReferenceWithPrefix(ctx, "WH1/IN/2026/")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "WH1/IN/2026/0001", ref, "la última creada, no la mayor")

	n, err := ops.CountReferencesWithPrefix(ctx, "WH1/IN/2026/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, found, err = ops.LatestReferenceWithPrefix(ctx, "WH2/IN/2026/")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLedger_Filtros(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for i, loc := range []string{"A", "B", "A"} {
		require.NoError(t, store.Ledger().Create(ctx, &entity.StockLedgerEntry{
			ID: string(rune('a' + i)), ProductID: "p1", LocationID: loc, QuantityChange: decimal.NewFromInt(int64(i + 1)),
		}))
	}

	entries, err := store.Ledger().List(ctx, repository.LedgerFilter{LocationID: "A"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ID, "más recientes primero")

	entries, err = store.Ledger().List(ctx, repository.LedgerFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ID)
}

func TestReport_StockByProductPorBodega(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Code: "WH1"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Code: "WH2"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l1", WarehouseID: "w1", Name: "Stock"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l2", WarehouseID: "w2", Name: "Stock"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Active: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "SKU-2", Active: false}))
	require.NoError(t, store.Stock().Upsert(ctx, &entity.StockLevel{ProductID: "p1", LocationID: "l1", Quantity: decimal.NewFromInt(4)}))
	require.NoError(t, store.Stock().Upsert(ctx, &entity.StockLevel{ProductID: "p1", LocationID: "l2", Quantity: decimal.NewFromInt(6)}))

	all, err := store.Reports().StockByProduct(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1, "los inactivos no aparecen")
	assert.True(t, all[0].Quantity.Equal(decimal.NewFromInt(10)))

	wh1, err := store.Reports().StockByProduct(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, wh1, 1)
	assert.True(t, wh1[0].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestPartner_ListIncluyeAmbos(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Partners().Create(ctx, &entity.Partner{ID: "1", Name: "Acme", Type: entity.PartnerSupplier}))
	require.NoError(t, store.Partners().Create(ctx, &entity.Partner{ID: "2", Name: "Both", Type: entity.PartnerBoth}))
	require.NoError(t, store.Partners().Create(ctx, &entity.Partner{ID: "3", Name: "Shop", Type: entity.PartnerCustomer}))

	suppliers, err := store.Partners().List(ctx, entity.PartnerSupplier, 0, 0)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Acme", suppliers[0].Name)
	assert.Equal(t, "Both", suppliers[1].Name)
}
