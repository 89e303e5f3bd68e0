package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	uc        *inventory.OperationUseCase
	publisher *recordingPublisher

	warehouse *entity.Warehouse
	stock     *entity.Location // WH1/Stock
	shelf     *entity.Location // WH1/Shelf
	supplier  *entity.Partner
	customer  *entity.Partner
	product   *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := &fixture{
		ctx:       ctx,
		store:     store,
		publisher: &recordingPublisher{},
		warehouse: &entity.Warehouse{ID: uuid.NewString(), Code: "WH1", Name: "Principal"},
		supplier:  &entity.Partner{ID: uuid.NewString(), Name: "Acme", Type: entity.PartnerSupplier},
		customer:  &entity.Partner{ID: uuid.NewString(), Name: "Tienda", Type: entity.PartnerCustomer},
		product:   &entity.Product{ID: uuid.NewString(), SKU: "SKU-1", Name: "Tornillo", MinStock: decimal.NewFromInt(5), Active: true},
	}
	f.stock = &entity.Location{ID: uuid.NewString(), WarehouseID: f.warehouse.ID, Name: "Stock"}
	f.shelf = &entity.Location{ID: uuid.NewString(), WarehouseID: f.warehouse.ID, Name: "Shelf"}

	require.NoError(t, store.Warehouses().Create(ctx, f.warehouse))
	require.NoError(t, store.Locations().Create(ctx, f.stock))
	require.NoError(t, store.Locations().Create(ctx, f.shelf))
	require.NoError(t, store.Partners().Create(ctx, f.supplier))
	require.NoError(t, store.Partners().Create(ctx, f.customer))
	require.NoError(t, store.Products().Create(ctx, f.product))

	f.uc = inventory.NewOperationUseCase(store, store.Operations(), f.publisher, logger.Nop())
	f.uc.SetClock(func() time.Time { return testNow })
	return f
}

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) create(t *testing.T, in dto.CreateOperationRequest) *dto.OperationResponse {
	t.Helper()
	op, err := f.uc.Create(f.ctx, "user-1", in)
	require.NoError(t, err)
	return op
}

func (f *fixture) receipt(t *testing.T, n int64) *dto.OperationResponse {
	t.Helper()
	return f.create(t, dto.CreateOperationRequest{
		Type:                  string(entity.OperationReceipt),
		PartnerID:             &f.supplier.ID,
		DestinationLocationID: &f.stock.ID,
		Lines:                 []dto.OperationLineRequest{{ProductID: f.product.ID, Quantity: qty(n)}},
	})
}

func (f *fixture) delivery(t *testing.T, n int64) *dto.OperationResponse {
	t.Helper()
	return f.create(t, dto.CreateOperationRequest{
		Type:             string(entity.OperationDelivery),
		PartnerID:        &f.customer.ID,
		SourceLocationID: &f.stock.ID,
		Lines:            []dto.OperationLineRequest{{ProductID: f.product.ID, Quantity: qty(n)}},
	})
}

func (f *fixture) level(t *testing.T, loc *entity.Location) decimal.Decimal {
	t.Helper()
	l, err := f.store.Stock().Get(f.ctx, f.product.ID, loc.ID)
	require.NoError(t, err)
	return l.Quantity
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.OperationValidated
	err    error
}

func (p *recordingPublisher) PublishOperationValidated(_ context.Context, evt event.OperationValidated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
