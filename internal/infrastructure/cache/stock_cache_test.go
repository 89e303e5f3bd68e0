package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Redis inalcanzable: la caché degrada a fallos sin romper la lectura.
func unreachableCache() *cache.StockCache {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return cache.NewStockCache(client, time.Minute, logger.Nop())
}

func TestStockCache_SinRedisEsFallo(t *testing.T) {
	c := unreachableCache()
	ctx := context.Background()

	c.SetLevel(ctx, &entity.StockLevel{ProductID: "p1", LocationID: "l1", Quantity: decimal.NewFromInt(3)})
	_, ok := c.GetLevel(ctx, "p1", "l1")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
	assert.Equal(t, int64(0), c.Stats().Hits)
}

func TestStockCache_InvalidacionSinMovimientos(t *testing.T) {
	c := unreachableCache()
	assert.NoError(t, c.PublishOperationValidated(context.Background(), event.OperationValidated{Reference: "WH1/IN/2026/0001"}))
}

func TestStockCache_InvalidacionReportaError(t *testing.T) {
	c := unreachableCache()
	err := c.PublishOperationValidated(context.Background(), event.OperationValidated{
		Reference: "WH1/IN/2026/0001",
		Movements: []event.StockMovement{{ProductID: "p1", LocationID: "l1"}},
	})
	assert.Error(t, err)
}

// ─── Versionado con Redis en proceso ───────────────────────────────────────────

func miniCache(t *testing.T) (*cache.StockCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStockCache(client, time.Minute, logger.Nop()), mr
}

func level(qty int64, at time.Time) *entity.StockLevel {
	return &entity.StockLevel{ProductID: "p1", LocationID: "l1", Quantity: decimal.NewFromInt(qty), UpdatedAt: at}
}

func TestStockCache_LectorAtrasadoNoPisaLaValidacion(t *testing.T) {
	c, _ := miniCache(t)
	ctx := context.Background()
	before := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	validated := before.Add(time.Second)

	// Un lector leyó el nivel previo (5) y se demora en cachearlo.
	stale := level(5, before)

	require.NoError(t, c.PublishOperationValidated(ctx, event.OperationValidated{
		Reference:   "WH1/OUT/2026/0001",
		ValidatedAt: validated,
		Movements: []event.StockMovement{
			{ProductID: "p1", LocationID: "l1", QuantityChange: decimal.NewFromInt(-3), QuantityAfter: decimal.NewFromInt(2)},
		},
	}))
	c.SetLevel(ctx, stale)

	got, ok := c.GetLevel(ctx, "p1", "l1")
	require.True(t, ok)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(2)), "gana el nivel validado")
	assert.True(t, got.UpdatedAt.Equal(validated))
}

func TestStockCache_NivelMasNuevoReemplaza(t *testing.T) {
	c, mr := miniCache(t)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	c.SetLevel(ctx, level(5, t0))
	c.SetLevel(ctx, level(8, t0.Add(time.Millisecond)))

	got, ok := c.GetLevel(ctx, "p1", "l1")
	require.True(t, ok)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, time.Minute, mr.TTL("stock:p1:l1"))
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestLevelsAfter_UltimoMovimientoPorPar(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	levels := cache.LevelsAfter(event.OperationValidated{
		ValidatedAt: at,
		Movements: []event.StockMovement{
			{ProductID: "p1", LocationID: "l1", QuantityAfter: decimal.NewFromInt(7)},
			{ProductID: "p1", LocationID: "l2", QuantityAfter: decimal.NewFromInt(1)},
			{ProductID: "p1", LocationID: "l1", QuantityAfter: decimal.NewFromInt(4)},
		},
	})
	require.Len(t, levels, 2)
	assert.Equal(t, "l1", levels[0].LocationID)
	assert.True(t, levels[0].Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, levels[0].UpdatedAt.Equal(at))
	assert.Equal(t, "l2", levels[1].LocationID)
}
