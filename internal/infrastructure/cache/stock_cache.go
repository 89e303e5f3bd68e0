// Package cache caché de niveles de stock en Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var (
	_ inventory.StockCache     = (*StockCache)(nil)
	_ inventory.EventPublisher = (*StockCache)(nil)
)

// NewRedisClient abre el cliente y verifica la conexión con un ping.
func NewRedisClient(cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	// Si se proporciona una contraseña separada, usarla
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", opt.Addr).Int("db", cfg.DB).Msg("conexión a Redis establecida")
	return client, nil
}

// Stats aciertos y fallos de lectura.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// StockCache guarda niveles por (producto, ubicación) con TTL. Un error de Redis cuenta como fallo
// de caché: la lectura sigue contra la base de datos.
//
// Cada entrada lleva una versión (UpdatedAt del nivel en microsegundos, exacto como número de Lua) y solo se escribe si es
// más nueva que la guardada. Al recibir operation.validated se escribe el nivel resultante con la
// versión de la validación, así un lector que leyó el nivel anterior no puede pisarlo después.
// Queda una ventana: si la publicación del evento falla, la entrada vieja vive hasta el TTL.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// setIfNewer KEYS[1]=clave; ARGV: versión, datos JSON, TTL en ms (0 sin vencimiento). Devuelve 1 si escribió.
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// NewStockCache construye la caché sobre un cliente ya conectado.
func NewStockCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *StockCache {
	if log == nil {
		log = logger.Nop()
	}
	return &StockCache{client: client, ttl: ttl, log: log.Named("stock_cache")}
}

func levelKey(productID, locationID string) string {
	return fmt.Sprintf("stock:%s:%s", productID, locationID)
}

// GetLevel devuelve el nivel cacheado, si existe.
func (c *StockCache) GetLevel(ctx context.Context, productID, locationID string) (*entity.StockLevel, bool) {
	data, err := c.client.HGet(ctx, levelKey(productID, locationID), "data").Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Msg("lectura de caché fallida")
		}
		c.misses.Add(1)
		return nil, false
	}
	var level entity.StockLevel
	if err := json.Unmarshal([]byte(data), &level); err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &level, true
}

// SetLevel guarda el nivel si es más nuevo que el cacheado. Los errores solo se registran.
func (c *StockCache) SetLevel(ctx context.Context, level *entity.StockLevel) {
	if _, err := c.store(ctx, level); err != nil {
		c.log.Debug().Err(err).Msg("escritura de caché fallida")
	}
}

func (c *StockCache) store(ctx context.Context, level *entity.StockLevel) (bool, error) {
	data, err := json.Marshal(level)
	if err != nil {
		return false, err
	}
	n, err := setIfNewer.Run(ctx, c.client,
		[]string{levelKey(level.ProductID, level.LocationID)},
		level.UpdatedAt.UnixMicro(), string(data), c.ttl.Milliseconds(),
	).Int()
	return n == 1, err
}

// PublishOperationValidated escribe el nivel final de cada par tocado por la operación.
func (c *StockCache) PublishOperationValidated(ctx context.Context, evt event.OperationValidated) error {
	var errs error
	for _, level := range LevelsAfter(evt) {
		if _, err := c.store(ctx, level); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return fmt.Errorf("actualizar caché de %s: %w", evt.Reference, errs)
	}
	return nil
}

// LevelsAfter nivel final por (producto, ubicación) según el evento: si un par aparece varias
// veces gana el último movimiento. La versión es la fecha de validación.
func LevelsAfter(evt event.OperationValidated) []*entity.StockLevel {
	type key struct{ product, location string }
	idx := make(map[key]int, len(evt.Movements))
	out := make([]*entity.StockLevel, 0, len(evt.Movements))
	for _, m := range evt.Movements {
		k := key{m.ProductID, m.LocationID}
		level := &entity.StockLevel{
			ProductID:  m.ProductID,
			LocationID: m.LocationID,
			Quantity:   m.QuantityAfter,
			UpdatedAt:  evt.ValidatedAt,
		}
		if i, ok := idx[k]; ok {
			out[i] = level
			continue
		}
		idx[k] = len(out)
		out = append(out, level)
	}
	return out
}

// Stats devuelve los contadores de aciertos y fallos.
func (c *StockCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
