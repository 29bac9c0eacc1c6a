package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient crea el cliente de Redis con los parámetros de pool usados por la API.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// Connect verifica la conexión con un ping.
func Connect(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// StockCache guarda sumas de stock por (producto, bodega) con TTL.
// Cualquier error de Redis se trata como un fallo de cache: se registra y la lectura va al ledger.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStockCache crea el cache. Un ttl <= 0 usa 30s.
func NewStockCache(client *redis.Client, ttl time.Duration) *StockCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StockCache{client: client, ttl: ttl}
}

// Las versiones viven mucho más que las sumas; si una expira, el contador vuelve a 0.
const versionTTL = 24 * time.Hour

func stockKey(productID, warehouseID string) string {
	return "stock:" + productID + ":" + warehouseID
}

func versionKey(productID, warehouseID string) string {
	return "stockver:" + productID + ":" + warehouseID
}

// setIfVersion guarda la suma solo si la versión del par no cambió desde Get.
// KEYS[1]=stock, KEYS[2]=versión; ARGV[1]=versión vista, ARGV[2]=suma, ARGV[3]=ttl ms.
var setIfVersion = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if (v or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Get devuelve la suma cacheada y la versión actual del par.
// ok=false si no hay entrada o Redis falla; en un fallo de Redis la versión es -1 y Set no guardará nada.
func (c *StockCache) Get(ctx context.Context, productID, warehouseID string) (int64, int64, bool) {
	vals, err := c.client.MGet(ctx, stockKey(productID, warehouseID), versionKey(productID, warehouseID)).Result()
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Str("warehouse_id", warehouseID).Msg("stock cache get")
		return 0, -1, false
	}
	version, err := parseCounter(vals[1])
	if err != nil {
		log.Warn().Err(err).Str("key", versionKey(productID, warehouseID)).Msg("stock cache: versión corrupta")
		return 0, -1, false
	}
	if vals[0] == nil {
		return 0, version, false
	}
	qty, err := parseCounter(vals[0])
	if err != nil {
		log.Warn().Err(err).Str("key", stockKey(productID, warehouseID)).Msg("stock cache: valor corrupto")
		return 0, version, false
	}
	return qty, version, true
}

// Set guarda la suma con el TTL configurado si la versión sigue siendo la leída en Get.
func (c *StockCache) Set(ctx context.Context, productID, warehouseID string, qty, version int64) {
	if version < 0 {
		return
	}
	keys := []string{stockKey(productID, warehouseID), versionKey(productID, warehouseID)}
	stored, err := setIfVersion.Run(ctx, c.client, keys, version, qty, c.ttl.Milliseconds()).Int()
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Str("warehouse_id", warehouseID).Msg("stock cache set")
		return
	}
	if stored == 0 {
		log.Debug().Str("product_id", productID).Str("warehouse_id", warehouseID).Msg("stock cache: suma descartada, hubo escritura durante la lectura")
	}
}

// Invalidate sube la versión y borra la suma de cada par tocado, en una sola transacción MULTI.
func (c *StockCache) Invalidate(ctx context.Context, productID string, warehouseIDs ...string) {
	if len(warehouseIDs) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range warehouseIDs {
			pipe.Incr(ctx, versionKey(productID, w))
			pipe.Expire(ctx, versionKey(productID, w), versionTTL)
			pipe.Del(ctx, stockKey(productID, w))
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Strs("warehouse_ids", warehouseIDs).Msg("stock cache invalidate")
	}
}

// parseCounter interpreta un valor de MGET; nil (clave ausente) es 0.
func parseCounter(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	str, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("tipo inesperado %T", v)
	}
	return strconv.ParseInt(str, 10, 64)
}

// HealthCheck ping con timeout corto, para /health.
func (c *StockCache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *StockCache) Close() error {
	return c.client.Close()
}
