package redis_test

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catálogo de prueba que cuenta las lecturas
type countingCatalog struct {
	products map[string]*entity.ProductSummary
	calls    int
}

func (c *countingCatalog) Exists(ctx context.Context, id string) (bool, error) {
	s, err := c.GetSummary(ctx, id)
	return s != nil, err
}

func (c *countingCatalog) GetSummary(_ context.Context, id string) (*entity.ProductSummary, error) {
	c.calls++
	return c.products[id], nil
}

// cliente contra un puerto cerrado: todas las operaciones fallan rápido
func unreachableClient(t *testing.T) *goredis.Client {
	t.Helper()
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// memoryHook responde GET/SET/DEL en memoria sin abrir conexiones.
type memoryHook struct {
	mu   sync.Mutex
	data map[string]string
}

func (h *memoryHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("dial deshabilitado en pruebas")
	}
}

func (h *memoryHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		args := cmd.Args()
		switch c := cmd.(type) {
		case *goredis.StringCmd:
			v, ok := h.data[fmt.Sprint(args[1])]
			if !ok {
				c.SetErr(goredis.Nil)
				return goredis.Nil
			}
			c.SetVal(v)
		case *goredis.StatusCmd:
			h.data[fmt.Sprint(args[1])] = fmt.Sprint(args[2])
			c.SetVal("OK")
		case *goredis.IntCmd:
			delete(h.data, fmt.Sprint(args[1]))
			c.SetVal(1)
		}
		return nil
	}
}

func (h *memoryHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return next
}

func (h *memoryHook) keys() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.data)
}

func memoryClient(t *testing.T) (*goredis.Client, *memoryHook) {
	t.Helper()
	hook := &memoryHook{data: map[string]string{}}
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	rdb.AddHook(hook)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, hook
}

// ─────────────────────────────────────────────────────────────────────────────
// Lectura a través de la caché
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalogCache_CachesExistingProducts(t *testing.T) {
	rdb, hook := memoryClient(t)
	next := &countingCatalog{products: map[string]*entity.ProductSummary{
		"p1": {ID: "p1", Name: "Martillo", SKU: "MRT-1", Price: decimal.NewFromInt(10)},
	}}
	cache := redis.NewCatalogCache(rdb, next, time.Minute, logger.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := cache.GetSummary(ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "MRT-1", s.SKU)
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, hook.keys())

	cache.Invalidate(ctx, "p1")
	assert.Equal(t, 0, hook.keys())
}

func TestCatalogCache_MissingProductIsNotCached(t *testing.T) {
	rdb, hook := memoryClient(t)
	next := &countingCatalog{products: map[string]*entity.ProductSummary{}}
	cache := redis.NewCatalogCache(rdb, next, time.Minute, logger.Nop())
	ctx := context.Background()

	ok, err := cache.Exists(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, hook.keys())

	// el producto aparece por fuera de la API (seed SQL) sin invalidar la caché
	next.products["p2"] = &entity.ProductSummary{ID: "p2", Name: "Clavos", SKU: "CLV-1", Price: decimal.NewFromInt(1)}

	ok, err = cache.Exists(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 1, hook.keys())
}

// ─────────────────────────────────────────────────────────────────────────────
// Redis caído: la caché delega en el catálogo
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalogCache_FallsThroughWhenRedisDown(t *testing.T) {
	next := &countingCatalog{products: map[string]*entity.ProductSummary{
		"p1": {ID: "p1", Name: "Martillo", SKU: "MRT-1", Price: decimal.NewFromInt(10)},
	}}
	cache := redis.NewCatalogCache(unreachableClient(t), next, time.Minute, logger.Nop())
	ctx := context.Background()

	s, err := cache.GetSummary(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Martillo", s.Name)

	ok, err := cache.Exists(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	// sin Redis cada lectura llega al catálogo
	assert.Equal(t, 3, next.calls)
}

func TestCatalogCache_InvalidateWithoutRedisDoesNotPanic(t *testing.T) {
	cache := redis.NewCatalogCache(unreachableClient(t), &countingCatalog{}, time.Minute, nil)
	assert.NotPanics(t, func() { cache.Invalidate(context.Background(), "p1") })
}

func TestNewClient_PingFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := redis.NewClient(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
