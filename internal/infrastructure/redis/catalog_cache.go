package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:product:"

var _ repository.CatalogReader = (*CatalogCache)(nil)

// CatalogCache decorador read-through de CatalogReader sobre Redis.
// Si Redis falla se consulta directamente el catálogo de origen.
type CatalogCache struct {
	rdb  goredis.UniversalClient
	next repository.CatalogReader
	ttl  time.Duration
	log  *logger.Logger
}

// NewCatalogCache envuelve next con la caché.
func NewCatalogCache(rdb goredis.UniversalClient, next repository.CatalogReader, ttl time.Duration, log *logger.Logger) *CatalogCache {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogCache{rdb: rdb, next: next, ttl: ttl, log: log}
}

func (c *CatalogCache) Exists(ctx context.Context, id string) (bool, error) {
	s, err := c.GetSummary(ctx, id)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// GetSummary devuelve el resumen desde Redis o, en fallo de caché, desde el catálogo.
// Solo se guardan productos existentes: un producto creado por fuera de la API (seed SQL)
// es visible en la siguiente lectura.
func (c *CatalogCache) GetSummary(ctx context.Context, id string) (*entity.ProductSummary, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+id).Result()
	switch {
	case err == nil:
		var s entity.ProductSummary
		if jerr := json.Unmarshal([]byte(raw), &s); jerr == nil {
			return &s, nil
		}
		c.log.Warn().Str("product_id", id).Msg("entrada de caché corrupta, se ignora")
	case errors.Is(err, goredis.Nil):
	default:
		c.log.Warn().Err(err).Str("product_id", id).Msg("redis no disponible, lectura directa del catálogo")
		return c.next.GetSummary(ctx, id)
	}

	s, err := c.next.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if s != nil {
		c.store(ctx, id, s)
	}
	return s, nil
}

// Invalidate elimina la entrada del producto (tras crear, actualizar o eliminar).
func (c *CatalogCache) Invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", id).Msg("no se pudo invalidar la caché del catálogo")
	}
}

func (c *CatalogCache) store(ctx context.Context, id string, s *entity.ProductSummary) {
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+id, string(b), c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", id).Msg("no se pudo escribir la caché del catálogo")
	}
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
