package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// storage adaptadores elegidos por STORAGE_DRIVER.
type storage struct {
	txRunner inventory.TxRunner
	balances repository.BalanceRepository
	ledger   repository.LedgerRepository
	products repository.ProductRepository
	ping     func(ctx context.Context) error
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner: memory.NewTxRunner(store),
			balances: store,
			ledger:   store,
			products: memory.NewProductRepository(),
			close:    func() {},
		}, nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &storage{
			txRunner: postgres.NewTxRunner(pool),
			balances: postgres.NewBalanceRepository(pool),
			ledger:   postgres.NewLedgerRepository(pool),
			products: postgres.NewProductRepository(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %s", cfg.Storage.Driver)
	}
}
