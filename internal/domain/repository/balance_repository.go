package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceRepository define el puerto de persistencia de saldos por (tienda, producto).
// Las escrituras solo deben hacerse desde una unidad de TxRunner.
type BalanceRepository interface {
	// Get devuelve nil, nil si no existe saldo para la llave.
	Get(ctx context.Context, storeID, productID string) (*entity.Balance, error)
	// GetForUpdate bloquea la llave hasta el fin de la transacción, exista o no la fila.
	// Devuelve nil si no existía saldo antes de la llamada.
	GetForUpdate(ctx context.Context, storeID, productID string) (*entity.Balance, error)
	// Upsert reemplaza quantity y min_stock de la llave.
	Upsert(ctx context.Context, balance *entity.Balance) error
	ListByStore(ctx context.Context, storeID string) ([]*entity.Balance, error)
	// ListBelowThreshold saldos con quantity <= min_stock, sin orden garantizado.
	ListBelowThreshold(ctx context.Context) ([]*entity.Balance, error)
	SumQuantityByProduct(ctx context.Context, productID string) (int64, error)
}
