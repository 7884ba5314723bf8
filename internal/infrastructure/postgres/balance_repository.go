package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

const selectBalance = `
		SELECT store_id, product_id, quantity, min_stock, updated_at
		FROM inventory_balances`

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de un producto en una tienda; nil si no existe.
func (r *BalanceRepo) Get(ctx context.Context, storeID, productID string) (*entity.Balance, error) {
	b, err := r.getOne(ctx, selectBalance+` WHERE store_id = $1 AND product_id = $2`, storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si la fila no existe inserta un marcador
// en 0 dentro de la misma tx, de modo que la creación concurrente de la llave también se serializa.
// El marcador desaparece con el Rollback si la operación falla.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, storeID, productID string) (*entity.Balance, error) {
	const forUpdate = selectBalance + ` WHERE store_id = $1 AND product_id = $2 FOR UPDATE`
	b, err := r.getOne(ctx, forUpdate, storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	if b != nil {
		return b, nil
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO inventory_balances (store_id, product_id, quantity, min_stock, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (store_id, product_id) DO NOTHING`,
		storeID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("lock new balance: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil, nil
	}
	// Otra transacción creó la fila primero: esperar su bloqueo y leer el valor confirmado.
	b, err = r.getOne(ctx, forUpdate, storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o reemplaza quantity y min_stock de la llave.
func (r *BalanceRepo) Upsert(ctx context.Context, balance *entity.Balance) error {
	query := `
		INSERT INTO inventory_balances (store_id, product_id, quantity, min_stock, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_stock = EXCLUDED.min_stock, updated_at = now()`
	_, err := r.q.Exec(ctx, query, balance.StoreID, balance.ProductID, balance.Quantity, balance.MinStock)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

func (r *BalanceRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Balance, error) {
	list, err := r.list(ctx, selectBalance+` WHERE store_id = $1 ORDER BY product_id`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list balances by store: %w", err)
	}
	return list, nil
}

func (r *BalanceRepo) ListBelowThreshold(ctx context.Context) ([]*entity.Balance, error) {
	list, err := r.list(ctx, selectBalance+` WHERE quantity <= min_stock ORDER BY store_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("list balances below threshold: %w", err)
	}
	return list, nil
}

func (r *BalanceRepo) SumQuantityByProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::BIGINT FROM inventory_balances WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum quantity by product: %w", err)
	}
	return total, nil
}

func (r *BalanceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Balance, error) {
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, args...).Scan(&b.StoreID, &b.ProductID, &b.Quantity, &b.MinStock, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Balance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*entity.Balance, 0)
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.StoreID, &b.ProductID, &b.Quantity, &b.MinStock, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
