package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner unidad atómica sobre Store: bloqueos por llave tomados con GetForUpdate y
// liberados al terminar; las escrituras se aplican juntas solo si fn no falla.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios atados a una transacción en memoria.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	tx := &memTx{
		store:   r.store,
		held:    make(map[entity.BalanceKey]bool),
		pending: make(map[entity.BalanceKey]entity.Balance),
	}
	defer tx.release()

	if err := fn(&txBalanceRepo{tx: tx}, &txLedgerRepo{tx: tx}); err != nil {
		return err
	}
	tx.apply()
	return nil
}

type memTx struct {
	store   *Store
	held    map[entity.BalanceKey]bool
	order   []entity.BalanceKey
	pending map[entity.BalanceKey]entity.Balance
	entries []*entity.LedgerEntry
}

func (tx *memTx) apply() {
	balances := make([]entity.Balance, 0, len(tx.pending))
	for _, b := range tx.pending {
		balances = append(balances, b)
	}
	tx.store.commit(balances, tx.entries)
}

func (tx *memTx) release() {
	for i := len(tx.order) - 1; i >= 0; i-- {
		tx.store.locks.unlock(tx.order[i])
	}
}

func (tx *memTx) read(ctx context.Context, k entity.BalanceKey) (*entity.Balance, error) {
	if b, ok := tx.pending[k]; ok {
		return &b, nil
	}
	return tx.store.Get(ctx, k.StoreID, k.ProductID)
}

type txBalanceRepo struct {
	tx *memTx
}

func (r *txBalanceRepo) Get(ctx context.Context, storeID, productID string) (*entity.Balance, error) {
	return r.tx.read(ctx, entity.BalanceKey{StoreID: storeID, ProductID: productID})
}

func (r *txBalanceRepo) GetForUpdate(ctx context.Context, storeID, productID string) (*entity.Balance, error) {
	k := entity.BalanceKey{StoreID: storeID, ProductID: productID}
	if !r.tx.held[k] {
		if err := r.tx.store.locks.lock(ctx, k); err != nil {
			return nil, fmt.Errorf("lock balance %s: %w", k, err)
		}
		r.tx.held[k] = true
		r.tx.order = append(r.tx.order, k)
	}
	return r.tx.read(ctx, k)
}

// Upsert exige que la llave se haya bloqueado antes con GetForUpdate.
func (r *txBalanceRepo) Upsert(_ context.Context, balance *entity.Balance) error {
	k := balance.Key()
	if !r.tx.held[k] {
		return fmt.Errorf("upsert balance %s: llave no bloqueada en la transacción", k)
	}
	if err := checkBalance(balance); err != nil {
		return err
	}
	r.tx.pending[k] = *balance
	return nil
}

func (r *txBalanceRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Balance, error) {
	return r.tx.store.ListByStore(ctx, storeID)
}

func (r *txBalanceRepo) ListBelowThreshold(ctx context.Context) ([]*entity.Balance, error) {
	return r.tx.store.ListBelowThreshold(ctx)
}

func (r *txBalanceRepo) SumQuantityByProduct(ctx context.Context, productID string) (int64, error) {
	return r.tx.store.SumQuantityByProduct(ctx, productID)
}

type txLedgerRepo struct {
	tx *memTx
}

func (r *txLedgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) error {
	if err := prepareEntry(entry, r.tx.store.now); err != nil {
		return err
	}
	r.tx.entries = append(r.tx.entries, entry)
	return nil
}

func (r *txLedgerRepo) Query(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, int, error) {
	return r.tx.store.Query(ctx, filter)
}
