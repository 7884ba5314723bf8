package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.BalanceRepository = (*Store)(nil)
	_ repository.LedgerRepository  = (*Store)(nil)
)

// Store saldos y ledger en memoria. Fuera de una transacción cada escritura se aplica
// de inmediato; dentro de TxRunner se acumulan y se aplican juntas al confirmar.
type Store struct {
	mu       sync.RWMutex
	balances map[entity.BalanceKey]entity.Balance
	entries  []entity.LedgerEntry // orden de inserción = timestamp no decreciente
	lastTS   time.Time

	locks *keyLocks
	now   func() time.Time
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		balances: make(map[entity.BalanceKey]entity.Balance),
		locks:    newKeyLocks(),
		now:      time.Now,
	}
}

func (s *Store) Get(_ context.Context, storeID, productID string) (*entity.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.balances[entity.BalanceKey{StoreID: storeID, ProductID: productID}]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// GetForUpdate fuera de una transacción no hay nada que mantener bloqueado: equivale a Get.
func (s *Store) GetForUpdate(ctx context.Context, storeID, productID string) (*entity.Balance, error) {
	return s.Get(ctx, storeID, productID)
}

func (s *Store) Upsert(_ context.Context, balance *entity.Balance) error {
	if err := checkBalance(balance); err != nil {
		return err
	}
	s.commit([]entity.Balance{*balance}, nil)
	return nil
}

func (s *Store) ListByStore(_ context.Context, storeID string) ([]*entity.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Balance, 0)
	for k, b := range s.balances {
		if k.StoreID == storeID {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (s *Store) ListBelowThreshold(_ context.Context) ([]*entity.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Balance, 0)
	for _, b := range s.balances {
		if b.IsLow() {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key().Less(list[j].Key()) })
	return list, nil
}

func (s *Store) SumQuantityByProduct(_ context.Context, productID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for k, b := range s.balances {
		if k.ProductID == productID {
			total += b.Quantity
		}
	}
	return total, nil
}

func (s *Store) Append(_ context.Context, entry *entity.LedgerEntry) error {
	if err := prepareEntry(entry, s.now); err != nil {
		return err
	}
	s.commit(nil, []*entity.LedgerEntry{entry})
	return nil
}

// Query recorre el ledger del más reciente al más antiguo.
func (s *Store) Query(_ context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*entity.LedgerEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if filter.ProductID != "" && e.ProductID != filter.ProductID {
			continue
		}
		if filter.StoreID != "" && !e.Touches(filter.StoreID) {
			continue
		}
		matches = append(matches, &e)
	}
	total := len(matches)
	start := clamp(filter.Offset, 0, total)
	end := total
	if filter.Limit > 0 {
		end = clamp(start+filter.Limit, start, total)
	}
	return matches[start:end], total, nil
}

// commit aplica saldos y registros bajo el mutex del mapa; los timestamps se ajustan para
// que nunca retrocedan respecto del último registro confirmado.
func (s *Store) commit(balances []entity.Balance, entries []*entity.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range balances {
		s.balances[b.Key()] = b
	}
	for _, e := range entries {
		if e.Timestamp.Before(s.lastTS) {
			e.Timestamp = s.lastTS
		}
		s.lastTS = e.Timestamp
		s.entries = append(s.entries, *e)
	}
}

func prepareEntry(entry *entity.LedgerEntry, now func() time.Time) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now()
	}
	return nil
}

func checkBalance(b *entity.Balance) error {
	if b.Quantity < 0 || b.MinStock < 0 {
		return fmt.Errorf("%w: saldo negativo para %s", domain.ErrInvalidInput, b.Key())
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
