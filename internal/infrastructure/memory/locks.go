package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// keyLocks mutex por llave de saldo. Las entradas se liberan cuando nadie las usa.
type keyLocks struct {
	mu    sync.Mutex
	locks map[entity.BalanceKey]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[entity.BalanceKey]*keyLock)}
}

// lock espera el bloqueo de k o la cancelación de ctx.
func (l *keyLocks) lock(ctx context.Context, k entity.BalanceKey) error {
	l.mu.Lock()
	kl, ok := l.locks[k]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[k] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(k, kl)
		return ctx.Err()
	}
}

func (l *keyLocks) unlock(k entity.BalanceKey) {
	l.mu.Lock()
	kl := l.locks[k]
	l.mu.Unlock()
	<-kl.ch
	l.release(k, kl)
}

func (l *keyLocks) release(k entity.BalanceKey, kl *keyLock) {
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, k)
	}
	l.mu.Unlock()
}
