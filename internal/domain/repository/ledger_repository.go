package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LedgerFilter filtros de consulta del historial. Campos vacíos no restringen.
// StoreID coincide con origen o destino.
type LedgerFilter struct {
	ProductID string
	StoreID   string
	Limit     int
	Offset    int
}

// LedgerRepository puerto del ledger append-only: no existe Update ni Delete.
type LedgerRepository interface {
	// Append asigna ID y Timestamp si faltan y persiste el registro.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// Query devuelve la página pedida ordenada por timestamp descendente y el total de coincidencias.
	Query(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, int, error)
}
