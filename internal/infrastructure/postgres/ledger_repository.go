package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (solo inserciones).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta el asiento. Asigna ID si falta; el timestamp lo fija el reloj de la base
// cuando viene vacío y se devuelve en la entidad.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	var ts *time.Time
	if !e.Timestamp.IsZero() {
		t := e.Timestamp
		ts = &t
	}
	query := `
		INSERT INTO inventory_ledger (id, product_id, source_store_id, target_store_id, quantity, occurred_at, type)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, clock_timestamp()), $7)
		RETURNING occurred_at`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.ProductID, e.SourceStoreID, e.TargetStoreID, e.Quantity, ts, string(e.Type),
	).Scan(&e.Timestamp)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// Query devuelve una página de asientos (más recientes primero) y el total que cumple el filtro.
func (r *LedgerRepo) Query(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, int, error) {
	where, args := buildLedgerWhere(filter)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_ledger`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := `
		SELECT id, product_id, source_store_id, target_store_id, quantity, occurred_at, type
		FROM inventory_ledger` + where + `
		ORDER BY occurred_at DESC, seq DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.LedgerEntry, 0)
	for rows.Next() {
		var (
			e   entity.LedgerEntry
			typ string
		)
		if err := rows.Scan(&e.ID, &e.ProductID, &e.SourceStoreID, &e.TargetStoreID, &e.Quantity, &e.Timestamp, &typ); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Type = entity.MovementType(typ)
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return list, total, nil
}

// buildLedgerWhere arma la cláusula WHERE y sus argumentos posicionales a partir del filtro.
// Un asiento pertenece a una tienda si es su origen o su destino.
func buildLedgerWhere(filter repository.LedgerFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.StoreID != "" {
		args = append(args, filter.StoreID)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(source_store_id = $%d OR target_store_id = $%d)", n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
