package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Filtro del historial
// ─────────────────────────────────────────────────────────────────────────────

func TestBuildLedgerWhere_SinFiltros(t *testing.T) {
	where, args := buildLedgerWhere(repository.LedgerFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildLedgerWhere_SoloProducto(t *testing.T) {
	where, args := buildLedgerWhere(repository.LedgerFilter{ProductID: "p1"})
	assert.Equal(t, " WHERE product_id = $1", where)
	assert.Equal(t, []any{"p1"}, args)
}

func TestBuildLedgerWhere_TiendaComoOrigenODestino(t *testing.T) {
	where, args := buildLedgerWhere(repository.LedgerFilter{ProductID: "p1", StoreID: "S1"})
	assert.Equal(t, " WHERE product_id = $1 AND (source_store_id = $2 OR target_store_id = $2)", where)
	assert.Equal(t, []any{"p1", "S1"}, args)
}

// ─────────────────────────────────────────────────────────────────────────────
// Migraciones embebidas y errores de Postgres
// ─────────────────────────────────────────────────────────────────────────────

func TestMigrationNames_Ordenadas(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])
	assert.IsIncreasing(t, names)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
}
