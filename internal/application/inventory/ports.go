package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad atómica, pasando repositorios atados a ella.
// Si fn devuelve error no queda ningún cambio aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// AlertReportRenderer genera la representación imprimible de las alertas de stock bajo.
type AlertReportRenderer interface {
	RenderLowStockReport(ctx context.Context, alerts []dto.LowStockAlert, generatedAt time.Time) ([]byte, error)
}
