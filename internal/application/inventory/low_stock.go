package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// LowStockScanner deriva alertas uniendo los saldos bajo su mínimo con los datos del catálogo.
// Un producto que ya no existe en el catálogo se omite.
type LowStockScanner struct {
	balanceRepo repository.BalanceRepository
	catalog     repository.CatalogReader
	renderer    AlertReportRenderer
	log         *logger.Logger
	now         func() time.Time
}

// NewLowStockScanner construye el scanner. renderer puede ser nil si no se exponen reportes.
func NewLowStockScanner(
	balanceRepo repository.BalanceRepository,
	catalog repository.CatalogReader,
	renderer AlertReportRenderer,
	log *logger.Logger,
) *LowStockScanner {
	if log == nil {
		log = logger.Nop()
	}
	return &LowStockScanner{
		balanceRepo: balanceRepo,
		catalog:     catalog,
		renderer:    renderer,
		log:         log,
		now:         time.Now,
	}
}

// Scan devuelve una alerta por cada saldo con quantity <= min_stock cuyo producto existe.
func (s *LowStockScanner) Scan(ctx context.Context) ([]dto.LowStockAlert, error) {
	balances, err := s.balanceRepo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	alerts := make([]dto.LowStockAlert, 0, len(balances))
	for _, b := range balances {
		product, err := s.catalog.GetSummary(ctx, b.ProductID)
		if err != nil {
			return nil, persistenceError(err)
		}
		if product == nil {
			s.log.Warn().
				Str("store_id", b.StoreID).
				Str("product_id", b.ProductID).
				Msg("alerta de stock omitida: producto inexistente en catálogo")
			continue
		}
		alerts = append(alerts, dto.LowStockAlert{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Price:       product.Price,
			StoreID:     b.StoreID,
			Quantity:    b.Quantity,
			MinStock:    b.MinStock,
		})
	}
	return alerts, nil
}

// RenderReport ejecuta Scan y entrega el resultado al renderer configurado.
func (s *LowStockScanner) RenderReport(ctx context.Context) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("%w: reporte de alertas no configurado", domain.ErrNotFound)
	}
	alerts, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.renderer.RenderLowStockReport(ctx, alerts, s.now())
	if err != nil {
		return nil, fmt.Errorf("render low stock report: %w", err)
	}
	return doc, nil
}
