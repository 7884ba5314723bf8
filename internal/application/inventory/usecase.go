package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	maxStoreIDLen      = 50
	defaultHistorySize = 20
	maxHistorySize     = 100
)

// Options ajustes de política del motor.
type Options struct {
	// RejectSelfTransfer rechaza traslados con origen == destino. Por defecto se aceptan
	// (no cambian el saldo pero quedan registrados como TRANSFER).
	RejectSelfTransfer bool
}

// StockLedgerUseCase motor de inventario: valida precondiciones, muta uno o dos saldos
// y agrega exactamente un registro al ledger por operación, todo en una unidad de TxRunner.
type StockLedgerUseCase struct {
	txRunner    TxRunner
	balanceRepo repository.BalanceRepository
	ledgerRepo  repository.LedgerRepository
	catalog     repository.CatalogReader
	scanner     *LowStockScanner
	opts        Options
	now         func() time.Time
}

// NewStockLedgerUseCase construye el motor. balanceRepo y ledgerRepo se usan solo para lecturas.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	balanceRepo repository.BalanceRepository,
	ledgerRepo repository.LedgerRepository,
	catalog repository.CatalogReader,
	scanner *LowStockScanner,
	opts Options,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:    txRunner,
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		catalog:     catalog,
		scanner:     scanner,
		opts:        opts,
		now:         time.Now,
	}
}

// LoadStockInput carga inicial de una tienda. MinStock nil conserva el mínimo existente.
type LoadStockInput struct {
	ProductID string
	StoreID   string
	Quantity  int64
	MinStock  *int64
}

// MovementInput entrada o salida en una tienda.
type MovementInput struct {
	ProductID string
	StoreID   string
	Quantity  int64
}

// TransferInput traslado entre dos tiendas.
type TransferInput struct {
	ProductID     string
	SourceStoreID string
	TargetStoreID string
	Quantity      int64
}

// HistoryQuery filtros y página (base 0) del historial.
type HistoryQuery struct {
	ProductID string
	StoreID   string
	Page      int
	Size      int
}

// LoadInitialStock fija la cantidad inicial de (tienda, producto). Solo se permite si no hay
// saldo o si el saldo actual es 0; un saldo positivo devuelve ErrConflict.
func (uc *StockLedgerUseCase) LoadInitialStock(ctx context.Context, in LoadStockInput) error {
	if err := validateKey(in.ProductID, in.StoreID); err != nil {
		return err
	}
	if in.Quantity < 0 || (in.MinStock != nil && *in.MinStock < 0) {
		return domain.ErrInvalidInput
	}
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return err
	}
	key := entity.BalanceKey{StoreID: in.StoreID, ProductID: in.ProductID}

	return uc.run(ctx, func(balanceRepo repository.BalanceRepository, ledgerRepo repository.LedgerRepository) error {
		locked, err := lockBalances(ctx, balanceRepo, key)
		if err != nil {
			return err
		}
		balance := locked[key]
		if balance.Quantity > 0 {
			return domain.ErrConflict
		}
		balance.Quantity = in.Quantity
		if in.MinStock != nil {
			balance.MinStock = *in.MinStock
		}
		balance.UpdatedAt = uc.now()
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		return ledgerRepo.Append(ctx, entity.NewInEntry(in.ProductID, in.StoreID, in.Quantity))
	})
}

// RegisterEntry suma quantity al saldo de la tienda (creándolo en 0 si no existe).
func (uc *StockLedgerUseCase) RegisterEntry(ctx context.Context, in MovementInput) error {
	if err := validateMovement(in.ProductID, in.StoreID, in.Quantity); err != nil {
		return err
	}
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return err
	}
	key := entity.BalanceKey{StoreID: in.StoreID, ProductID: in.ProductID}

	return uc.run(ctx, func(balanceRepo repository.BalanceRepository, ledgerRepo repository.LedgerRepository) error {
		locked, err := lockBalances(ctx, balanceRepo, key)
		if err != nil {
			return err
		}
		balance := locked[key]
		if balance.Quantity > math.MaxInt64-in.Quantity {
			return domain.ErrQuantityOverflow
		}
		balance.Quantity += in.Quantity
		balance.UpdatedAt = uc.now()
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		return ledgerRepo.Append(ctx, entity.NewInEntry(in.ProductID, in.StoreID, in.Quantity))
	})
}

// RegisterOut resta quantity del saldo de la tienda; falla con ErrInsufficientStock sin mutar nada.
func (uc *StockLedgerUseCase) RegisterOut(ctx context.Context, in MovementInput) error {
	if err := validateMovement(in.ProductID, in.StoreID, in.Quantity); err != nil {
		return err
	}
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return err
	}
	key := entity.BalanceKey{StoreID: in.StoreID, ProductID: in.ProductID}

	return uc.run(ctx, func(balanceRepo repository.BalanceRepository, ledgerRepo repository.LedgerRepository) error {
		locked, err := lockBalances(ctx, balanceRepo, key)
		if err != nil {
			return err
		}
		balance := locked[key]
		if balance.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		balance.Quantity -= in.Quantity
		balance.UpdatedAt = uc.now()
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		return ledgerRepo.Append(ctx, entity.NewOutEntry(in.ProductID, in.StoreID, in.Quantity))
	})
}

// Transfer mueve quantity de la tienda origen a la destino y registra un único TRANSFER.
// Ambas llaves se bloquean en orden BalanceKey.Less para evitar interbloqueos.
func (uc *StockLedgerUseCase) Transfer(ctx context.Context, in TransferInput) error {
	if err := validateMovement(in.ProductID, in.SourceStoreID, in.Quantity); err != nil {
		return err
	}
	if err := validateStoreID(in.TargetStoreID); err != nil {
		return err
	}
	sameStore := in.SourceStoreID == in.TargetStoreID
	if sameStore && uc.opts.RejectSelfTransfer {
		return domain.ErrInvalidInput
	}
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return err
	}
	sourceKey := entity.BalanceKey{StoreID: in.SourceStoreID, ProductID: in.ProductID}
	targetKey := entity.BalanceKey{StoreID: in.TargetStoreID, ProductID: in.ProductID}

	return uc.run(ctx, func(balanceRepo repository.BalanceRepository, ledgerRepo repository.LedgerRepository) error {
		locked, err := lockBalances(ctx, balanceRepo, sourceKey, targetKey)
		if err != nil {
			return err
		}
		source, target := locked[sourceKey], locked[targetKey]
		if source.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		now := uc.now()
		if !sameStore {
			if target.Quantity > math.MaxInt64-in.Quantity {
				return domain.ErrQuantityOverflow
			}
			source.Quantity -= in.Quantity
			target.Quantity += in.Quantity
			target.UpdatedAt = now
		}
		source.UpdatedAt = now
		if err := balanceRepo.Upsert(ctx, source); err != nil {
			return err
		}
		if !sameStore {
			if err := balanceRepo.Upsert(ctx, target); err != nil {
				return err
			}
		}
		return ledgerRepo.Append(ctx, entity.NewTransferEntry(in.ProductID, in.SourceStoreID, in.TargetStoreID, in.Quantity))
	})
}

// GetInventoryByStore lista los saldos registrados de una tienda.
func (uc *StockLedgerUseCase) GetInventoryByStore(ctx context.Context, storeID string) ([]dto.InventoryItem, error) {
	if err := validateStoreID(storeID); err != nil {
		return nil, err
	}
	balances, err := uc.balanceRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, persistenceError(err)
	}
	out := make([]dto.InventoryItem, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.InventoryItem{
			StoreID:   b.StoreID,
			ProductID: b.ProductID,
			Quantity:  b.Quantity,
			MinStock:  b.MinStock,
		})
	}
	return out, nil
}

// ListHistory consulta el ledger por producto y/o tienda, más reciente primero.
func (uc *StockLedgerUseCase) ListHistory(ctx context.Context, q HistoryQuery) (*dto.HistoryPage, error) {
	if q.ProductID != "" {
		if _, err := uuid.Parse(q.ProductID); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if len(q.StoreID) > maxStoreIDLen || q.Page < 0 || q.Size < 0 {
		return nil, domain.ErrInvalidInput
	}
	size := q.Size
	if size == 0 {
		size = defaultHistorySize
	}
	if size > maxHistorySize {
		size = maxHistorySize
	}
	if q.Page > math.MaxInt/size {
		return nil, domain.ErrInvalidInput
	}
	entries, total, err := uc.ledgerRepo.Query(ctx, repository.LedgerFilter{
		ProductID: q.ProductID,
		StoreID:   q.StoreID,
		Limit:     size,
		Offset:    q.Page * size,
	})
	if err != nil {
		return nil, persistenceError(err)
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLedgerEntryResponse(e))
	}
	return &dto.HistoryPage{
		Items:      items,
		Page:       q.Page,
		Size:       size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}, nil
}

// ListLowStockAlerts delega en el scanner de stock bajo.
func (uc *StockLedgerUseCase) ListLowStockAlerts(ctx context.Context) ([]dto.LowStockAlert, error) {
	return uc.scanner.Scan(ctx)
}

// LowStockReport genera el PDF de alertas.
func (uc *StockLedgerUseCase) LowStockReport(ctx context.Context) ([]byte, error) {
	return uc.scanner.RenderReport(ctx)
}

// ProductStock suma el stock del producto en todas las tiendas. Si minQuantity no es nil,
// además indica si el total alcanza ese mínimo.
func (uc *StockLedgerUseCase) ProductStock(ctx context.Context, productID string, minQuantity *int64) (*dto.ProductStockResponse, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if minQuantity != nil && *minQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	total, err := uc.balanceRepo.SumQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, persistenceError(err)
	}
	out := &dto.ProductStockResponse{ProductID: productID, TotalQuantity: total}
	if minQuantity != nil {
		ok := total >= *minQuantity
		out.HasAtLeast = &ok
	}
	return out, nil
}

// run ejecuta fn en una unidad atómica y clasifica los errores no de dominio como persistencia.
func (uc *StockLedgerUseCase) run(ctx context.Context, fn func(repository.BalanceRepository, repository.LedgerRepository) error) error {
	if err := uc.txRunner.Run(ctx, fn); err != nil {
		return persistenceError(err)
	}
	return nil
}

func (uc *StockLedgerUseCase) ensureProduct(ctx context.Context, productID string) error {
	ok, err := uc.catalog.Exists(ctx, productID)
	if err != nil {
		return persistenceError(err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// lockBalances toma el bloqueo de cada llave en orden determinista y devuelve los saldos,
// construyendo (0, 0) para las llaves sin fila. Llaves repetidas comparten el mismo *Balance.
func lockBalances(ctx context.Context, repo repository.BalanceRepository, keys ...entity.BalanceKey) (map[entity.BalanceKey]*entity.Balance, error) {
	ordered := make([]entity.BalanceKey, 0, len(keys))
	seen := make(map[entity.BalanceKey]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })

	out := make(map[entity.BalanceKey]*entity.Balance, len(ordered))
	for _, k := range ordered {
		b, err := repo.GetForUpdate(ctx, k.StoreID, k.ProductID)
		if err != nil {
			return nil, err
		}
		if b == nil {
			b = entity.NewBalance(k.StoreID, k.ProductID)
		}
		out[k] = b
	}
	return out, nil
}

func persistenceError(err error) error {
	if err == nil || domain.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}

func validateKey(productID, storeID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return domain.ErrInvalidInput
	}
	return validateStoreID(storeID)
}

func validateMovement(productID, storeID string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return validateKey(productID, storeID)
}

func validateStoreID(storeID string) error {
	if strings.TrimSpace(storeID) == "" || len(storeID) > maxStoreIDLen {
		return domain.ErrInvalidInput
	}
	return nil
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		SourceStoreID: e.SourceStoreID,
		TargetStoreID: e.TargetStoreID,
		Quantity:      e.Quantity,
		Timestamp:     e.Timestamp,
		Type:          string(e.Type),
	}
}
