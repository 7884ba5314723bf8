package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario.
type InventoryHandler struct {
	uc  *inventory.StockLedgerUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockLedgerUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// LoadInitialStock godoc
// @Summary      Carga inicial de stock en una tienda
// @Description  Solo se permite si la tienda no tiene saldo del producto o si es 0.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoadStockRequest  true  "productId, storeId, quantity, minStock"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/v1/inventory/load [post]
func (h *InventoryHandler) LoadInitialStock(c *fiber.Ctx) error {
	var in dto.LoadStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationFailed(c, errs)
	}
	err := h.uc.LoadInitialStock(c.UserContext(), inventory.LoadStockInput{
		ProductID: in.ProductID,
		StoreID:   in.StoreID,
		Quantity:  *in.Quantity,
		MinStock:  in.MinStock,
	})
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "stock inicial cargado", nil)
}

// RegisterEntry godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "productId, storeId, quantity"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/inventory/in [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	in, ok, err := h.parseMovement(c)
	if !ok {
		return err
	}
	if err := h.uc.RegisterEntry(c.UserContext(), in); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "entrada registrada", nil)
}

// RegisterOut godoc
// @Summary      Registrar salida de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "productId, storeId, quantity"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope  "VALIDATION_ERROR o INSUFFICIENT_STOCK"
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/inventory/out [post]
func (h *InventoryHandler) RegisterOut(c *fiber.Ctx) error {
	in, ok, err := h.parseMovement(c)
	if !ok {
		return err
	}
	if err := h.uc.RegisterOut(c.UserContext(), in); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "salida registrada", nil)
}

// Transfer godoc
// @Summary      Trasladar stock entre tiendas
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "productId, sourceStoreId, targetStoreId, quantity"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope  "VALIDATION_ERROR o INSUFFICIENT_STOCK"
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationFailed(c, errs)
	}
	err := h.uc.Transfer(c.UserContext(), inventory.TransferInput{
		ProductID:     in.ProductID,
		SourceStoreID: in.SourceStoreID,
		TargetStoreID: in.TargetStoreID,
		Quantity:      in.Quantity,
	})
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "traslado registrado", nil)
}

// StoreInventory godoc
// @Summary      Inventario de una tienda
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.Envelope{data=[]dto.InventoryItem}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/v1/stores/{id}/inventory [get]
func (h *InventoryHandler) StoreInventory(c *fiber.Ctx) error {
	items, err := h.uc.GetInventoryByStore(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "", items)
}

// LowStockAlerts godoc
// @Summary      Alertas de stock bajo
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.LowStockAlert}
// @Router       /api/v1/inventory/alerts [get]
func (h *InventoryHandler) LowStockAlerts(c *fiber.Ctx) error {
	alerts, err := h.uc.ListLowStockAlerts(c.UserContext())
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "", alerts)
}

// LowStockReport godoc
// @Summary      Reporte PDF de alertas de stock bajo
// @Tags         inventory
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/inventory/alerts/report.pdf [get]
func (h *InventoryHandler) LowStockReport(c *fiber.Ctx) error {
	doc, err := h.uc.LowStockReport(c.UserContext())
	if err != nil {
		return handleError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="alertas-stock.pdf"`)
	return c.Status(fiber.StatusOK).Send(doc)
}

// History godoc
// @Summary      Historial de movimientos
// @Description  Más reciente primero. page es base 0; size por defecto 20, máximo 100.
// @Tags         inventory
// @Produce      json
// @Param        productId  query  string  false  "Filtrar por producto (UUID)"
// @Param        storeId    query  string  false  "Filtrar por tienda (origen o destino)"
// @Param        page       query  int     false  "Página (base 0)"  default(0)
// @Param        size       query  int     false  "Tamaño de página"  default(20)
// @Success      200  {object}  dto.Envelope{data=dto.HistoryPage}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/v1/inventory/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "page debe ser un entero", nil)
	}
	size, err := queryInt(c, "size")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "size debe ser un entero", nil)
	}
	out, err := h.uc.ListHistory(c.UserContext(), inventory.HistoryQuery{
		ProductID: c.Query("productId"),
		StoreID:   c.Query("storeId"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "", out)
}

// parseMovement decodifica y valida el body de entrada/salida. ok=false indica que ya se respondió.
func (h *InventoryHandler) parseMovement(c *fiber.Ctx) (inventory.MovementInput, bool, error) {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return inventory.MovementInput{}, false, invalidBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return inventory.MovementInput{}, false, validationFailed(c, errs)
	}
	return inventory.MovementInput{ProductID: in.ProductID, StoreID: in.StoreID, Quantity: in.Quantity}, true, nil
}

// queryInt lee un entero opcional; ausente = 0.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
