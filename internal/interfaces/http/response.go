package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// Códigos de error expuestos en el envelope.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidBody       = "INVALID_BODY"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Path:      c.Path(),
		Status:    status,
	})
}

func fail(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(dto.Envelope{
		Success:   false,
		Message:   message,
		Data:      details,
		Timestamp: time.Now().UTC(),
		Path:      c.Path(),
		Status:    status,
		Code:      code,
	})
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido", nil)
}

func validationFailed(c *fiber.Ctx, errs []*validator.FieldError) error {
	return fail(c, fiber.StatusBadRequest, CodeValidation, validator.Summary(errs), errs)
}

// handleError traduce los errores del dominio a HTTP. Los no clasificados se registran y
// responden 500 sin exponer el detalle.
func handleError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrQuantityOverflow):
		return fail(c, fiber.StatusBadRequest, CodeValidation, "la cantidad excede el máximo permitido", nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, CodeValidation, "datos inválidos", nil)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, CodeNotFound, "recurso no encontrado", nil)
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, CodeConflict, "ya existe un producto con ese SKU", nil)
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, CodeConflict, "la tienda ya tiene stock cargado para el producto", nil)
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, CodeInsufficientStock, "stock insuficiente", nil)
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return fail(c, fiber.StatusInternalServerError, CodeInternal, "error interno", nil)
}

// ErrorHandler manejador global de fiber: errores de ruteo (404/405) y pánicos recuperados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusRequestEntityTooLarge:
				code = CodeValidation
			}
			return fail(c, fe.Code, code, fe.Message, nil)
		}
		return handleError(c, log, err)
	}
}
