package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPersistence       = errors.New("falla de persistencia")

	// ErrQuantityOverflow es una entrada inválida: la suma excede el rango de int64.
	ErrQuantityOverflow = fmt.Errorf("%w: la cantidad excede el máximo representable", ErrInvalidInput)
)

// IsDomainError indica si err ya pertenece a una de las categorías de dominio
// (y por lo tanto no debe reclasificarse como falla de persistencia).
func IsDomainError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrConflict, ErrInsufficientStock, ErrPersistence} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
