package entity

import (
	"errors"
	"time"
)

// MovementType tipo de movimiento registrado en el ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIN       MovementType = "IN"       // entrada (incluye carga inicial)
	MovementTypeOUT      MovementType = "OUT"      // salida
	MovementTypeTRANSFER MovementType = "TRANSFER" // traslado entre tiendas
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeTRANSFER:
		return true
	}
	return false
}

var (
	errLedgerQuantity = errors.New("ledger: cantidad inválida para el tipo de movimiento")
	errLedgerShape    = errors.New("ledger: tiendas origen/destino no corresponden al tipo")
	errLedgerType     = errors.New("ledger: tipo de movimiento desconocido")
	errLedgerProduct  = errors.New("ledger: product_id requerido")
)

// LedgerEntry registro inmutable de un movimiento de stock. Se crea una vez por
// operación exitosa y nunca se actualiza ni se elimina.
type LedgerEntry struct {
	ID            string
	ProductID     string
	SourceStoreID *string
	TargetStoreID *string
	Quantity      int64
	Timestamp     time.Time
	Type          MovementType
}

// NewInEntry entrada hacia storeID.
func NewInEntry(productID, storeID string, quantity int64) *LedgerEntry {
	return &LedgerEntry{ProductID: productID, TargetStoreID: &storeID, Quantity: quantity, Type: MovementTypeIN}
}

// NewOutEntry salida desde storeID.
func NewOutEntry(productID, storeID string, quantity int64) *LedgerEntry {
	return &LedgerEntry{ProductID: productID, SourceStoreID: &storeID, Quantity: quantity, Type: MovementTypeOUT}
}

// NewTransferEntry traslado de sourceStoreID a targetStoreID.
func NewTransferEntry(productID, sourceStoreID, targetStoreID string, quantity int64) *LedgerEntry {
	return &LedgerEntry{
		ProductID:     productID,
		SourceStoreID: &sourceStoreID,
		TargetStoreID: &targetStoreID,
		Quantity:      quantity,
		Type:          MovementTypeTRANSFER,
	}
}

// Validate verifica la forma del registro: IN solo destino, OUT solo origen, TRANSFER ambos.
// La cantidad es positiva; solo IN admite 0 (carga inicial en cero).
// La igualdad origen == destino en TRANSFER es política del motor, no del registro.
func (e *LedgerEntry) Validate() error {
	if e.ProductID == "" {
		return errLedgerProduct
	}
	if e.Quantity < 0 || (e.Quantity == 0 && e.Type != MovementTypeIN) {
		return errLedgerQuantity
	}
	hasSource := e.SourceStoreID != nil && *e.SourceStoreID != ""
	hasTarget := e.TargetStoreID != nil && *e.TargetStoreID != ""
	switch e.Type {
	case MovementTypeIN:
		if !hasTarget || e.SourceStoreID != nil {
			return errLedgerShape
		}
	case MovementTypeOUT:
		if !hasSource || e.TargetStoreID != nil {
			return errLedgerShape
		}
	case MovementTypeTRANSFER:
		if !hasSource || !hasTarget {
			return errLedgerShape
		}
	default:
		return errLedgerType
	}
	return nil
}

// Touches indica si el registro involucra a storeID como origen o destino.
func (e *LedgerEntry) Touches(storeID string) bool {
	return (e.SourceStoreID != nil && *e.SourceStoreID == storeID) ||
		(e.TargetStoreID != nil && *e.TargetStoreID == storeID)
}

// SignedDelta contribución del registro al saldo de storeID:
// +Quantity si la tienda es destino, -Quantity si es origen (un traslado a sí misma suma 0).
func (e *LedgerEntry) SignedDelta(storeID string) int64 {
	var delta int64
	if e.TargetStoreID != nil && *e.TargetStoreID == storeID {
		delta += e.Quantity
	}
	if e.SourceStoreID != nil && *e.SourceStoreID == storeID {
		delta -= e.Quantity
	}
	return delta
}
