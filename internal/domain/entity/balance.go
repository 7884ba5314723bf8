package entity

import "time"

// BalanceKey identifica un saldo por tienda y producto.
type BalanceKey struct {
	StoreID   string
	ProductID string
}

// Less define el orden total de las llaves; los bloqueos se toman siempre en este orden.
func (k BalanceKey) Less(other BalanceKey) bool {
	if k.StoreID != other.StoreID {
		return k.StoreID < other.StoreID
	}
	return k.ProductID < other.ProductID
}

// String representación estable de la llave (usada en logs y en el adaptador en memoria).
func (k BalanceKey) String() string {
	return k.StoreID + "/" + k.ProductID
}

// Balance representa la cantidad actual de un producto en una tienda y su umbral de alerta.
// La ausencia de fila equivale a (0, 0); Quantity nunca es negativa.
type Balance struct {
	StoreID   string
	ProductID string
	Quantity  int64
	MinStock  int64
	UpdatedAt time.Time
}

// NewBalance construye el saldo por defecto (0/0) para una llave sin historial.
func NewBalance(storeID, productID string) *Balance {
	return &Balance{StoreID: storeID, ProductID: productID}
}

// Key devuelve la llave compuesta del saldo.
func (b *Balance) Key() BalanceKey {
	return BalanceKey{StoreID: b.StoreID, ProductID: b.ProductID}
}

// IsLow indica si el saldo está en o por debajo de su mínimo.
func (b *Balance) IsLow() bool {
	return b.Quantity <= b.MinStock
}
