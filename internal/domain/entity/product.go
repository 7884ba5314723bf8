package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock no vive aquí: se maneja
// por tienda en Balance y solo cambia vía el motor de inventario.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	SKU         string // único en el catálogo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductSummary vista mínima del catálogo usada por el núcleo (alertas).
type ProductSummary struct {
	ID    string
	Name  string
	SKU   string
	Price decimal.Decimal
}

// Summary proyecta el producto a su vista mínima.
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, SKU: p.SKU, Price: p.Price}
}
