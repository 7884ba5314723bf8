package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CatalogReader lo único que el núcleo de inventario necesita del catálogo.
type CatalogReader interface {
	Exists(ctx context.Context, productID string) (bool, error)
	// GetSummary devuelve nil, nil si el producto no existe.
	GetSummary(ctx context.Context, productID string) (*entity.ProductSummary, error)
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	CatalogReader
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
}
