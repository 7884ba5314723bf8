package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoadStockRequest body para POST /api/v1/inventory/load.
type LoadStockRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	StoreID   string `json:"storeId" validate:"required,notblank,max=50"`
	Quantity  *int64 `json:"quantity" validate:"required,min=0"`
	MinStock  *int64 `json:"minStock" validate:"omitempty,min=0"`
}

// MovementRequest body para POST /api/v1/inventory/in y /out.
type MovementRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	StoreID   string `json:"storeId" validate:"required,notblank,max=50"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// TransferRequest body para POST /api/v1/inventory/transfer.
type TransferRequest struct {
	ProductID     string `json:"productId" validate:"required,uuid"`
	SourceStoreID string `json:"sourceStoreId" validate:"required,notblank,max=50"`
	TargetStoreID string `json:"targetStoreId" validate:"required,notblank,max=50"`
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
}

// InventoryItem saldo de un producto en una tienda.
type InventoryItem struct {
	StoreID   string `json:"storeId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	MinStock  int64  `json:"minStock"`
}

// LowStockAlert saldo en o bajo su mínimo, enriquecido con datos del catálogo.
type LowStockAlert struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	StoreID     string          `json:"storeId"`
	Quantity    int64           `json:"quantity"`
	MinStock    int64           `json:"minStock"`
}

// LedgerEntryResponse registro del historial de movimientos.
type LedgerEntryResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	SourceStoreID *string   `json:"sourceStoreId"`
	TargetStoreID *string   `json:"targetStoreId"`
	Quantity      int64     `json:"quantity"`
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type"`
}

// HistoryPage página del historial (page es base 0).
type HistoryPage struct {
	Items      []LedgerEntryResponse `json:"items"`
	Page       int                   `json:"page"`
	Size       int                   `json:"size"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"totalPages"`
}

// ProductStockResponse stock total de un producto sumando todas las tiendas.
type ProductStockResponse struct {
	ProductID     string `json:"productId"`
	TotalQuantity int64  `json:"totalQuantity"`
	HasAtLeast    *bool  `json:"hasAtLeast,omitempty"`
}
