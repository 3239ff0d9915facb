package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	Barcode       string          `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinQuantity   decimal.Decimal `json:"min_quantity"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateProductRequest edición de catálogo. No toca la cantidad: el stock se
// mueve solo vía ventas, reposiciones o ajustes.
type UpdateProductRequest struct {
	Name          string           `json:"name,omitempty"`
	Category      string           `json:"category,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	MinQuantity   *decimal.Decimal `json:"min_quantity,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// ProductListRequest filtros de listado.
type ProductListRequest struct {
	PageRequest
	Category     string `query:"category"`
	Search       string `query:"search"`
	LowStock     bool   `query:"low_stock"`
	ExpiringSoon bool   `query:"expiring_soon"`
}

// ProductResponse producto con campos derivados calculados en lectura.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Barcode       string          `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinQuantity   decimal.Decimal `json:"min_quantity"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IsActive      bool            `json:"is_active"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"` // % sobre precio de compra
	StockValue    decimal.Decimal `json:"stock_value"`   // quantity × purchase_price
}

// ProductListStatistics estadísticas del listado.
type ProductListStatistics struct {
	TotalProducts   int             `json:"total_products"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
}

// ProductListResponse página del catálogo con estadísticas.
type ProductListResponse struct {
	Data       []ProductResponse     `json:"data"`
	Pagination PageResponse          `json:"pagination"`
	Statistics ProductListStatistics `json:"statistics"`
}
