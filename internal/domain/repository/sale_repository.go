package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/domain/entity"
)

// SalesFilter filtros del reporte de ventas.
type SalesFilter struct {
	Start         time.Time
	End           time.Time
	PaymentMethod string
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
}

// SaleItemWithProduct línea de venta enriquecida con nombre y categoría del
// producto (join de lectura; el snapshot de precios vive en la propia línea).
type SaleItemWithProduct struct {
	entity.SaleItem
	ProductName string
	Category    string
}

// SaleWithItems venta con sus líneas, para reportes y consultas.
type SaleWithItems struct {
	Sale  entity.Sale
	Items []SaleItemWithProduct
}

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create persiste la cabecera y asigna sale.ID. Si el número de factura ya
	// existe (asignación concurrente del mismo consecutivo) devuelve
	// domain.ErrSequencingConflict; el procesador reintenta la transacción completa.
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID int64) ([]SaleItemWithProduct, error)
	// LastInvoiceNumberOfDay devuelve el número de factura más reciente del día
	// (YYYYMMDD), o cadena vacía si es la primera venta del día.
	LastInvoiceNumberOfDay(ctx context.Context, day string) (string, error)
	ListWithItems(ctx context.Context, filter SalesFilter) ([]*SaleWithItems, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status string) error
}
