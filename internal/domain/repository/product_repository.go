package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/domain/entity"
)

// ProductFilter filtros de listado del catálogo.
type ProductFilter struct {
	Category     string
	Search       string // nombre o código de barras
	LowStock     bool   // quantity <= min_quantity
	ExpiringSoon bool   // vence dentro de 7 días
	Limit        int
	Offset       int
}

// ProductRepository puerto de persistencia del catálogo de productos.
// La cantidad solo se modifica vía SetQuantity dentro de la transacción que
// registra el movimiento de inventario correspondiente.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de
	// la transacción en curso; serializa ventas concurrentes sobre el mismo producto.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// SetQuantity fija la cantidad resultante de un movimiento ya validado.
	SetQuantity(ctx context.Context, productID int64, quantity decimal.Decimal, at time.Time) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	Deactivate(ctx context.Context, id int64) error
}
