package sales

import (
	"context"

	"github.com/smartstore/backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del procesador de
// ventas: o se confirma todo (venta, líneas, decrementos, movimientos) o nada.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
