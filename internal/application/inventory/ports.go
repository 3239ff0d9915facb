package inventory

import (
	"context"

	"github.com/smartstore/backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de producto y movimientos atados a esa tx. El ajuste de stock
// y su registro en el libro de movimientos confirman juntos o no confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
