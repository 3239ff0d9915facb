package repository

import (
	"context"
	"time"

	"github.com/smartstore/backend/internal/domain/entity"
)

// InventoryMovementRepository puerto del libro mayor de movimientos de stock.
// Solo inserción y lectura: los movimientos nunca se actualizan ni se borran.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByProduct(ctx context.Context, productID int64, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
