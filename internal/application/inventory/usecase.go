package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/repository"
)

// UseCase operaciones manuales de inventario: reposición, ajuste y consulta
// del historial de movimientos. Cada cambio de cantidad deja su registro en
// el libro de movimientos dentro de la misma transacción.
type UseCase struct {
	txRunner TxRunner
	movRepo  repository.InventoryMovementRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, movRepo repository.InventoryMovementRepository) *UseCase {
	return &UseCase{txRunner: txRunner, movRepo: movRepo}
}

// Restock registra una entrada de stock. La cantidad debe ser positiva.
func (uc *UseCase) Restock(ctx context.Context, userID int64, in dto.RestockRequest) (*dto.MovementResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad de reposición debe ser positiva", domain.ErrInvalidInput)
	}
	reason := in.Reason
	if reason == "" {
		reason = "إعادة تعبئة المخزون"
	}
	return uc.apply(ctx, userID, in.ProductID, in.Quantity, entity.ChangeTypeRestock, reason)
}

// Adjust registra una corrección manual. La cantidad lleva signo; si el
// resultado dejaría el stock en negativo, se rechaza sin efectos.
func (uc *UseCase) Adjust(ctx context.Context, userID int64, in dto.AdjustmentRequest) (*dto.MovementResponse, error) {
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: el ajuste manual requiere un motivo", domain.ErrInvalidInput)
	}
	return uc.apply(ctx, userID, in.ProductID, in.Quantity, entity.ChangeTypeAdjustment, in.Reason)
}

// apply ejecuta el cambio de cantidad y su movimiento en una transacción,
// bloqueando la fila del producto igual que el procesador de ventas.
func (uc *UseCase) apply(ctx context.Context, userID, productID int64, change decimal.Decimal, changeType, reason string) (*dto.MovementResponse, error) {
	var out *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		now := time.Now()
		p, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsActive {
			return fmt.Errorf("%w: producto %d", domain.ErrProductNotFound, productID)
		}

		newQty := p.Quantity.Add(change)
		if newQty.IsNegative() {
			return fmt.Errorf("%w: cantidad actual %s, ajuste %s", domain.ErrNegativeStock, p.Quantity, change)
		}

		mov := &entity.InventoryMovement{
			ProductID:        productID,
			ChangeType:       changeType,
			QuantityChange:   change,
			PreviousQuantity: p.Quantity,
			NewQuantity:      newQty,
			ReferenceType:    entity.ReferenceTypeManual,
			Reason:           reason,
			TransactionID:    uuid.New().String(),
			CreatedBy:        userID,
			CreatedAt:        now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := productRepo.SetQuantity(ctx, productID, newQty, now); err != nil {
			return err
		}
		out = toMovementResponse(mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMovements devuelve el historial de movimientos de un producto.
func (uc *UseCase) ListMovements(ctx context.Context, productID int64, in dto.MovementListRequest) ([]dto.MovementResponse, error) {
	page := in.PageRequest
	page.DefaultPage()
	movements, err := uc.movRepo.ListByProduct(ctx, productID, in.From, in.To, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		ChangeType:       m.ChangeType,
		QuantityChange:   m.QuantityChange,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		ReferenceID:      m.ReferenceID,
		ReferenceType:    m.ReferenceType,
		Reason:           m.Reason,
		CreatedAt:        m.CreatedAt,
	}
}
