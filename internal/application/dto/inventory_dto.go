package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockRequest reposición de stock (entrada positiva).
type RestockRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"` // > 0
	Reason    string          `json:"reason,omitempty"`
}

// AdjustmentRequest corrección manual de stock. Quantity con signo; el
// resultado nunca puede dejar la cantidad en negativo.
type AdjustmentRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
}

// MovementResponse registro del libro de movimientos.
type MovementResponse struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	ChangeType       string          `json:"change_type"`
	QuantityChange   decimal.Decimal `json:"quantity_change"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	ReferenceID      *int64          `json:"reference_id,omitempty"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// MovementListRequest filtros del historial de movimientos de un producto.
type MovementListRequest struct {
	PageRequest
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
}
