package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cambio de stock.
const (
	ChangeTypeSale       = "sale"
	ChangeTypeRestock    = "restock"
	ChangeTypeAdjustment = "adjustment"
)

// Tipos de referencia de un movimiento.
const (
	ReferenceTypeSale   = "sale"
	ReferenceTypeManual = "manual"
)

// InventoryMovement es un registro de auditoría append-only de cada cambio de
// cantidad de un producto. Nunca se actualiza ni se borra.
// Invariante: NewQuantity = PreviousQuantity + QuantityChange.
type InventoryMovement struct {
	ID               int64
	ProductID        int64
	ChangeType       string          // sale | restock | adjustment
	QuantityChange   decimal.Decimal // con signo: negativo en ventas
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	ReferenceID      *int64 // id de la venta cuando ChangeType = sale
	ReferenceType    string
	Reason           string
	TransactionID    string // UUID que agrupa los movimientos de una misma operación
	CreatedBy        int64
	CreatedAt        time.Time
}
