package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine fila plana para agregación: línea de venta con datos de la venta y
// del producto. Lectura de snapshot consistente; no bloquea escritores.
type SaleLine struct {
	SaleID        int64
	SaleDate      time.Time
	PaymentMethod string
	FinalAmount   decimal.Decimal // monto final de la venta (repetido por línea)
	ProductID     int64
	ProductName   string
	Category      string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	PurchasePrice decimal.Decimal
	Profit        decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para los analizadores.
type AnalyticsRepository interface {
	// ListSaleLines devuelve todas las líneas de venta en [start, end],
	// excluyendo ventas canceladas.
	ListSaleLines(ctx context.Context, start, end time.Time) ([]SaleLine, error)
}
