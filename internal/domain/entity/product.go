package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// Quantity nunca es negativa y solo se modifica vía operaciones explícitas de
// ajuste de stock (venta, reposición, corrección manual), nunca por escritura directa.
type Product struct {
	ID            int64
	Barcode       string
	Name          string
	Category      string // por defecto 'عام' (general)
	Unit          string // por defecto 'قطعة' (unidad)
	PurchasePrice decimal.Decimal // precio de compra, 3 decimales
	SellingPrice  decimal.Decimal // precio de venta, 3 decimales
	Quantity      decimal.Decimal
	MinQuantity   decimal.Decimal
	ExpiryDate    *time.Time // opcional
	Notes         string
	IsActive      bool
	CreatedBy     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfitMargin devuelve el margen sobre el precio de compra en porcentaje:
// (venta - compra) / compra * 100. Si el precio de compra es cero devuelve 0.
func (p *Product) ProfitMargin() decimal.Decimal {
	if !p.PurchasePrice.IsPositive() {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.PurchasePrice).
		Div(p.PurchasePrice).
		Mul(decimal.NewFromInt(100))
}

// StockValue devuelve el valor del inventario a precio de compra (quantity × purchase_price).
func (p *Product) StockValue() decimal.Decimal {
	return p.Quantity.Mul(p.PurchasePrice)
}

// DaysToExpiry devuelve los días calendario completos hasta el vencimiento
// (floor, puede ser negativo si ya venció). ok=false si no tiene fecha de vencimiento.
func (p *Product) DaysToExpiry(now time.Time) (days int, ok bool) {
	if p.ExpiryDate == nil {
		return 0, false
	}
	diff := p.ExpiryDate.Sub(now)
	days = int(diff.Hours() / 24)
	if diff < 0 && diff.Hours()/24 != float64(days) {
		days-- // floor para diferencias negativas
	}
	return days, true
}
