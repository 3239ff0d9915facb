// Package sale contiene las funciones puras de derivación monetaria de una
// venta. Se invocan explícitamente desde el procesador de ventas antes de
// persistir, en lugar de hooks implícitos de ciclo de vida del registro, para
// poder probarlas aisladas del almacenamiento.
package sale

import "github.com/shopspring/decimal"

// Line una línea de venta ya resuelta (precio efectivo y snapshot de compra).
type Line struct {
	ProductID     int64
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	PurchasePrice decimal.Decimal
}

// LineTotal devuelve quantity × unit_price.
func LineTotal(l Line) decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// LineProfit devuelve (unit_price - purchase_price) × quantity.
func LineProfit(l Line) decimal.Decimal {
	return l.UnitPrice.Sub(l.PurchasePrice).Mul(l.Quantity)
}

// TotalAmount suma los totales de línea.
func TotalAmount(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l))
	}
	return total
}

// FinalAmount aplica descuento e impuesto: total - discount + tax.
func FinalAmount(total, discount, tax decimal.Decimal) decimal.Decimal {
	return total.Sub(discount).Add(tax)
}

// Summary resumen agregado de una venta.
type Summary struct {
	TotalItems    int
	TotalQuantity decimal.Decimal
	TotalProfit   decimal.Decimal
}

// Summarize calcula el resumen (número de líneas, cantidad total, ganancia total).
func Summarize(lines []Line) Summary {
	s := Summary{TotalItems: len(lines), TotalQuantity: decimal.Zero, TotalProfit: decimal.Zero}
	for _, l := range lines {
		s.TotalQuantity = s.TotalQuantity.Add(l.Quantity)
		s.TotalProfit = s.TotalProfit.Add(LineProfit(l))
	}
	return s
}
