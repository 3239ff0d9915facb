package entity

import "github.com/shopspring/decimal"

// SaleItem es una línea de venta con precios congelados al momento de la venta
// (PurchasePrice es snapshot, no referencia viva al producto). Inmutable una vez escrita.
// Invariantes: TotalPrice = Quantity × UnitPrice; Profit = (UnitPrice - PurchasePrice) × Quantity.
type SaleItem struct {
	ID            int64
	SaleID        int64
	ProductID     int64
	Quantity      decimal.Decimal // > 0
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	PurchasePrice decimal.Decimal
	Profit        decimal.Decimal
}

// ProfitPercentage devuelve el margen de la línea sobre el precio de compra
// en porcentaje. Si el precio de compra es cero devuelve 0.
func (i *SaleItem) ProfitPercentage() decimal.Decimal {
	if !i.PurchasePrice.IsPositive() {
		return decimal.Zero
	}
	return i.UnitPrice.Sub(i.PurchasePrice).
		Div(i.PurchasePrice).
		Mul(decimal.NewFromInt(100))
}
