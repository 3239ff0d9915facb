package sale_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smartstore/backend/internal/domain/sale"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func linea(qty, unit, purchase string) sale.Line {
	return sale.Line{
		ProductID:     1,
		Quantity:      dec(qty),
		UnitPrice:     dec(unit),
		PurchasePrice: dec(purchase),
	}
}

func TestLineTotal_CantidadPorPrecio(t *testing.T) {
	l := linea("3", "10.50", "7")
	assert.True(t, dec("31.50").Equal(sale.LineTotal(l)), "got %s", sale.LineTotal(l))
}

func TestLineProfit_MargenPorCantidad(t *testing.T) {
	// (10.50 - 7.00) * 3 = 10.50
	l := linea("3", "10.50", "7")
	assert.True(t, dec("10.50").Equal(sale.LineProfit(l)), "got %s", sale.LineProfit(l))
}

func TestLineProfit_PuedeSerNegativo(t *testing.T) {
	// Vender bajo costo produce pérdida, no se recorta a cero.
	l := linea("2", "5", "8")
	assert.True(t, dec("-6").Equal(sale.LineProfit(l)), "got %s", sale.LineProfit(l))
}

func TestTotalAmount_SumaLineas(t *testing.T) {
	lines := []sale.Line{
		linea("2", "10", "6"),
		linea("1", "4.25", "3"),
	}
	assert.True(t, dec("24.25").Equal(sale.TotalAmount(lines)))
}

func TestFinalAmount_AplicaDescuentoEImpuesto(t *testing.T) {
	// total - descuento + impuesto
	final := sale.FinalAmount(dec("100"), dec("10"), dec("19"))
	assert.True(t, dec("109").Equal(final), "got %s", final)
}

func TestFinalAmount_SinAjustes(t *testing.T) {
	final := sale.FinalAmount(dec("57.30"), decimal.Zero, decimal.Zero)
	assert.True(t, dec("57.30").Equal(final))
}

func TestSummarize_AcumulaItemsCantidadYGanancia(t *testing.T) {
	lines := []sale.Line{
		linea("2", "10", "6"), // ganancia 8
		linea("5", "3", "2"),  // ganancia 5
	}
	s := sale.Summarize(lines)
	assert.Equal(t, 2, s.TotalItems)
	assert.True(t, dec("7").Equal(s.TotalQuantity), "got %s", s.TotalQuantity)
	assert.True(t, dec("13").Equal(s.TotalProfit), "got %s", s.TotalProfit)
}

func TestSummarize_SinLineas(t *testing.T) {
	s := sale.Summarize(nil)
	assert.Equal(t, 0, s.TotalItems)
	assert.True(t, s.TotalQuantity.IsZero())
	assert.True(t, s.TotalProfit.IsZero())
}
