package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstore/backend/internal/application/analytics"
	"github.com/smartstore/backend/internal/domain/repository"
)

// fakeSaleLines implementa AnalyticsRepository con líneas fijas.
type fakeSaleLines struct {
	lines []repository.SaleLine
}

func (f *fakeSaleLines) ListSaleLines(ctx context.Context, start, end time.Time) ([]repository.SaleLine, error) {
	return f.lines, nil
}

func profitLine(product, category, qty, unitPrice, purchase string) repository.SaleLine {
	q, u, p := dec(qty), dec(unitPrice), dec(purchase)
	return repository.SaleLine{
		ProductName:   product,
		Category:      category,
		Quantity:      q,
		UnitPrice:     u,
		PurchasePrice: p,
		TotalPrice:    q.Mul(u),
		Profit:        u.Sub(p).Mul(q),
	}
}

var (
	inicio = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	fin    = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
)

func profitAnalyzer(lines ...repository.SaleLine) *analytics.ProfitAnalyzer {
	return analytics.NewProfitAnalyzer(&fakeSaleLines{lines: lines}, analytics.DefaultRules())
}

func TestProfitAnalyze_TotalesYMargen(t *testing.T) {
	// Ingresos 100 + 60 = 160, costos 70 + 40 = 110, ganancia 50.
	a := profitAnalyzer(
		profitLine("أرز", "مواد غذائية", "10", "10", "7"),
		profitLine("سكر", "مواد غذائية", "10", "6", "4"),
	)

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	assert.True(t, dec("160").Equal(report.TotalRevenue), "got %s", report.TotalRevenue)
	assert.True(t, dec("110").Equal(report.TotalCost))
	assert.True(t, dec("50").Equal(report.TotalProfit))
	// 50 / 160 × 100 = 31.25
	assert.True(t, dec("31.25").Equal(report.ProfitMargin), "got %s", report.ProfitMargin)

	assert.Equal(t, "2025-07-01", report.Period.StartDate)
	assert.Equal(t, "2025-07-31", report.Period.EndDate)
}

func TestProfitAnalyze_DesglosePorCategoria(t *testing.T) {
	a := profitAnalyzer(
		profitLine("أرز", "مواد غذائية", "2", "10", "7"),
		profitLine("منظف", "منظفات", "3", "8", "5"),
	)

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	require.Len(t, report.ByCategory, 2)
	food := report.ByCategory["مواد غذائية"]
	assert.True(t, dec("20").Equal(food.Revenue))
	assert.True(t, dec("14").Equal(food.Cost))
	assert.True(t, dec("6").Equal(food.Profit))
}

func TestProfitAnalyze_SinVentasMargenCero(t *testing.T) {
	report, err := profitAnalyzer().Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	assert.True(t, report.TotalRevenue.IsZero())
	assert.True(t, report.ProfitMargin.IsZero())
	assert.Empty(t, report.TopPerforming)
	assert.Empty(t, report.BottomPerforming)
	assert.Empty(t, report.Suggestions)
}

func TestProfitAnalyze_RankingDeProductos(t *testing.T) {
	// Siete productos con siete niveles de ganancia.
	var lines []repository.SaleLine
	for i := 1; i <= 7; i++ {
		lines = append(lines, profitLine(
			fmt.Sprintf("منتج %d", i), "عام",
			"1", fmt.Sprintf("%d", 10+i), "10", // ganancia i
		))
	}
	a := profitAnalyzer(lines...)

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	// Los cinco mejores, en orden descendente de ganancia.
	require.Len(t, report.TopPerforming, 5)
	assert.Equal(t, "منتج 7", report.TopPerforming[0].Product)
	assert.Equal(t, "منتج 3", report.TopPerforming[4].Product)

	// Los cinco peores, también presentados en orden descendente.
	require.Len(t, report.BottomPerforming, 5)
	assert.Equal(t, "منتج 5", report.BottomPerforming[0].Product)
	assert.Equal(t, "منتج 1", report.BottomPerforming[4].Product)
}

func TestProfitAnalyze_RankingConPocosProductos(t *testing.T) {
	a := profitAnalyzer(
		profitLine("أرز", "عام", "1", "12", "10"),
		profitLine("سكر", "عام", "1", "11", "10"),
	)

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	// Con menos de cinco, ambos extremos contienen todo el ranking.
	require.Len(t, report.TopPerforming, 2)
	require.Len(t, report.BottomPerforming, 2)
	assert.Equal(t, "أرز", report.TopPerforming[0].Product)
}

func TestProfitAnalyze_AcumulaLineasDelMismoProducto(t *testing.T) {
	a := profitAnalyzer(
		profitLine("أرز", "عام", "2", "10", "7"),
		profitLine("أرز", "عام", "3", "10", "7"),
	)

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	require.Len(t, report.TopPerforming, 1)
	assert.True(t, dec("15").Equal(report.TopPerforming[0].Profit))
	assert.True(t, dec("5").Equal(report.TopPerforming[0].Quantity))
}

func TestProfitAnalyze_SugerenciaDeMargenBajo(t *testing.T) {
	// Margen 100×(11-10)/11 ≈ 9.09% < 15%.
	a := profitAnalyzer(profitLine("أرز", "عام", "1", "11", "10"))

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)

	require.Len(t, report.Suggestions, 1)
	s := report.Suggestions[0]
	assert.Equal(t, "low_margin", s.Type)
	assert.Equal(t, analytics.UrgencyHigh, s.Priority)
	assert.NotEmpty(t, s.Actions)
}

func TestProfitAnalyze_MargenSanoSinSugerencias(t *testing.T) {
	// Margen 30% ≥ 15%.
	a := profitAnalyzer(profitLine("أرز", "عام", "1", "10", "7"))

	report, err := a.Analyze(context.Background(), inicio, fin)
	require.NoError(t, err)
	assert.Empty(t, report.Suggestions)
}
