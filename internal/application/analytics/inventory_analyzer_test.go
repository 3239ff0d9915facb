package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstore/backend/internal/application/analytics"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/repository"
)

// fakeProducts implementa ProductRepository devolviendo una lista fija; solo
// ListActive se usa desde los analizadores.
type fakeProducts struct {
	repository.ProductRepository // los métodos no usados entran en pánico al llamarse

	active []*entity.Product
}

func (f *fakeProducts) ListActive(ctx context.Context) ([]*entity.Product, error) {
	return f.active, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var ahora = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func analyzer(products ...*entity.Product) *analytics.InventoryAnalyzer {
	return analytics.NewInventoryAnalyzer(
		&fakeProducts{active: products},
		analytics.DefaultRules(),
		func() time.Time { return ahora },
	)
}

func prod(name, category, selling, purchase, qty, minQty string) *entity.Product {
	return &entity.Product{
		Name:          name,
		Category:      category,
		SellingPrice:  dec(selling),
		PurchasePrice: dec(purchase),
		Quantity:      dec(qty),
		MinQuantity:   dec(minQty),
		IsActive:      true,
	}
}

func warningsOfType(report *dto.InventoryReport, typ string) []dto.InventoryWarning {
	var out []dto.InventoryWarning
	for _, w := range report.Warnings {
		if w.Type == typ {
			out = append(out, w)
		}
	}
	return out
}

func TestAnalyze_TotalesYCategorias(t *testing.T) {
	a := analyzer(
		prod("أرز", "مواد غذائية", "10", "7", "20", "5"),
		prod("سكر", "مواد غذائية", "4", "3", "10", "5"),
		prod("منظف", "منظفات", "8", "5", "6", "2"),
	)

	report, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalProducts)
	// 20×7 + 10×3 + 6×5 = 200
	assert.True(t, dec("200").Equal(report.TotalInvestment), "got %s", report.TotalInvestment)

	require.Len(t, report.Categories, 2)
	food := report.Categories["مواد غذائية"]
	assert.Equal(t, 2, food.Count)
	assert.True(t, dec("170").Equal(food.Value))
	assert.Equal(t, []string{"أرز", "سكر"}, food.Items)
}

func TestAnalyze_StockBajoEsProporcionAlMinimo(t *testing.T) {
	a := analyzer(
		// 1/10 = 0.1 < 0.2: advierte.
		prod("حليب", "ألبان", "6", "4", "1", "10"),
		// 5/10 = 0.5: bajo el mínimo pero sobre el umbral, no advierte.
		prod("جبن", "ألبان", "9", "6", "5", "10"),
	)

	report, err := a.Analyze(context.Background())
	require.NoError(t, err)

	warnings := warningsOfType(report, analytics.WarningLowStock)
	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, "حليب", w.Product)
	assert.Equal(t, analytics.UrgencyHigh, w.Urgency)
	require.NotNil(t, w.Current)
	assert.True(t, dec("1").Equal(*w.Current))
	require.NotNil(t, w.Minimum)
	assert.True(t, dec("10").Equal(*w.Minimum))
}

func TestAnalyze_StockBajoConMinimoCero(t *testing.T) {
	// Sin mínimo definido la proporción no existe: solo advierte al agotarse.
	conStock := prod("ماء", "مشروبات", "1", "0.5", "3", "0")
	agotado := prod("عصير", "مشروبات", "3", "2", "0", "0")
	a := analyzer(conStock, agotado)

	report, err := a.Analyze(context.Background())
	require.NoError(t, err)

	warnings := warningsOfType(report, analytics.WarningLowStock)
	require.Len(t, warnings, 1)
	assert.Equal(t, "عصير", warnings[0].Product)
}

func TestAnalyze_VencimientoEscalaUrgencia(t *testing.T) {
	en6dias := ahora.AddDate(0, 0, 6)
	en2dias := ahora.AddDate(0, 0, 2)
	en20dias := ahora.AddDate(0, 0, 20)

	p1 := prod("زبادي", "ألبان", "2", "1", "10", "2")
	p1.ExpiryDate = &en6dias
	p2 := prod("لبن", "ألبان", "2", "1", "10", "2")
	p2.ExpiryDate = &en2dias
	p3 := prod("معلبات", "مواد غذائية", "5", "3", "10", "2")
	p3.ExpiryDate = &en20dias

	report, err := analyzer(p1, p2, p3).Analyze(context.Background())
	require.NoError(t, err)

	warnings := warningsOfType(report, analytics.WarningExpiry)
	require.Len(t, warnings, 2)
	assert.Equal(t, "زبادي", warnings[0].Product)
	assert.Equal(t, analytics.UrgencyHigh, warnings[0].Urgency)
	assert.Equal(t, "لبن", warnings[1].Product)
	assert.Equal(t, analytics.UrgencyCritical, warnings[1].Urgency)
	require.NotNil(t, warnings[1].DaysLeft)
	assert.Equal(t, 2, *warnings[1].DaysLeft)
}

func TestAnalyze_VentaAPerdida(t *testing.T) {
	a := analyzer(prod("عرض خاص", "عروض", "4", "6", "10", "2"))

	report, err := a.Analyze(context.Background())
	require.NoError(t, err)

	warnings := warningsOfType(report, analytics.WarningLoss)
	require.Len(t, warnings, 1)
	require.NotNil(t, warnings[0].LossPerUnit)
	assert.True(t, dec("2").Equal(*warnings[0].LossPerUnit))
}

func TestAnalyze_MovimientoLento(t *testing.T) {
	// quantity × 30 / 10 > 30 ⟺ quantity > 10.
	a := analyzer(
		prod("مخلل", "مواد غذائية", "5", "3", "11", "2"),
		prod("ملح", "مواد غذائية", "1", "0.5", "10", "2"),
	)

	report, err := a.Analyze(context.Background())
	require.NoError(t, err)

	var slow *dto.Suggestion
	for i := range report.Suggestions {
		if report.Suggestions[i].Type == "slow_moving" {
			slow = &report.Suggestions[i]
		}
	}
	require.NotNil(t, slow)
	assert.Equal(t, []string{"مخلل"}, slow.Items)
}

func TestAnalyze_SugerenciasPorGrupo(t *testing.T) {
	en2dias := ahora.AddDate(0, 0, 2)
	bajo := prod("حليب", "ألبان", "6", "4", "1", "10")
	porVencer := prod("زبادي", "ألبان", "2", "1", "5", "1")
	porVencer.ExpiryDate = &en2dias
	perdida := prod("عرض", "عروض", "4", "6", "5", "1")

	report, err := analyzer(bajo, porVencer, perdida).Analyze(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Suggestions, 3)
	assert.Equal(t, "إعادة تعبئة المخزون", report.Suggestions[0].Title)
	assert.Equal(t, []string{"حليب"}, report.Suggestions[0].Items)
	assert.Equal(t, analytics.UrgencyCritical, report.Suggestions[1].Priority)
	assert.Equal(t, "مراجعة الأسعار", report.Suggestions[2].Title)
}

func TestAnalyze_InventarioSano(t *testing.T) {
	report, err := analyzer(prod("أرز", "مواد غذائية", "10", "7", "8", "3")).Analyze(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
	assert.Empty(t, report.Suggestions)
}

func TestRecommendations_ProblemasDePrecio(t *testing.T) {
	a := analyzer(
		// margen (10.5-10)/10 = 5% < 10%: subvaluado.
		prod("ب سلعة", "عام", "10.5", "10", "8", "2"),
		prod("أ سلعة", "عام", "5.2", "5", "8", "2"),
		// margen 150% > 100%: sobrevaluado.
		prod("عطر", "عطور", "25", "10", "8", "2"),
		// margen 30%: sin observaciones.
		prod("صابون", "منظفات", "13", "10", "8", "2"),
	)

	recs, err := a.Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "هامش ربح منخفض", recs[0].Title)
	// Ordenado alfabéticamente.
	assert.Equal(t, []string{"أ سلعة", "ب سلعة"}, recs[0].Items)
	assert.Equal(t, "هامش ربح مرتفع جداً", recs[1].Title)
	assert.Equal(t, []string{"عطر"}, recs[1].Items)
}

func TestRecommendations_IncluyeAdvertenciasDeInventario(t *testing.T) {
	a := analyzer(prod("حليب", "ألبان", "6", "4", "1", "10"))

	recs, err := a.Recommendations(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, analytics.WarningLowStock, recs[0].Type)
}
