package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain/repository"
)

var oneHundred = decimal.NewFromInt(100)

// ProfitAnalyzer calcula la rentabilidad de un período a partir de las líneas
// de venta: ingreso, costo, ganancia, margen, desglose por categoría y los
// productos de mejor y peor desempeño. Solo lectura.
type ProfitAnalyzer struct {
	analytics repository.AnalyticsRepository
	rules     Rules
}

// NewProfitAnalyzer construye el analizador.
func NewProfitAnalyzer(analytics repository.AnalyticsRepository, rules Rules) *ProfitAnalyzer {
	return &ProfitAnalyzer{analytics: analytics, rules: rules}
}

// Analyze genera el reporte de rentabilidad del rango [start, end].
func (a *ProfitAnalyzer) Analyze(ctx context.Context, start, end time.Time) (*dto.ProfitReport, error) {
	lines, err := a.analytics.ListSaleLines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	report := buildProfitReport(lines, a.rules)
	report.Period = dto.PeriodDTO{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
	return report, nil
}

// buildProfitReport es el núcleo puro del análisis.
func buildProfitReport(lines []repository.SaleLine, rules Rules) *dto.ProfitReport {
	report := &dto.ProfitReport{
		ByCategory:       map[string]dto.CategoryProfit{},
		TopPerforming:    []dto.ProductProfit{},
		BottomPerforming: []dto.ProductProfit{},
		Suggestions:      []dto.Suggestion{},
	}

	type prodAcc struct {
		name     string
		profit   decimal.Decimal
		quantity decimal.Decimal
	}
	byProduct := map[string]*prodAcc{}
	var productOrder []string
	for _, l := range lines {
		cost := l.PurchasePrice.Mul(l.Quantity)
		report.TotalRevenue = report.TotalRevenue.Add(l.TotalPrice)
		report.TotalCost = report.TotalCost.Add(cost)

		cat := report.ByCategory[l.Category]
		cat.Revenue = cat.Revenue.Add(l.TotalPrice)
		cat.Cost = cat.Cost.Add(cost)
		cat.Profit = cat.Profit.Add(l.Profit)
		report.ByCategory[l.Category] = cat

		acc, ok := byProduct[l.ProductName]
		if !ok {
			acc = &prodAcc{name: l.ProductName}
			byProduct[l.ProductName] = acc
			productOrder = append(productOrder, l.ProductName)
		}
		acc.profit = acc.profit.Add(l.Profit)
		acc.quantity = acc.quantity.Add(l.Quantity)
	}

	report.TotalProfit = report.TotalRevenue.Sub(report.TotalCost)
	// Un período sin ingresos define margen 0, nunca una división por cero.
	if report.TotalRevenue.IsPositive() {
		report.ProfitMargin = report.TotalProfit.Div(report.TotalRevenue).Mul(oneHundred).Round(2)
	}

	ranked := make([]dto.ProductProfit, 0, len(productOrder))
	for _, name := range productOrder {
		acc := byProduct[name]
		ranked = append(ranked, dto.ProductProfit{Product: acc.name, Profit: acc.profit, Quantity: acc.quantity})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Profit.GreaterThan(ranked[j].Profit) })

	top := 5
	if top > len(ranked) {
		top = len(ranked)
	}
	report.TopPerforming = append(report.TopPerforming, ranked[:top]...)
	bottom := len(ranked) - 5
	if bottom < 0 {
		bottom = 0
	}
	report.BottomPerforming = append(report.BottomPerforming, ranked[bottom:]...)

	if report.TotalRevenue.IsPositive() && report.ProfitMargin.LessThan(rules.MinProfitMargin) {
		report.Suggestions = append(report.Suggestions, dto.Suggestion{
			Type:     "low_margin",
			Priority: UrgencyHigh,
			Title:    "هامش الربح منخفض",
			Message:  fmt.Sprintf("هامش الربح الحالي %s%% وهو أقل من الحد المستهدف %s%%", report.ProfitMargin, rules.MinProfitMargin),
			Actions: []string{
				"راجع أسعار البيع للمنتجات الأكثر مبيعاً",
				"تفاوض مع الموردين على أسعار شراء أفضل",
				"قلل المنتجات التي تُباع بهامش ضعيف",
			},
		})
	}
	return report
}
