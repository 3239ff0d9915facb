package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/repository"
)

// Tipos de advertencia del analizador de inventario.
const (
	WarningLowStock = "low_stock"
	WarningExpiry   = "expiry"
	WarningLoss     = "loss"
)

// Niveles de urgencia de las advertencias, en árabe como el resto de los
// textos visibles al usuario.
const (
	UrgencyHigh     = "عاجل"
	UrgencyCritical = "عاجل جداً"
)

// InventoryAnalyzer examina el catálogo activo y clasifica los productos en
// advertencias de stock bajo, vencimiento próximo, venta a pérdida y
// movimiento lento. Solo lectura; el resultado se deriva por completo del
// snapshot actual, por lo que repetir el análisis sin cambios produce el
// mismo reporte.
type InventoryAnalyzer struct {
	products repository.ProductRepository
	rules    Rules
	now      func() time.Time
}

// NewInventoryAnalyzer construye el analizador. nowFn nulo usa time.Now.
func NewInventoryAnalyzer(products repository.ProductRepository, rules Rules, nowFn func() time.Time) *InventoryAnalyzer {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &InventoryAnalyzer{products: products, rules: rules, now: nowFn}
}

// Analyze genera el reporte de salud del inventario.
func (a *InventoryAnalyzer) Analyze(ctx context.Context) (*dto.InventoryReport, error) {
	products, err := a.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	report := analyzeProducts(products, a.rules, a.now())
	return report, nil
}

// analyzeProducts es el núcleo puro del análisis, separado para poder
// ejercitarlo sin repositorio.
func analyzeProducts(products []*entity.Product, rules Rules, now time.Time) *dto.InventoryReport {
	report := &dto.InventoryReport{
		TotalProducts: len(products),
		Categories:    map[string]dto.InventoryCategory{},
		Warnings:      []dto.InventoryWarning{},
		Suggestions:   []dto.Suggestion{},
	}

	var lowStock, expiring, losing, slowMoving []string
	for _, p := range products {
		value := p.StockValue()
		report.TotalInvestment = report.TotalInvestment.Add(value)

		cat := report.Categories[p.Category]
		cat.Count++
		cat.Value = cat.Value.Add(value)
		cat.Items = append(cat.Items, p.Name)
		report.Categories[p.Category] = cat

		if w, ok := lowStockWarning(p, rules); ok {
			report.Warnings = append(report.Warnings, w)
			lowStock = append(lowStock, p.Name)
		}
		if w, ok := expiryWarning(p, rules, now); ok {
			report.Warnings = append(report.Warnings, w)
			expiring = append(expiring, p.Name)
		}
		if w, ok := lossWarning(p); ok {
			report.Warnings = append(report.Warnings, w)
			losing = append(losing, p.Name)
		}
		if isSlowMoving(p, rules) {
			slowMoving = append(slowMoving, p.Name)
		}
	}

	if len(lowStock) > 0 {
		report.Suggestions = append(report.Suggestions, dto.Suggestion{
			Type:     WarningLowStock,
			Priority: UrgencyHigh,
			Title:    "إعادة تعبئة المخزون",
			Message:  "هذه المنتجات وصلت إلى مستوى حرج من المخزون",
			Items:    lowStock,
		})
	}
	if len(expiring) > 0 {
		report.Suggestions = append(report.Suggestions, dto.Suggestion{
			Type:     WarningExpiry,
			Priority: UrgencyCritical,
			Title:    "تصريف المنتجات قريبة الانتهاء",
			Message:  "قم بعمل عروض أو خصومات قبل انتهاء الصلاحية",
			Items:    expiring,
		})
	}
	if len(losing) > 0 {
		report.Suggestions = append(report.Suggestions, dto.Suggestion{
			Type:     WarningLoss,
			Priority: UrgencyHigh,
			Title:    "مراجعة الأسعار",
			Message:  "هذه المنتجات تُباع بأقل من سعر الشراء",
			Items:    losing,
		})
	}
	if len(slowMoving) > 0 {
		report.Suggestions = append(report.Suggestions, dto.Suggestion{
			Type:    "slow_moving",
			Title:   "منتجات بطيئة الحركة",
			Message: "كمية المخزون تكفي لأكثر من المدة المستهدفة، فكر في تنشيط مبيعاتها",
			Items:   slowMoving,
		})
	}
	return report
}

// lowStockWarning advierte cuando quantity/min_quantity cae bajo el umbral.
// Con min_quantity <= 0 la razón no está definida: en ese caso solo se
// advierte cuando la cantidad llegó a cero o menos.
func lowStockWarning(p *entity.Product, rules Rules) (dto.InventoryWarning, bool) {
	low := false
	if p.MinQuantity.IsPositive() {
		low = p.Quantity.Div(p.MinQuantity).LessThan(rules.LowStockRatio)
	} else {
		low = !p.Quantity.IsPositive()
	}
	if !low {
		return dto.InventoryWarning{}, false
	}
	current, minimum := p.Quantity, p.MinQuantity
	return dto.InventoryWarning{
		Type:    WarningLowStock,
		Product: p.Name,
		Urgency: UrgencyHigh,
		Message: fmt.Sprintf("الكمية المتبقية %s فقط والحد الأدنى %s", current, minimum),
		Current: &current,
		Minimum: &minimum,
	}, true
}

// expiryWarning advierte cuando quedan WarningDays o menos hasta el
// vencimiento, escalando la urgencia dentro de CriticalDays.
func expiryWarning(p *entity.Product, rules Rules, now time.Time) (dto.InventoryWarning, bool) {
	days, ok := p.DaysToExpiry(now)
	if !ok || days > rules.WarningDays {
		return dto.InventoryWarning{}, false
	}
	urgency := UrgencyHigh
	if days <= rules.CriticalDays {
		urgency = UrgencyCritical
	}
	daysLeft := days
	return dto.InventoryWarning{
		Type:       WarningExpiry,
		Product:    p.Name,
		Urgency:    urgency,
		Message:    fmt.Sprintf("ينتهي خلال %d يوم", days),
		ExpiryDate: p.ExpiryDate,
		DaysLeft:   &daysLeft,
	}, true
}

// lossWarning advierte cuando el precio de venta está por debajo del de compra.
func lossWarning(p *entity.Product) (dto.InventoryWarning, bool) {
	if !p.SellingPrice.LessThan(p.PurchasePrice) {
		return dto.InventoryWarning{}, false
	}
	purchase, selling := p.PurchasePrice, p.SellingPrice
	loss := purchase.Sub(selling)
	return dto.InventoryWarning{
		Type:          WarningLoss,
		Product:       p.Name,
		Urgency:       UrgencyHigh,
		Message:       fmt.Sprintf("يُباع بخسارة %s لكل وحدة", loss),
		PurchasePrice: &purchase,
		SellingPrice:  &selling,
		LossPerUnit:   &loss,
	}, true
}

// isSlowMoving aplica la heurística de días de inventario: cantidad × días
// objetivo / 10 unidades diarias de referencia. Es una tasa plana, no una
// velocidad medida de venta.
func isSlowMoving(p *entity.Product, rules Rules) bool {
	stockDays := p.Quantity.
		Mul(decimal.NewFromInt(int64(rules.MaxStockDays))).
		Div(decimal.NewFromInt(10))
	return stockDays.GreaterThan(decimal.NewFromInt(int64(rules.MaxStockDays)))
}

// Recommendations combina las advertencias de inventario con problemas de
// precios: margen demasiado bajo (< 10%) o desproporcionado (> 100%).
func (a *InventoryAnalyzer) Recommendations(ctx context.Context) ([]dto.Suggestion, error) {
	products, err := a.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	report := analyzeProducts(products, a.rules, a.now())

	recs := make([]dto.Suggestion, 0, len(report.Suggestions))
	recs = append(recs, report.Suggestions...)

	var underpriced, overpriced []string
	ten := decimal.NewFromInt(10)
	hundred := decimal.NewFromInt(100)
	for _, p := range products {
		if !p.PurchasePrice.IsPositive() {
			continue
		}
		margin := p.ProfitMargin()
		switch {
		case margin.LessThan(ten):
			underpriced = append(underpriced, p.Name)
		case margin.GreaterThan(hundred):
			overpriced = append(overpriced, p.Name)
		}
	}
	sort.Strings(underpriced)
	sort.Strings(overpriced)
	if len(underpriced) > 0 {
		recs = append(recs, dto.Suggestion{
			Type:     "pricing",
			Priority: UrgencyHigh,
			Title:    "هامش ربح منخفض",
			Message:  "هذه المنتجات هامش ربحها أقل من 10%، راجع أسعار البيع",
			Items:    underpriced,
		})
	}
	if len(overpriced) > 0 {
		recs = append(recs, dto.Suggestion{
			Type:    "pricing",
			Title:   "هامش ربح مرتفع جداً",
			Message: "هامش الربح يتجاوز 100%، تأكد من تنافسية السعر",
			Items:   overpriced,
		})
	}
	return recs, nil
}
