package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain"
	"github.com/smartstore/backend/internal/domain/repository"
)

// Dimensiones de agrupación soportadas por el reporte de ventas.
const (
	GroupByDay      = "day"
	GroupByWeek     = "week"
	GroupByMonth    = "month"
	GroupByCategory = "category"
	GroupByProduct  = "product"
)

// arabicWeekdays nombres de los días de la semana, indexados por time.Weekday.
var arabicWeekdays = [7]string{
	"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت",
}

// arabicPaymentMethods traducción de los métodos de pago para presentación.
var arabicPaymentMethods = map[string]string{
	"cash":          "نقداً",
	"card":          "بطاقة",
	"bank_transfer": "تحويل بنكي",
	"credit":        "آجل",
}

var oneHundred = decimal.NewFromInt(100)

// SalesReportUseCase construye el reporte de ventas agrupado por la dimensión
// pedida, junto con las estadísticas del período. Solo lectura.
type SalesReportUseCase struct {
	analytics repository.AnalyticsRepository
}

// NewSalesReportUseCase construye el caso de uso.
func NewSalesReportUseCase(analytics repository.AnalyticsRepository) *SalesReportUseCase {
	return &SalesReportUseCase{analytics: analytics}
}

// Report genera el reporte. Sin fechas, el período por defecto son los últimos
// 30 días hasta hoy; sin group_by, se agrupa por día.
func (uc *SalesReportUseCase) Report(ctx context.Context, in dto.SalesReportRequest) (*dto.SalesReportResponse, error) {
	start, end, err := resolvePeriod(in.StartDate, in.EndDate, time.Now())
	if err != nil {
		return nil, err
	}
	groupBy := in.GroupBy
	if groupBy == "" {
		groupBy = GroupByDay
	}
	switch groupBy {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByCategory, GroupByProduct:
	default:
		return nil, fmt.Errorf("%w: group_by %q", domain.ErrInvalidInput, groupBy)
	}

	lines, err := uc.analytics.ListSaleLines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	lines = filterLines(lines, in)

	var data any
	switch groupBy {
	case GroupByDay:
		data = groupByDay(lines)
	case GroupByWeek:
		data = groupByPeriod(lines, weekKey)
	case GroupByMonth:
		data = groupByPeriod(lines, monthKey)
	case GroupByCategory:
		data = groupByCategory(lines)
	case GroupByProduct:
		data = groupByProduct(lines)
	}

	return &dto.SalesReportResponse{
		Data:       data,
		Statistics: buildStatistics(lines),
		Period: dto.SalesPeriod{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
			GroupBy:   groupBy,
		},
	}, nil
}

// resolvePeriod interpreta el rango pedido; por defecto los últimos 30 días.
// El fin se extiende al final del día para cubrirlo completo.
func resolvePeriod(startDate, endDate string, now time.Time) (time.Time, time.Time, error) {
	end := now
	if endDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", endDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date %q", domain.ErrInvalidInput, endDate)
		}
		end = parsed
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())

	start := end.AddDate(0, 0, -30)
	if startDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", startDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date %q", domain.ErrInvalidInput, startDate)
		}
		start = parsed
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: el rango termina antes de empezar", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// filterLines aplica los filtros de método de pago y monto final de la venta.
func filterLines(lines []repository.SaleLine, in dto.SalesReportRequest) []repository.SaleLine {
	if in.PaymentMethod == "" && in.MinAmount == nil && in.MaxAmount == nil {
		return lines
	}
	out := lines[:0:0]
	for _, l := range lines {
		if in.PaymentMethod != "" && l.PaymentMethod != in.PaymentMethod {
			continue
		}
		if in.MinAmount != nil && l.FinalAmount.LessThan(*in.MinAmount) {
			continue
		}
		if in.MaxAmount != nil && l.FinalAmount.GreaterThan(*in.MaxAmount) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func dayKey(t time.Time) string   { return t.Format("2006-01-02") }
func monthKey(t time.Time) string { return t.Format("2006-01") }

// weekKey clave de semana ISO, p. ej. 2025-W31.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// groupByDay agrupa las líneas por día calendario, con el detalle de productos
// vendidos dentro de cada día.
func groupByDay(lines []repository.SaleLine) []dto.DayBucket {
	type dayAcc struct {
		bucket dto.DayBucket
		sales  map[int64]struct{}
		items  map[string]*dto.DayItem
		order  []string
	}
	byDay := map[string]*dayAcc{}
	var keys []string
	for _, l := range lines {
		key := dayKey(l.SaleDate)
		acc, ok := byDay[key]
		if !ok {
			acc = &dayAcc{
				bucket: dto.DayBucket{Date: key},
				sales:  map[int64]struct{}{},
				items:  map[string]*dto.DayItem{},
			}
			byDay[key] = acc
			keys = append(keys, key)
		}
		acc.bucket.TotalRevenue = acc.bucket.TotalRevenue.Add(l.TotalPrice)
		acc.bucket.TotalProfit = acc.bucket.TotalProfit.Add(l.Profit)
		acc.sales[l.SaleID] = struct{}{}

		item, ok := acc.items[l.ProductName]
		if !ok {
			item = &dto.DayItem{Product: l.ProductName}
			acc.items[l.ProductName] = item
			acc.order = append(acc.order, l.ProductName)
		}
		item.Quantity = item.Quantity.Add(l.Quantity)
		item.Revenue = item.Revenue.Add(l.TotalPrice)
		item.Profit = item.Profit.Add(l.Profit)
	}
	sort.Strings(keys)

	out := make([]dto.DayBucket, 0, len(keys))
	for _, key := range keys {
		acc := byDay[key]
		acc.bucket.TotalSales = len(acc.sales)
		for _, name := range acc.order {
			acc.bucket.Items = append(acc.bucket.Items, *acc.items[name])
		}
		out = append(out, acc.bucket)
	}
	return out
}

// groupByPeriod agrupa por una clave temporal (semana ISO o mes).
func groupByPeriod(lines []repository.SaleLine, keyOf func(time.Time) string) []dto.PeriodBucket {
	type periodAcc struct {
		bucket dto.PeriodBucket
		sales  map[int64]struct{}
	}
	byPeriod := map[string]*periodAcc{}
	var keys []string
	for _, l := range lines {
		key := keyOf(l.SaleDate)
		acc, ok := byPeriod[key]
		if !ok {
			acc = &periodAcc{bucket: dto.PeriodBucket{Period: key}, sales: map[int64]struct{}{}}
			byPeriod[key] = acc
			keys = append(keys, key)
		}
		acc.bucket.TotalRevenue = acc.bucket.TotalRevenue.Add(l.TotalPrice)
		acc.bucket.TotalProfit = acc.bucket.TotalProfit.Add(l.Profit)
		acc.sales[l.SaleID] = struct{}{}
	}
	sort.Strings(keys)

	out := make([]dto.PeriodBucket, 0, len(keys))
	for _, key := range keys {
		acc := byPeriod[key]
		acc.bucket.TotalSales = len(acc.sales)
		out = append(out, acc.bucket)
	}
	return out
}

// groupByCategory aplana todas las líneas en acumulados por categoría, con el
// detalle por producto dentro de cada una.
func groupByCategory(lines []repository.SaleLine) []dto.CategoryBucket {
	type catAcc struct {
		bucket   dto.CategoryBucket
		products map[string]*dto.CategoryProductEntry
		order    []string
	}
	byCat := map[string]*catAcc{}
	var keys []string
	for _, l := range lines {
		acc, ok := byCat[l.Category]
		if !ok {
			acc = &catAcc{
				bucket:   dto.CategoryBucket{Category: l.Category},
				products: map[string]*dto.CategoryProductEntry{},
			}
			byCat[l.Category] = acc
			keys = append(keys, l.Category)
		}
		acc.bucket.TotalRevenue = acc.bucket.TotalRevenue.Add(l.TotalPrice)
		acc.bucket.TotalProfit = acc.bucket.TotalProfit.Add(l.Profit)
		acc.bucket.TotalQuantity = acc.bucket.TotalQuantity.Add(l.Quantity)

		entry, ok := acc.products[l.ProductName]
		if !ok {
			entry = &dto.CategoryProductEntry{Name: l.ProductName}
			acc.products[l.ProductName] = entry
			acc.order = append(acc.order, l.ProductName)
		}
		entry.TotalRevenue = entry.TotalRevenue.Add(l.TotalPrice)
		entry.TotalQuantity = entry.TotalQuantity.Add(l.Quantity)
	}
	sort.Strings(keys)

	out := make([]dto.CategoryBucket, 0, len(keys))
	for _, key := range keys {
		acc := byCat[key]
		acc.bucket.ProductCount = len(acc.products)
		for _, name := range acc.order {
			acc.bucket.Products = append(acc.bucket.Products, *acc.products[name])
		}
		out = append(out, acc.bucket)
	}
	return out
}

// groupByProduct agrupa por producto con su sub-serie diaria y margen promedio.
func groupByProduct(lines []repository.SaleLine) []dto.ProductBucket {
	type prodAcc struct {
		bucket  dto.ProductBucket
		days    map[string]*dto.ProductDay
		dayKeys []string
	}
	byProd := map[string]*prodAcc{}
	var keys []string
	for _, l := range lines {
		acc, ok := byProd[l.ProductName]
		if !ok {
			acc = &prodAcc{
				bucket: dto.ProductBucket{Name: l.ProductName, Category: l.Category},
				days:   map[string]*dto.ProductDay{},
			}
			byProd[l.ProductName] = acc
			keys = append(keys, l.ProductName)
		}
		acc.bucket.TotalRevenue = acc.bucket.TotalRevenue.Add(l.TotalPrice)
		acc.bucket.TotalProfit = acc.bucket.TotalProfit.Add(l.Profit)
		acc.bucket.TotalQuantity = acc.bucket.TotalQuantity.Add(l.Quantity)
		acc.bucket.SaleCount++

		key := dayKey(l.SaleDate)
		day, ok := acc.days[key]
		if !ok {
			day = &dto.ProductDay{Date: key}
			acc.days[key] = day
			acc.dayKeys = append(acc.dayKeys, key)
		}
		day.Quantity = day.Quantity.Add(l.Quantity)
		day.Revenue = day.Revenue.Add(l.TotalPrice)
	}
	sort.Strings(keys)

	out := make([]dto.ProductBucket, 0, len(keys))
	for _, key := range keys {
		acc := byProd[key]
		// Margen promedio sobre costo: ganancia / (ingreso - ganancia).
		cost := acc.bucket.TotalRevenue.Sub(acc.bucket.TotalProfit)
		if cost.IsPositive() {
			acc.bucket.AverageProfitMargin = acc.bucket.TotalProfit.Div(cost).Mul(oneHundred).Round(2)
		}
		sort.Strings(acc.dayKeys)
		for _, dk := range acc.dayKeys {
			acc.bucket.Days = append(acc.bucket.Days, *acc.days[dk])
		}
		out = append(out, acc.bucket)
	}
	return out
}

// buildStatistics calcula los totales del período, el mejor día de la semana
// por ingreso y el desglose por método de pago. Ingreso y conteo de ventas se
// miden a nivel de venta (no de línea) deduplicando por id.
func buildStatistics(lines []repository.SaleLine) dto.SalesStatistics {
	stats := dto.SalesStatistics{PaymentMethods: []dto.PaymentMethodStat{}}

	type saleInfo struct {
		amount  decimal.Decimal
		method  string
		weekday time.Weekday
	}
	sales := map[int64]saleInfo{}
	var saleOrder []int64
	for _, l := range lines {
		stats.TotalProfit = stats.TotalProfit.Add(l.Profit)
		if _, seen := sales[l.SaleID]; !seen {
			sales[l.SaleID] = saleInfo{amount: l.FinalAmount, method: l.PaymentMethod, weekday: l.SaleDate.Weekday()}
			saleOrder = append(saleOrder, l.SaleID)
		}
	}

	var byWeekday [7]decimal.Decimal
	type methodAcc struct {
		amount decimal.Decimal
		count  int
	}
	byMethod := map[string]*methodAcc{}
	var methodOrder []string
	for _, id := range saleOrder {
		s := sales[id]
		stats.TotalRevenue = stats.TotalRevenue.Add(s.amount)
		byWeekday[s.weekday] = byWeekday[s.weekday].Add(s.amount)

		acc, ok := byMethod[s.method]
		if !ok {
			acc = &methodAcc{}
			byMethod[s.method] = acc
			methodOrder = append(methodOrder, s.method)
		}
		acc.amount = acc.amount.Add(s.amount)
		acc.count++
	}

	stats.TotalSales = len(sales)
	if stats.TotalSales > 0 {
		stats.AverageSale = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalSales))).Round(2)
	}

	best := 0
	for i := 1; i < 7; i++ {
		if byWeekday[i].GreaterThan(byWeekday[best]) {
			best = i
		}
	}
	if stats.TotalRevenue.IsPositive() {
		stats.BestDay = dto.BestDay{
			Day:        arabicWeekdays[best],
			Revenue:    byWeekday[best],
			Percentage: byWeekday[best].Div(stats.TotalRevenue).Mul(oneHundred).Round(2),
		}
	}

	sort.Strings(methodOrder)
	for _, method := range methodOrder {
		acc := byMethod[method]
		stat := dto.PaymentMethodStat{
			Method: paymentMethodLabel(method),
			Amount: acc.amount,
			Count:  acc.count,
		}
		if stats.TotalRevenue.IsPositive() {
			stat.Percentage = acc.amount.Div(stats.TotalRevenue).Mul(oneHundred).Round(2)
		}
		stats.PaymentMethods = append(stats.PaymentMethods, stat)
	}
	return stats
}

func paymentMethodLabel(method string) string {
	if label, ok := arabicPaymentMethods[method]; ok {
		return label
	}
	return method
}
