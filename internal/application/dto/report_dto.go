package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodDTO rango de fechas del reporte (presentación).
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ── Reporte de salud de inventario ────────────────────────────────────────────

// InventoryCategory agrupación por categoría del catálogo.
type InventoryCategory struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
	Items []string        `json:"items"`
}

// InventoryWarning advertencia sobre un producto. Los campos opcionales
// dependen del tipo (low_stock, expiry, loss).
type InventoryWarning struct {
	Type          string           `json:"type"`
	Product       string           `json:"product"`
	Urgency       string           `json:"urgency,omitempty"`
	Message       string           `json:"message"`
	Current       *decimal.Decimal `json:"current,omitempty"`
	Minimum       *decimal.Decimal `json:"minimum,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	DaysLeft      *int             `json:"days_left,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	LossPerUnit   *decimal.Decimal `json:"loss_per_unit,omitempty"`
}

// Suggestion sugerencia generada por un analizador.
type Suggestion struct {
	Type     string   `json:"type,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Title    string   `json:"title"`
	Message  string   `json:"message,omitempty"`
	Items    []string `json:"items,omitempty"`
	Actions  []string `json:"actions,omitempty"`
}

// InventoryReport resultado de analizar el inventario activo. Sin efectos
// secundarios: derivado por completo del snapshot actual.
type InventoryReport struct {
	TotalProducts   int                          `json:"total_products"`
	TotalInvestment decimal.Decimal              `json:"total_investment"`
	Categories      map[string]InventoryCategory `json:"categories"`
	Warnings        []InventoryWarning           `json:"warnings"`
	Suggestions     []Suggestion                 `json:"suggestions"`
}

// ── Reporte de rentabilidad ───────────────────────────────────────────────────

// CategoryProfit desglose de rentabilidad por categoría.
type CategoryProfit struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// ProductProfit ganancia acumulada de un producto en el período.
type ProductProfit struct {
	Product  string          `json:"product"`
	Profit   decimal.Decimal `json:"profit"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ProfitReport resultado del análisis de rentabilidad de un período.
type ProfitReport struct {
	TotalRevenue     decimal.Decimal           `json:"total_revenue"`
	TotalCost        decimal.Decimal           `json:"total_cost"`
	TotalProfit      decimal.Decimal           `json:"total_profit"`
	ProfitMargin     decimal.Decimal           `json:"profit_margin"` // % redondeado a 2 decimales
	ByCategory       map[string]CategoryProfit `json:"by_category"`
	TopPerforming    []ProductProfit           `json:"top_performing"`
	BottomPerforming []ProductProfit           `json:"bottom_performing"`
	Suggestions      []Suggestion              `json:"suggestions"`
	Period           PeriodDTO                 `json:"period"`
}

// ── Reporte de ventas agrupado ────────────────────────────────────────────────

// SalesReportRequest filtros del reporte de ventas.
type SalesReportRequest struct {
	StartDate     string           `query:"start_date"`
	EndDate       string           `query:"end_date"`
	GroupBy       string           `query:"group_by"` // day | week | month | category | product
	PaymentMethod string           `query:"payment_method"`
	MinAmount     *decimal.Decimal `query:"min_amount"`
	MaxAmount     *decimal.Decimal `query:"max_amount"`
}

// DayItem línea vendida dentro de un día.
type DayItem struct {
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
}

// DayBucket agregado de un día calendario.
type DayBucket struct {
	Date         string          `json:"date"`
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	Items        []DayItem       `json:"items"`
}

// PeriodBucket agregado de una semana ISO o un mes.
type PeriodBucket struct {
	Period       string          `json:"period"` // 2025-W31 o 2025-07
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// CategoryProductEntry producto dentro de una categoría del reporte.
type CategoryProductEntry struct {
	Name          string          `json:"name"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// CategoryBucket agregado por categoría: aplana todas las líneas de las
// ventas coincidentes en un acumulado por categoría.
type CategoryBucket struct {
	Category      string                 `json:"category"`
	TotalRevenue  decimal.Decimal        `json:"total_revenue"`
	TotalProfit   decimal.Decimal        `json:"total_profit"`
	TotalQuantity decimal.Decimal        `json:"total_quantity"`
	ProductCount  int                    `json:"product_count"`
	Products      []CategoryProductEntry `json:"products"`
}

// ProductDay sub-serie diaria de un producto.
type ProductDay struct {
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductBucket agregado por producto con sub-serie diaria y margen promedio.
type ProductBucket struct {
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalProfit         decimal.Decimal `json:"total_profit"`
	TotalQuantity       decimal.Decimal `json:"total_quantity"`
	SaleCount           int             `json:"sale_count"`
	AverageProfitMargin decimal.Decimal `json:"average_profit_margin"` // % 2 decimales
	Days                []ProductDay    `json:"days"`
}

// BestDay el día de la semana con mayor ingreso del período.
type BestDay struct {
	Day        string          `json:"day"` // nombre árabe del día
	Revenue    decimal.Decimal `json:"revenue"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PaymentMethodStat desglose por método de pago.
type PaymentMethodStat struct {
	Method     string          `json:"method"` // traducido al árabe
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// SalesStatistics estadísticas generales del período.
type SalesStatistics struct {
	TotalSales     int               `json:"total_sales"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	TotalProfit    decimal.Decimal   `json:"total_profit"`
	AverageSale    decimal.Decimal   `json:"average_sale"`
	BestDay        BestDay           `json:"best_day"`
	PaymentMethods []PaymentMethodStat `json:"payment_methods"`
}

// SalesPeriod período y dimensión del reporte.
type SalesPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	GroupBy   string `json:"group_by"`
}

// SalesReportResponse reporte agrupado más estadísticas. Data contiene los
// buckets de la dimensión elegida ([]DayBucket, []PeriodBucket,
// []CategoryBucket o []ProductBucket).
type SalesReportResponse struct {
	Data       any             `json:"data"`
	Statistics SalesStatistics `json:"statistics"`
	Period     SalesPeriod     `json:"period"`
}
