package analytics

import "github.com/shopspring/decimal"

// Rules umbrales de los analizadores. Se cargan desde configuración; los
// valores por defecto replican los del motor de análisis original.
type Rules struct {
	// MinProfitMargin margen mínimo aceptable en porcentaje.
	MinProfitMargin decimal.Decimal
	// MaxStockDays días de inventario estimados antes de considerar un
	// producto de movimiento lento.
	MaxStockDays int
	// WarningDays días antes del vencimiento para emitir advertencia.
	WarningDays int
	// CriticalDays días antes del vencimiento para escalar la urgencia.
	CriticalDays int
	// LowStockRatio umbral de quantity/min_quantity bajo el cual se advierte.
	LowStockRatio decimal.Decimal
}

// DefaultRules devuelve los umbrales por defecto.
func DefaultRules() Rules {
	return Rules{
		MinProfitMargin: decimal.NewFromInt(15),
		MaxStockDays:    30,
		WarningDays:     7,
		CriticalDays:    3,
		LowStockRatio:   decimal.NewFromFloat(0.2),
	}
}
