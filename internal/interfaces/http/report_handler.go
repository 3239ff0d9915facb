package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartstore/backend/internal/application/analytics"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/application/sales"
	"github.com/smartstore/backend/internal/infrastructure/cache"
)

// ReportHandler expone los reportes de inventario, rentabilidad y ventas
// (protegido). Los reportes se cachean unos minutos cuando hay Redis
// configurado: los analizadores toleran lecturas ligeramente desactualizadas.
type ReportHandler struct {
	inventory *analytics.InventoryAnalyzer
	profit    *analytics.ProfitAnalyzer
	salesUC   *sales.SalesReportUseCase
	cache     *cache.ReportCache // nil = sin caché
}

// NewReportHandler construye el handler.
func NewReportHandler(inventory *analytics.InventoryAnalyzer, profit *analytics.ProfitAnalyzer, salesUC *sales.SalesReportUseCase, reportCache *cache.ReportCache) *ReportHandler {
	return &ReportHandler{inventory: inventory, profit: profit, salesUC: salesUC, cache: reportCache}
}

// InventoryReport godoc
// @Summary      Reporte de salud del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReport
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) InventoryReport(c *fiber.Ctx) error {
	const key = "report:inventory"
	var cached dto.InventoryReport
	if h.cache.Get(c.Context(), key, &cached) {
		return c.JSON(cached)
	}
	out, err := h.inventory.Analyze(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Set(c.Context(), key, out)
	return c.JSON(out)
}

// ProfitReport godoc
// @Summary      Reporte de rentabilidad
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD (por defecto hace 30 días)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.ProfitReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit [get]
func (h *ReportHandler) ProfitReport(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	key := fmt.Sprintf("report:profit:%s:%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	var cached dto.ProfitReport
	if h.cache.Get(c.Context(), key, &cached) {
		return c.JSON(cached)
	}
	out, err := h.profit.Analyze(c.Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Set(c.Context(), key, out)
	return c.JSON(out)
}

// SalesReport godoc
// @Summary      Reporte de ventas agrupado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date      query  string  false  "YYYY-MM-DD"
// @Param        end_date        query  string  false  "YYYY-MM-DD"
// @Param        group_by        query  string  false  "day | week | month | category | product"  default(day)
// @Param        payment_method  query  string  false  "cash | card | bank_transfer | credit"
// @Param        min_amount      query  number  false  "Monto final mínimo"
// @Param        max_amount      query  number  false  "Monto final máximo"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesReport(c *fiber.Ctx) error {
	var in dto.SalesReportRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.salesUC.Report(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseDateRange interpreta start/end en formato YYYY-MM-DD; por defecto los
// últimos 30 días. El fin se extiende al final del día.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now()
	end := now
	if endDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", endDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido: %q", endDate)
		}
		end = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, now.Location())
	}
	start := end.AddDate(0, 0, -30)
	if startDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", startDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido: %q", startDate)
		}
		start = parsed
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("el rango termina antes de empezar")
	}
	return start, end, nil
}
