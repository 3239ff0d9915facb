package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/smartstore/backend/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para los analizadores. Opera sobre
// el pool directamente: los reportes nunca bloquean a los escritores y toleran
// lecturas ligeramente desactualizadas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de lectura.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// ListSaleLines devuelve las líneas de venta del rango con los datos de la
// venta y del producto aplanados, excluyendo ventas canceladas.
func (r *AnalyticsRepo) ListSaleLines(ctx context.Context, start, end time.Time) ([]repository.SaleLine, error) {
	query := `
		SELECT s.id, s.sale_date, s.payment_method, s.final_amount,
			i.product_id, p.name, p.category,
			i.quantity, i.unit_price, i.total_price, i.purchase_price, i.profit
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.sale_date >= $1 AND s.sale_date <= $2
		  AND s.payment_status <> 'cancelled'
		ORDER BY s.sale_date, s.id, i.id`
	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	var lines []repository.SaleLine
	for rows.Next() {
		var l repository.SaleLine
		if err := rows.Scan(
			&l.SaleID, &l.SaleDate, &l.PaymentMethod, &l.FinalAmount,
			&l.ProductID, &l.ProductName, &l.Category,
			&l.Quantity, &l.UnitPrice, &l.TotalPrice, &l.PurchasePrice, &l.Profit,
		); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
