package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/smartstore/backend/internal/domain"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, customer_name, customer_phone, total_amount,
	discount_amount, tax_amount, final_amount, payment_method, payment_status,
	sale_date, notes, created_by, created_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta y asigna sale.ID. Un número de
// factura duplicado (asignación concurrente del mismo consecutivo) se traduce
// a ErrSequencingConflict para que el procesador reintente.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (invoice_number, customer_name, customer_phone, total_amount,
			discount_amount, tax_amount, final_amount, payment_method, payment_status,
			sale_date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		sale.InvoiceNumber, sale.CustomerName, sale.CustomerPhone, sale.TotalAmount,
		sale.DiscountAmount, sale.TaxAmount, sale.FinalAmount, sale.PaymentMethod,
		sale.PaymentStatus, sale.SaleDate, sale.Notes, sale.CreatedBy, sale.CreatedAt,
	).Scan(&sale.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrSequencingConflict, sale.InvoiceNumber)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta y asigna item.ID.
func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price,
			purchase_price, profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice,
		item.TotalPrice, item.PurchasePrice, item.Profit,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID. Devuelve nil sin error si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.InvoiceNumber, &s.CustomerName, &s.CustomerPhone, &s.TotalAmount,
		&s.DiscountAmount, &s.TaxAmount, &s.FinalAmount, &s.PaymentMethod,
		&s.PaymentStatus, &s.SaleDate, &s.Notes, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItems devuelve las líneas de una venta con nombre y categoría del producto.
func (r *SaleRepo) GetItems(ctx context.Context, saleID int64) ([]repository.SaleItemWithProduct, error) {
	query := `
		SELECT i.id, i.sale_id, i.product_id, i.quantity, i.unit_price, i.total_price,
			i.purchase_price, i.profit, p.name, p.category
		FROM sale_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()

	var items []repository.SaleItemWithProduct
	for rows.Next() {
		var it repository.SaleItemWithProduct
		if err := rows.Scan(
			&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.TotalPrice, &it.PurchasePrice, &it.Profit, &it.ProductName, &it.Category,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LastInvoiceNumberOfDay devuelve el número de factura más reciente del día
// (YYYYMMDD), o cadena vacía si aún no hay ventas ese día. Dentro de la
// transacción de venta, el índice único sobre invoice_number ataja las
// carreras que esta lectura no ve.
func (r *SaleRepo) LastInvoiceNumberOfDay(ctx context.Context, day string) (string, error) {
	query := `
		SELECT invoice_number FROM sales
		WHERE invoice_number LIKE 'INV-' || $1 || '-%'
		ORDER BY invoice_number DESC
		LIMIT 1`
	var number string
	err := r.q.QueryRow(ctx, query, day).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

// ListWithItems lista ventas filtradas con sus líneas, ordenadas por fecha descendente.
func (r *SaleRepo) ListWithItems(ctx context.Context, filter repository.SalesFilter) ([]*repository.SaleWithItems, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_date >= $1 AND sale_date <= $2`
	args := []any{filter.Start, filter.End}
	pos := 3
	if filter.PaymentMethod != "" {
		query += fmt.Sprintf(" AND payment_method = $%d", pos)
		args = append(args, filter.PaymentMethod)
		pos++
	}
	if filter.MinAmount != nil {
		query += fmt.Sprintf(" AND final_amount >= $%d", pos)
		args = append(args, *filter.MinAmount)
		pos++
	}
	if filter.MaxAmount != nil {
		query += fmt.Sprintf(" AND final_amount <= $%d", pos)
		args = append(args, *filter.MaxAmount)
		pos++
	}
	query += " ORDER BY sale_date DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*repository.SaleWithItems
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.InvoiceNumber, &s.CustomerName, &s.CustomerPhone, &s.TotalAmount,
			&s.DiscountAmount, &s.TaxAmount, &s.FinalAmount, &s.PaymentMethod,
			&s.PaymentStatus, &s.SaleDate, &s.Notes, &s.CreatedBy, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &repository.SaleWithItems{Sale: s})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sw := range list {
		items, err := r.GetItems(ctx, sw.Sale.ID)
		if err != nil {
			return nil, err
		}
		sw.Items = items
	}
	return list, nil
}

// UpdatePaymentStatus aplica la transición de estado ya validada por el caso de uso.
func (r *SaleRepo) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET payment_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
