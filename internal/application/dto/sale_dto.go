package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea solicitada de una venta. UnitPrice nulo o cero usa el
// precio de venta vigente del producto.
type SaleItemRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest petición para crear una venta.
type CreateSaleRequest struct {
	Items          []SaleItemRequest `json:"items"`
	CustomerName   string            `json:"customer_name,omitempty"`
	CustomerPhone  string            `json:"customer_phone,omitempty"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	PaymentMethod  string            `json:"payment_method"`
	Notes          string            `json:"notes,omitempty"`
}

// SaleItemResponse línea persistida de la venta.
type SaleItemResponse struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Profit        decimal.Decimal `json:"profit"`
}

// SaleSummary resumen agregado de la venta creada.
type SaleSummary struct {
	TotalItems    int             `json:"total_items"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

// SaleResponse venta persistida con sus líneas y resumen.
type SaleResponse struct {
	ID             int64              `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	FinalAmount    decimal.Decimal    `json:"final_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	SaleDate       time.Time          `json:"sale_date"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	Summary        SaleSummary        `json:"summary"`
}

// UpdatePaymentStatusRequest transición de estado de pago.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status"` // paid | pending | partial | cancelled
}

// SalesListRequest filtros del listado de ventas. Sin fechas se listan los
// últimos 30 días.
type SalesListRequest struct {
	StartDate     string           `query:"start_date"`
	EndDate       string           `query:"end_date"`
	PaymentMethod string           `query:"payment_method"`
	MinAmount     *decimal.Decimal `query:"min_amount"`
	MaxAmount     *decimal.Decimal `query:"max_amount"`
}
