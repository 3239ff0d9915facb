package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCredit       = "credit" // آجل
)

// Estados de pago de una venta.
const (
	PaymentStatusPaid      = "paid"
	PaymentStatusPending   = "pending"
	PaymentStatusPartial   = "partial"
	PaymentStatusCancelled = "cancelled"
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// ValidPaymentStatusTransition valida una transición de estado de pago.
// cancelled es terminal; el resto puede moverse entre sí.
func ValidPaymentStatusTransition(from, to string) bool {
	switch to {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial, PaymentStatusCancelled:
	default:
		return false
	}
	if from == PaymentStatusCancelled {
		return false
	}
	return from != to
}

// Sale representa una factura de venta. Se crea una sola vez, de forma atómica
// con sus líneas; después es inmutable salvo las transiciones de payment_status.
// Invariante: FinalAmount = TotalAmount - DiscountAmount + TaxAmount.
type Sale struct {
	ID             int64
	InvoiceNumber  string // INV-YYYYMMDD-NNNN, único
	CustomerName   string
	CustomerPhone  string
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	FinalAmount    decimal.Decimal
	PaymentMethod  string
	PaymentStatus  string
	SaleDate       time.Time
	Notes          string
	CreatedBy      int64
	CreatedAt      time.Time
}
