package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrSequencingConflict  = errors.New("conflicto de numeración de factura")
	ErrInvalidStatusChange = errors.New("transición de estado de pago inválida")
	ErrNegativeStock       = errors.New("el ajuste dejaría el stock en negativo")
	ErrExpiryDateInPast    = errors.New("la fecha de vencimiento debe ser futura")
)
