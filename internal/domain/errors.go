package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("transición no permitida en el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInactiveProduct    = errors.New("producto inactivo")
	ErrUnavailable        = errors.New("bodega no disponible")
	ErrNoApprover         = errors.New("la bodega no tiene propietario que apruebe la solicitud")
)

// InsufficientStockError detalla el stock actual frente a la cantidad pedida.
// errors.Is(err, ErrInsufficientStock) sigue funcionando gracias a Unwrap.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Current     int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: actual %d, solicitado %d", e.Current, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
