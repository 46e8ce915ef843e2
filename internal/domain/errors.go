package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrStateTransitionRejected: se pidió send/pay pero ninguna guardia de la
	// tabla de transiciones aplica al estado actual. Es un resultado esperado
	// (ej. pagar una factura ya pagada), nunca un fallo fatal.
	ErrStateTransitionRejected = errors.New("transición de estado rechazada")

	// ErrDeletionRestricted: se intentó borrar una factura que aún tiene
	// líneas o pagos asociados. El borrado es restringido, no en cascada.
	ErrDeletionRestricted = errors.New("no se puede borrar: tiene líneas o pagos asociados")
)
