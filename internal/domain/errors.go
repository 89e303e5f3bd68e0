package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrValidationRejected = errors.New("validación rechazada")
)

// RejectionReason clasifica por qué una operación no puede pasar a Done.
type RejectionReason string

// Motivos de rechazo de la validación de operaciones.
const (
	ReasonAlreadyDone       RejectionReason = "already_done"
	ReasonCancelled         RejectionReason = "cancelled"
	ReasonNoLines           RejectionReason = "no_lines"
	ReasonMissingLocation   RejectionReason = "missing_location"
	ReasonSameLocation      RejectionReason = "same_location"
	ReasonInsufficientStock RejectionReason = "insufficient_stock"
	ReasonInvalidPartner    RejectionReason = "invalid_partner"
)

// RejectionError es un rechazo recuperable con mensaje legible para el usuario.
// errors.Is(err, ErrValidationRejected) es true para cualquier RejectionError.
type RejectionError struct {
	Reason  RejectionReason
	Message string
}

// Reject construye un RejectionError con mensaje formateado.
func Reject(reason RejectionReason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (e *RejectionError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrValidationRejected).
func (e *RejectionError) Is(target error) bool { return target == ErrValidationRejected }

// RejectionOf extrae el RejectionError de una cadena de errores, si existe.
func RejectionOf(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// InvalidInput envuelve ErrInvalidInput con un detalle.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
