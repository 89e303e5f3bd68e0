package operation

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// transitions estados destino permitidos desde cada estado.
// Done solo se alcanza vía validación (ver CanValidate); Done y Cancel son terminales.
var transitions = map[entity.OperationStatus][]entity.OperationStatus{
	entity.StatusDraft:   {entity.StatusWaiting, entity.StatusReady, entity.StatusDone, entity.StatusCancel},
	entity.StatusWaiting: {entity.StatusReady, entity.StatusDone, entity.StatusCancel},
	entity.StatusReady:   {entity.StatusWaiting, entity.StatusDone, entity.StatusCancel},
	entity.StatusDone:    nil,
	entity.StatusCancel:  nil,
}

// CanTransition indica si from → to es una transición válida.
func CanTransition(from, to entity.OperationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition cambia el estado sin efectos sobre stock. Rechaza Done: ese paso es exclusivo de la validación.
func Transition(op *entity.Operation, to entity.OperationStatus) error {
	if to == entity.StatusDone {
		return fmt.Errorf("%w: el paso a DONE se hace validando la operación", domain.ErrConflict)
	}
	if !CanTransition(op.Status, to) {
		return fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, op.Status, to)
	}
	op.Status = to
	return nil
}

// Editable indica si cabecera y renglones aún se pueden modificar.
func Editable(op *entity.Operation) bool {
	return op.Status == entity.StatusDraft
}
