package events

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
)

var _ inventory.EventPublisher = (Multi)(nil)

// Multi reparte el evento a todos los publicadores. Un fallo no detiene a los demás; los errores se juntan.
type Multi []inventory.EventPublisher

// PublishOperationValidated entrega el evento a cada publicador en orden.
func (m Multi) PublishOperationValidated(ctx context.Context, evt event.OperationValidated) error {
	var err error
	for _, p := range m {
		if p == nil {
			continue
		}
		err = errors.Join(err, p.PublishOperationValidated(ctx, evt))
	}
	return err
}
