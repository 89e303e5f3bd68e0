package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/operation"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Validate pasa la operación a DONE aplicando sus movimientos de stock en una sola transacción:
//  1. bloquea la operación (SELECT FOR UPDATE) y carga sus renglones;
//  2. verifica estado y ubicaciones (una operación ya en DONE devuelve un aviso, no un error);
//  3. bloquea los niveles de stock tocados en orden (producto, ubicación);
//  4. verifica disponibilidad en origen para entregas y traslados;
//  5. aplica cada delta con su registro en el libro y actualiza el costo promedio en recepciones;
//  6. marca DONE.
//
// Tras el Commit publica operation.validated; un fallo al publicar solo se registra.
func (uc *OperationUseCase) Validate(ctx context.Context, id string) (*dto.ValidateOperationResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "operation.validate", trace.WithAttributes(attribute.String("operation.id", id)))
	defer span.End()

	var (
		op      *entity.Operation
		lines   []*entity.OperationLine
		changes []dto.StockChangeDTO
		warning string
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		changes, warning = nil, ""

		var err error
		op, err = repos.Operations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		lines, err = repos.Operations.ListLines(ctx, op.ID)
		if err != nil {
			return err
		}

		if err := operation.CheckHeader(op, lines); err != nil {
			if re, ok := domain.RejectionOf(err); ok && re.Reason == domain.ReasonAlreadyDone {
				warning = re.Message
				return nil
			}
			return err
		}

		movements, err := operation.Movements(op, lines)
		if err != nil {
			return err
		}

		// Bloqueo en orden determinista para evitar deadlocks entre validaciones concurrentes.
		locked := make(map[operation.LockKey]decimal.Decimal)
		for _, key := range operation.LockOrder(movements) {
			level, err := repos.Stock.GetForUpdate(ctx, key.ProductID, key.LocationID)
			if err != nil {
				return err
			}
			locked[key] = level.Quantity
		}
		available := func(productID, locationID string) decimal.Decimal {
			return locked[operation.LockKey{ProductID: productID, LocationID: locationID}]
		}
		if err := operation.CheckAvailability(op, lines, available); err != nil {
			return err
		}

		policy := operation.MustPolicy(op.Type)
		ledger := NewStockLedger(repos.Stock, repos.Ledger, uc.log, uc.now)
		for _, m := range movements {
			if policy.AcceptsUnitCost && m.Line.UnitCost != nil {
				if err := updateAverageCost(ctx, repos, m.ProductID, m.Delta, *m.Line.UnitCost); err != nil {
					return err
				}
			}
			entry, clamped, err := ledger.ApplyDelta(ctx, Delta{
				OperationID:           op.ID,
				LineID:                m.Line.ID,
				ProductID:             m.ProductID,
				LocationID:            m.LocationID,
				SourceLocationID:      m.SourceLocationID,
				DestinationLocationID: m.DestinationLocationID,
				Change:                m.Delta,
				FloorAtZero:           m.FloorAtZero,
			})
			if err != nil {
				return err
			}
			changes = append(changes, dto.StockChangeDTO{
				ProductID:      entry.ProductID,
				LocationID:     entry.LocationID,
				QuantityChange: entry.QuantityChange,
				QuantityAfter:  entry.QuantityAfter,
				Clamped:        clamped,
			})
		}

		now := uc.now()
		op.Status = entity.StatusDone
		op.ValidatedAt = &now
		op.UpdatedAt = now
		return repos.Operations.Update(ctx, op)
	})
	if err != nil {
		return nil, endSpan(span, err)
	}

	resp := &dto.ValidateOperationResponse{
		Operation: *toOperationResponse(op, lines),
		Changes:   changes,
		Warning:   warning,
	}
	if resp.Changes == nil {
		resp.Changes = []dto.StockChangeDTO{}
	}
	if warning != "" {
		span.SetAttributes(attribute.Bool("operation.already_done", true))
		uc.log.Ctx(ctx).Warn().Str("reference", op.Reference).Msg(warning)
		return resp, nil
	}

	span.SetAttributes(
		attribute.String("operation.reference", op.Reference),
		attribute.Int("operation.movements", len(changes)),
	)
	uc.log.Ctx(ctx).Info().
		Str("operation_id", op.ID).
		Str("reference", op.Reference).
		Str("type", string(op.Type)).
		Int("movements", len(changes)).
		Msg("operación validada")
	uc.publish(ctx, op, changes)
	return resp, nil
}

// updateAverageCost recalcula el costo promedio ponderado del producto con el stock total antes de la entrada.
func updateAverageCost(ctx context.Context, repos repository.TxRepos, productID string, received, unitCost decimal.Decimal) error {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	levels, err := repos.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	onHand := decimal.Zero
	for _, l := range levels {
		onHand = onHand.Add(l.Quantity)
	}
	cost := inventory.WeightedAverageCost(onHand, product.Cost, received, unitCost)
	return repos.Products.UpdateCost(ctx, productID, cost)
}

func (uc *OperationUseCase) publish(ctx context.Context, op *entity.Operation, changes []dto.StockChangeDTO) {
	if uc.publisher == nil {
		return
	}
	evt := event.OperationValidated{
		Event:       event.TypeOperationValidated,
		OperationID: op.ID,
		Reference:   op.Reference,
		Type:        string(op.Type),
		Movements:   make([]event.StockMovement, 0, len(changes)),
	}
	if op.ValidatedAt != nil {
		evt.ValidatedAt = *op.ValidatedAt
	}
	for _, c := range changes {
		evt.Movements = append(evt.Movements, event.StockMovement{
			ProductID:      c.ProductID,
			LocationID:     c.LocationID,
			QuantityChange: c.QuantityChange,
			QuantityAfter:  c.QuantityAfter,
		})
	}
	if err := uc.publisher.PublishOperationValidated(ctx, evt); err != nil {
		uc.log.Ctx(ctx).Error().Err(err).Str("reference", op.Reference).Msg("no se pudo publicar operation.validated")
	}
}
