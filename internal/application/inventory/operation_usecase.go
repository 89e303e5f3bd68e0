package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/operation"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const tracerName = "github.com/jhoicas/stock-ledger/internal/application/inventory"

// OperationUseCase ciclo de vida de las operaciones de inventario: creación con referencia,
// edición en borrador, transiciones de estado y validación (paso a DONE con movimiento de stock).
type OperationUseCase struct {
	txRunner  TxRunner
	opRepo    repository.OperationRepository
	refs      *ReferenceGenerator
	publisher EventPublisher
	log       *logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewOperationUseCase construye el caso de uso. publisher puede ser nil.
func NewOperationUseCase(
	txRunner TxRunner,
	opRepo repository.OperationRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *OperationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("operations")
	return &OperationUseCase{
		txRunner:  txRunner,
		opRepo:    opRepo,
		refs:      NewReferenceGenerator(log),
		publisher: publisher,
		log:       log,
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock reemplaza el reloj (fecha de creación, año de la referencia, fecha de validación).
func (uc *OperationUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Create crea una operación en DRAFT y le asigna referencia dentro de la misma transacción.
// Ubicaciones faltantes o renglones vacíos se permiten aquí; los rechaza la validación.
func (uc *OperationUseCase) Create(ctx context.Context, userID string, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "operation.create")
	defer span.End()

	opType := entity.OperationType(in.Type)
	if !opType.Valid() {
		return nil, endSpan(span, domain.InvalidInput("tipo de operación desconocido %q", in.Type))
	}
	now := uc.now()
	op := &entity.Operation{
		ID:                    uuid.New().String(),
		Type:                  opType,
		Status:                entity.StatusDraft,
		PartnerID:             in.PartnerID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		ScheduledDate:         now,
		CreatedBy:             userID,
		Notes:                 in.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if in.ScheduledDate != nil {
		op.ScheduledDate = in.ScheduledDate.UTC()
	}
	if err := operation.NormalizeLocations(op); err != nil {
		return nil, endSpan(span, err)
	}
	lines, err := buildLines(op, in.Lines)
	if err != nil {
		return nil, endSpan(span, err)
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := checkReferences(ctx, repos, op, lines); err != nil {
			return err
		}
		code, err := warehouseCodeFor(ctx, repos.Locations, op)
		if err != nil {
			return err
		}
		ref, err := uc.refs.Next(ctx, repos, op.Type, code, now.Year())
		if err != nil {
			return err
		}
		op.Reference = ref
		return repos.Operations.Create(ctx, op, lines)
	})
	if err != nil {
		return nil, endSpan(span, err)
	}

	span.SetAttributes(
		attribute.String("operation.id", op.ID),
		attribute.String("operation.reference", op.Reference),
		attribute.String("operation.type", string(op.Type)),
		attribute.Int("operation.lines", len(lines)),
	)
	uc.log.Ctx(ctx).Info().Str("operation_id", op.ID).Str("reference", op.Reference).Msg("operación creada")
	return toOperationResponse(op, lines), nil
}

// Update modifica cabecera y/o renglones. Solo en DRAFT; la referencia no se regenera.
func (uc *OperationUseCase) Update(ctx context.Context, id string, in dto.UpdateOperationRequest) (*dto.OperationResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "operation.update", trace.WithAttributes(attribute.String("operation.id", id)))
	defer span.End()

	var (
		op    *entity.Operation
		lines []*entity.OperationLine
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		op, err = repos.Operations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !operation.Editable(op) {
			return fmt.Errorf("%w: la operación %s está en %s y solo se edita en DRAFT", domain.ErrConflict, op.Reference, op.Status)
		}
		if in.PartnerID != nil {
			op.PartnerID = in.PartnerID
		}
		applyLocations(op, in.SourceLocationID, in.DestinationLocationID)
		if in.ScheduledDate != nil {
			op.ScheduledDate = in.ScheduledDate.UTC()
		}
		if in.Notes != nil {
			op.Notes = *in.Notes
		}
		if err := operation.NormalizeLocations(op); err != nil {
			return err
		}

		replace := in.Lines != nil
		if replace {
			lines, err = buildLines(op, in.Lines)
		} else {
			lines, err = repos.Operations.ListLines(ctx, op.ID)
		}
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, repos, op, lines); err != nil {
			return err
		}
		if replace {
			if err := repos.Operations.ReplaceLines(ctx, op.ID, lines); err != nil {
				return err
			}
		}
		op.UpdatedAt = uc.now()
		return repos.Operations.Update(ctx, op)
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	return toOperationResponse(op, lines), nil
}

// applyLocations aplica las ubicaciones enviadas. En un ajuste hay una sola ubicación:
// la que venga en la petición reemplaza a ambas, con prioridad para el origen.
func applyLocations(op *entity.Operation, src, dst *string) {
	if op.Type == entity.OperationAdjust {
		loc := src
		if loc == nil {
			loc = dst
		}
		if loc != nil {
			op.SourceLocationID, op.DestinationLocationID = loc, loc
		}
		return
	}
	if src != nil {
		op.SourceLocationID = src
	}
	if dst != nil {
		op.DestinationLocationID = dst
	}
}

// MarkWaiting pasa la operación a WAITING (sin efecto sobre stock).
func (uc *OperationUseCase) MarkWaiting(ctx context.Context, id string) (*dto.OperationResponse, error) {
	return uc.transition(ctx, id, entity.StatusWaiting)
}

// MarkReady pasa la operación a READY (sin efecto sobre stock).
func (uc *OperationUseCase) MarkReady(ctx context.Context, id string) (*dto.OperationResponse, error) {
	return uc.transition(ctx, id, entity.StatusReady)
}

// Cancel cancela la operación. Cancelar es terminal y no toca el stock.
func (uc *OperationUseCase) Cancel(ctx context.Context, id string) (*dto.OperationResponse, error) {
	return uc.transition(ctx, id, entity.StatusCancel)
}

func (uc *OperationUseCase) transition(ctx context.Context, id string, to entity.OperationStatus) (*dto.OperationResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "operation.transition", trace.WithAttributes(
		attribute.String("operation.id", id),
		attribute.String("operation.to", string(to)),
	))
	defer span.End()

	var (
		op    *entity.Operation
		lines []*entity.OperationLine
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		op, err = repos.Operations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from := op.Status
		if err := operation.Transition(op, to); err != nil {
			return err
		}
		op.UpdatedAt = uc.now()
		if err := repos.Operations.Update(ctx, op); err != nil {
			return err
		}
		uc.log.Ctx(ctx).Info().Str("reference", op.Reference).Str("from", string(from)).Str("to", string(to)).Msg("cambio de estado")
		lines, err = repos.Operations.ListLines(ctx, op.ID)
		return err
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	return toOperationResponse(op, lines), nil
}

// GetByID devuelve la operación con sus renglones.
func (uc *OperationUseCase) GetByID(ctx context.Context, id string) (*dto.OperationResponse, error) {
	op, err := uc.opRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.opRepo.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOperationResponse(op, lines), nil
}

// Load devuelve las entidades de la operación (para generar documentos).
func (uc *OperationUseCase) Load(ctx context.Context, id string) (*entity.Operation, []*entity.OperationLine, error) {
	op, err := uc.opRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := uc.opRepo.ListLines(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return op, lines, nil
}

// List lista operaciones filtrando por tipo y/o estado, más recientes primero.
func (uc *OperationUseCase) List(ctx context.Context, in dto.OperationFilterRequest) (*dto.OperationListResponse, error) {
	in.DefaultPage()
	list, err := uc.opRepo.List(ctx, repository.OperationFilter{
		Type:   entity.OperationType(in.Type),
		Status: entity.OperationStatus(in.Status),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OperationResponse, 0, len(list))
	for _, op := range list {
		items = append(items, *toOperationResponse(op, nil))
	}
	return &dto.OperationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// buildLines convierte y normaliza los renglones del request para el tipo de la operación.
func buildLines(op *entity.Operation, in []dto.OperationLineRequest) ([]*entity.OperationLine, error) {
	lines := make([]*entity.OperationLine, 0, len(in))
	for i, l := range in {
		line := &entity.OperationLine{
			ID:              uuid.New().String(),
			OperationID:     op.ID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
		}
		if err := operation.NormalizeLine(op.Type, line); err != nil {
			return nil, fmt.Errorf("renglón %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// checkReferences verifica que ubicaciones, tercero y productos existan, y el rol del tercero.
// Completa ProductSKU en los renglones.
func checkReferences(ctx context.Context, repos repository.TxRepos, op *entity.Operation, lines []*entity.OperationLine) error {
	for _, locID := range []*string{op.SourceLocationID, op.DestinationLocationID} {
		if locID == nil {
			continue
		}
		if _, err := repos.Locations.GetByID(ctx, *locID); err != nil {
			return fmt.Errorf("ubicación %s: %w", *locID, err)
		}
	}
	if op.PartnerID != nil {
		partner, err := repos.Partners.GetByID(ctx, *op.PartnerID)
		if err != nil {
			return fmt.Errorf("tercero %s: %w", *op.PartnerID, err)
		}
		if err := operation.CheckPartner(op.Type, partner); err != nil {
			return err
		}
	}
	for _, l := range lines {
		product, err := repos.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("producto %s: %w", l.ProductID, err)
		}
		l.ProductSKU = product.SKU
	}
	return nil
}

// warehouseCodeFor resuelve el código de bodega de la referencia. Vacío si no hay ubicación.
func warehouseCodeFor(ctx context.Context, locations repository.LocationRepository, op *entity.Operation) (string, error) {
	locID := operation.ReferenceLocationID(op)
	if locID == nil {
		return "", nil
	}
	loc, err := locations.GetByID(ctx, *locID)
	if err != nil {
		return "", err
	}
	return loc.WarehouseCode, nil
}

// endSpan marca el span con el error y lo devuelve sin cambios.
func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func toOperationResponse(op *entity.Operation, lines []*entity.OperationLine) *dto.OperationResponse {
	out := &dto.OperationResponse{
		ID:                    op.ID,
		Reference:             op.Reference,
		Type:                  string(op.Type),
		Status:                string(op.Status),
		PartnerID:             op.PartnerID,
		SourceLocationID:      op.SourceLocationID,
		DestinationLocationID: op.DestinationLocationID,
		ScheduledDate:         op.ScheduledDate,
		CreatedBy:             op.CreatedBy,
		Notes:                 op.Notes,
		CreatedAt:             op.CreatedAt,
		UpdatedAt:             op.UpdatedAt,
		ValidatedAt:           op.ValidatedAt,
		Lines:                 make([]dto.OperationLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.OperationLineResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			ProductSKU:      l.ProductSKU,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
		})
	}
	return out
}
