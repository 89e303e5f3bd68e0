package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Delta cambio a aplicar sobre el stock de un producto en una ubicación.
type Delta struct {
	OperationID           string
	LineID                string
	ProductID             string
	LocationID            string
	SourceLocationID      *string
	DestinationLocationID *string
	Change                decimal.Decimal
	FloorAtZero           bool // ajustes: el resultado no baja de 0
}

// StockLedger mantiene StockLevel y el libro de movimientos. Opera sobre repositorios de una tx.
type StockLedger struct {
	stock  repository.StockLevelRepository
	ledger repository.LedgerRepository
	log    *logger.Logger
	now    func() time.Time
}

// NewStockLedger construye el ledger sobre los repositorios de la transacción en curso.
func NewStockLedger(
	stock repository.StockLevelRepository,
	ledger repository.LedgerRepository,
	log *logger.Logger,
	now func() time.Time,
) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &StockLedger{stock: stock, ledger: ledger, log: log, now: now}
}

// ApplyDelta bloquea (o crea en 0) el nivel, suma el delta, lo persiste y agrega exactamente un
// registro al libro con el delta efectivo. El registro devuelto lleva la cantidad resultante.
// clamped indica que el piso en cero recortó el delta.
func (l *StockLedger) ApplyDelta(ctx context.Context, d Delta) (entry *entity.StockLedgerEntry, clamped bool, err error) {
	level, err := l.stock.GetForUpdate(ctx, d.ProductID, d.LocationID)
	if err != nil {
		return nil, false, err
	}

	newQty := level.Quantity.Add(d.Change)
	applied := d.Change
	if d.FloorAtZero {
		newQty, applied, clamped = inventory.Clamp(level.Quantity, d.Change)
		if clamped {
			l.log.Ctx(ctx).Warn().
				Str("operation_id", d.OperationID).
				Str("product_id", d.ProductID).
				Str("location_id", d.LocationID).
				Str("requested", d.Change.String()).
				Str("applied", applied.String()).
				Msg("ajuste recortado para no dejar stock negativo")
		}
	}

	now := l.now()
	level.Quantity = newQty
	level.UpdatedAt = now
	if err := l.stock.Upsert(ctx, level); err != nil {
		return nil, false, err
	}

	entry = &entity.StockLedgerEntry{
		ID:                    uuid.New().String(),
		OperationID:           d.OperationID,
		LineID:                d.LineID,
		ProductID:             d.ProductID,
		LocationID:            d.LocationID,
		SourceLocationID:      d.SourceLocationID,
		DestinationLocationID: d.DestinationLocationID,
		QuantityChange:        applied,
		QuantityAfter:         newQty,
		CreatedAt:             now,
	}
	if err := l.ledger.Create(ctx, entry); err != nil {
		return nil, false, fmt.Errorf("registrar movimiento: %w", err)
	}
	return entry, clamped, nil
}
