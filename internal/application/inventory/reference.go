package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/operation"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// maxSequenceAttempts intentos de incremento cuando otro proceso crea el contador al mismo tiempo.
const maxSequenceAttempts = 3

// ReferenceGenerator asigna referencias {bodega}/{código}/{año}/{secuencia}.
// La secuencia sale de un contador por (tipo, año, bodega) incrementado dentro de la
// transacción que crea la operación; el bloqueo de la fila del contador serializa la asignación.
type ReferenceGenerator struct {
	log *logger.Logger
}

// NewReferenceGenerator construye el generador.
func NewReferenceGenerator(log *logger.Logger) *ReferenceGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &ReferenceGenerator{log: log}
}

// Next reserva el siguiente número del alcance y devuelve la referencia formateada.
// Debe llamarse con los repositorios de la transacción que persiste la operación.
func (g *ReferenceGenerator) Next(
	ctx context.Context,
	repos repository.TxRepos,
	opType entity.OperationType,
	warehouseCode string,
	year int,
) (string, error) {
	if warehouseCode == "" {
		warehouseCode = operation.DefaultWarehouseCode
	}
	scope := repository.SequenceScope{Type: opType, Year: year, WarehouseCode: warehouseCode}

	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		seq, found, err := repos.Sequences.Increment(ctx, scope)
		if err != nil {
			return "", fmt.Errorf("incrementar secuencia: %w", err)
		}
		if found {
			return operation.FormatReference(opType, warehouseCode, year, seq), nil
		}

		// Alcance sin contador: sembrar desde las operaciones existentes.
		next := g.seed(ctx, repos, scope) + 1
		created, err := repos.Sequences.Init(ctx, scope, next)
		if err != nil {
			return "", fmt.Errorf("crear secuencia: %w", err)
		}
		if created {
			return operation.FormatReference(opType, warehouseCode, year, next), nil
		}
		// Otro proceso creó el contador primero; el siguiente Increment lo encuentra.
	}
	return "", fmt.Errorf("%w: no se pudo reservar secuencia para %s",
		domain.ErrConflict, operation.ReferencePrefix(opType, warehouseCode, year))
}

// seed devuelve el último número usado en el alcance. No devuelve error: ante fallos de lectura
// o referencias ilegibles registra un warning y usa el respaldo. Cada lectura corre en su propio
// savepoint para que un fallo no invalide la transacción de la creación.
func (g *ReferenceGenerator) seed(ctx context.Context, repos repository.TxRepos, scope repository.SequenceScope) int {
	prefix := operation.ReferencePrefix(scope.Type, scope.WarehouseCode, scope.Year)
	ops := repos.Operations

	var (
		latest    string
		hasLatest bool
		count     int
	)
	err := isolated(ctx, repos.Savepoints, func() (err error) {
		latest, hasLatest, err = ops.LatestReferenceWithPrefix(ctx, prefix)
		return err
	})
	if err != nil {
		g.log.Ctx(ctx).Warn().Err(err).Str("prefix", prefix).Msg("no se pudo leer la última referencia; se usa el conteo")
		latest, hasLatest = "", true
	}
	err = isolated(ctx, repos.Savepoints, func() (err error) {
		count, err = ops.CountReferencesWithPrefix(ctx, prefix)
		return err
	})
	if err != nil {
		g.log.Ctx(ctx).Warn().Err(err).Str("prefix", prefix).Msg("no se pudo contar operaciones del alcance")
		count = 0
	}

	last, degraded := operation.SeedSequence(latest, hasLatest, count)
	if degraded {
		g.log.Ctx(ctx).Warn().
			Str("prefix", prefix).
			Str("latest_reference", latest).
			Int("count", count).
			Msg("referencia previa ilegible; secuencia sembrada desde el conteo")
	}
	return last
}

func isolated(ctx context.Context, sp repository.SavepointRunner, fn func() error) error {
	if sp == nil {
		return fn()
	}
	return sp.Savepoint(ctx, fn)
}
