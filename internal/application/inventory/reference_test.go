package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// abortableTx imita una tx de PostgreSQL: tras un error toda sentencia falla hasta un
// ROLLBACK TO SAVEPOINT.
type abortableTx struct {
	aborted    bool
	savepoints int
}

var errTxAborted = errors.New("current transaction is aborted")

func (tx *abortableTx) Savepoint(_ context.Context, fn func() error) error {
	tx.savepoints++
	wasAborted := tx.aborted
	err := fn()
	if err != nil {
		tx.aborted = wasAborted
	}
	return err
}

type brokenLatestOps struct {
	repository.OperationRepository
	tx *abortableTx
}

func (o brokenLatestOps) LatestReferenceWithPrefix(context.Context, string) (string, bool, error) {
	o.tx.aborted = true
	return "", false, errors.New("relation operations: timeout")
}

func (o brokenLatestOps) CountReferencesWithPrefix(ctx context.Context, prefix string) (int, error) {
	if o.tx.aborted {
		return 0, errTxAborted
	}
	return o.OperationRepository.CountReferencesWithPrefix(ctx, prefix)
}

type abortAwareSequences struct {
	repository.SequenceRepository
	tx *abortableTx
}

func (s abortAwareSequences) Increment(ctx context.Context, scope repository.SequenceScope) (int, bool, error) {
	if s.tx.aborted {
		return 0, false, errTxAborted
	}
	return s.SequenceRepository.Increment(ctx, scope)
}

func (s abortAwareSequences) Init(ctx context.Context, scope repository.SequenceScope, value int) (bool, error) {
	if s.tx.aborted {
		return false, errTxAborted
	}
	return s.SequenceRepository.Init(ctx, scope, value)
}

// ─── Siembra degradada ─────────────────────────────────────────────────────────

func TestNext_FalloDeLecturaNoInvalidaLaTransaccion(t *testing.T) {
	store := memory.New()
	gen := inventory.NewReferenceGenerator(logger.Nop())
	tx := &abortableTx{}

	var ref string
	err := store.Run(context.Background(), func(repos repository.TxRepos) error {
		repos.Operations = brokenLatestOps{OperationRepository: repos.Operations, tx: tx}
		repos.Sequences = abortAwareSequences{SequenceRepository: repos.Sequences, tx: tx}
		repos.Savepoints = tx

		var err error
		ref, err = gen.Next(context.Background(), repos, entity.OperationReceipt, "WH1", 2026)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "WH1/IN/2026/0001", ref, "sin operaciones previas el conteo es 0")
	assert.Equal(t, 2, tx.savepoints, "cada lectura corre en su propio savepoint")
	assert.False(t, tx.aborted)
}

func TestNext_SinSavepointsLeeDirecto(t *testing.T) {
	store := memory.New()
	gen := inventory.NewReferenceGenerator(logger.Nop())

	err := store.Run(context.Background(), func(repos repository.TxRepos) error {
		repos.Savepoints = nil
		ref, err := gen.Next(context.Background(), repos, entity.OperationDelivery, "", 2026)
		require.NoError(t, err)
		assert.Equal(t, "WH/OUT/2026/0001", ref)
		return nil
	})
	require.NoError(t, err)
}
