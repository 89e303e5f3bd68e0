package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.OperationRepository = (*OperationRepo)(nil)
	_ repository.SequenceRepository  = (*SequenceRepo)(nil)
)

// OperationRepo operaciones y renglones en memoria.
// GetForUpdate no bloquea nada adicional: Run ya serializa las transacciones.
type OperationRepo struct{ db access }

func (r *OperationRepo) Create(_ context.Context, op *entity.Operation, lines []*entity.OperationLine) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.operations[op.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range st.operations {
			if existing.Reference == op.Reference {
				return domain.ErrDuplicate
			}
		}
		st.operations[op.ID] = cloneOperation(*op)
		st.opSeq[op.ID] = st.next()
		st.lines[op.ID] = copyLines(op.ID, lines)
		return nil
	})
}

func (r *OperationRepo) GetByID(_ context.Context, id string) (*entity.Operation, error) {
	var out *entity.Operation
	err := r.db.read(func(st *state) error {
		op, ok := st.operations[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := cloneOperation(op)
		out = &c
		return nil
	})
	return out, err
}

func (r *OperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	return r.GetByID(ctx, id)
}

func (r *OperationRepo) Update(_ context.Context, op *entity.Operation) error {
	return r.db.write(func(st *state) error {
		current, ok := st.operations[op.ID]
		if !ok {
			return domain.ErrNotFound
		}
		updated := cloneOperation(*op)
		updated.Reference = current.Reference
		updated.Type = current.Type
		updated.CreatedBy = current.CreatedBy
		updated.CreatedAt = current.CreatedAt
		st.operations[op.ID] = updated
		return nil
	})
}

func (r *OperationRepo) ReplaceLines(_ context.Context, operationID string, lines []*entity.OperationLine) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.operations[operationID]; !ok {
			return domain.ErrNotFound
		}
		st.lines[operationID] = copyLines(operationID, lines)
		return nil
	})
}

func (r *OperationRepo) ListLines(_ context.Context, operationID string) ([]*entity.OperationLine, error) {
	var out []*entity.OperationLine
	err := r.db.read(func(st *state) error {
		for _, l := range st.lines[operationID] {
			c := cloneLine(l)
			if p, ok := st.products[c.ProductID]; ok {
				c.ProductSKU = p.SKU
			}
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// List devuelve las operaciones más recientes primero.
func (r *OperationRepo) List(_ context.Context, filter repository.OperationFilter) ([]*entity.Operation, error) {
	var out []*entity.Operation
	err := r.db.read(func(st *state) error {
		for _, op := range st.operations {
			if filter.Type != "" && op.Type != filter.Type {
				continue
			}
			if filter.Status != "" && op.Status != filter.Status {
				continue
			}
			c := cloneOperation(op)
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return st.opSeq[out[i].ID] > st.opSeq[out[j].ID] })
		out = paginate(out, filter.Limit, filter.Offset)
		return nil
	})
	return out, err
}

func (r *OperationRepo) LatestReferenceWithPrefix(_ context.Context, prefix string) (string, bool, error) {
	var (
		ref   string
		found bool
		best  int64
	)
	err := r.db.read(func(st *state) error {
		for id, op := range st.operations {
			if !strings.HasPrefix(op.Reference, prefix) {
				continue
			}
			if seq := st.opSeq[id]; !found || seq > best {
				ref, found, best = op.Reference, true, seq
			}
		}
		return nil
	})
	return ref, found, err
}

func (r *OperationRepo) CountReferencesWithPrefix(_ context.Context, prefix string) (int, error) {
	n := 0
	err := r.db.read(func(st *state) error {
		for _, op := range st.operations {
			if strings.HasPrefix(op.Reference, prefix) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func cloneOperation(op entity.Operation) entity.Operation {
	op.PartnerID = cloneStr(op.PartnerID)
	op.SourceLocationID = cloneStr(op.SourceLocationID)
	op.DestinationLocationID = cloneStr(op.DestinationLocationID)
	if op.ValidatedAt != nil {
		v := *op.ValidatedAt
		op.ValidatedAt = &v
	}
	return op
}

func cloneLine(l entity.OperationLine) entity.OperationLine {
	l.UnitCost = cloneDec(l.UnitCost)
	l.SystemQuantity = cloneDec(l.SystemQuantity)
	l.CountedQuantity = cloneDec(l.CountedQuantity)
	return l
}

func copyLines(operationID string, lines []*entity.OperationLine) []entity.OperationLine {
	out := make([]entity.OperationLine, 0, len(lines))
	for _, l := range lines {
		c := cloneLine(*l)
		c.OperationID = operationID
		c.ProductSKU = ""
		out = append(out, c)
	}
	return out
}

// SequenceRepo contadores de referencia por alcance.
type SequenceRepo struct{ db access }

func (r *SequenceRepo) Increment(_ context.Context, scope repository.SequenceScope) (int, bool, error) {
	var (
		value int
		found bool
	)
	err := r.db.write(func(st *state) error {
		current, ok := st.sequences[scope]
		if !ok {
			return nil
		}
		value, found = current+1, true
		st.sequences[scope] = value
		return nil
	})
	return value, found, err
}

func (r *SequenceRepo) Init(_ context.Context, scope repository.SequenceScope, value int) (bool, error) {
	created := false
	err := r.db.write(func(st *state) error {
		if _, ok := st.sequences[scope]; ok {
			return nil
		}
		st.sequences[scope] = value
		created = true
		return nil
	})
	return created, err
}
