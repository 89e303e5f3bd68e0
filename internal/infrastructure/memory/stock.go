package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.StockLevelRepository = (*StockRepo)(nil)
	_ repository.LedgerRepository     = (*LedgerRepo)(nil)
	_ repository.ReportRepository     = (*ReportRepo)(nil)
)

// StockRepo niveles de stock por (producto, ubicación).
type StockRepo struct{ db access }

func (r *StockRepo) Get(_ context.Context, productID, locationID string) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.db.read(func(st *state) error {
		level, ok := st.levels[levelKey{productID, locationID}]
		if !ok {
			level = entity.StockLevel{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}
		}
		out = &level
		return nil
	})
	return out, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *StockRepo) Upsert(_ context.Context, level *entity.StockLevel) error {
	return r.db.write(func(st *state) error {
		st.levels[levelKey{level.ProductID, level.LocationID}] = *level
		return nil
	})
}

func (r *StockRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.StockLevel, error) {
	return r.list(func(k levelKey) bool { return k.locationID == locationID })
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockLevel, error) {
	return r.list(func(k levelKey) bool { return k.productID == productID })
}

func (r *StockRepo) list(match func(levelKey) bool) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	err := r.db.read(func(st *state) error {
		for k, level := range st.levels {
			if match(k) {
				level := level
				out = append(out, &level)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].ProductID != out[j].ProductID {
				return out[i].ProductID < out[j].ProductID
			}
			return out[i].LocationID < out[j].LocationID
		})
		return nil
	})
	return out, err
}

// LedgerRepo libro de movimientos; solo se agregan registros.
type LedgerRepo struct{ db access }

func (r *LedgerRepo) Create(_ context.Context, entry *entity.StockLedgerEntry) error {
	return r.db.write(func(st *state) error {
		c := *entry
		c.SourceLocationID = cloneStr(c.SourceLocationID)
		c.DestinationLocationID = cloneStr(c.DestinationLocationID)
		st.ledger = append(st.ledger, c)
		return nil
	})
}

// List devuelve los registros más recientes primero.
func (r *LedgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	err := r.db.read(func(st *state) error {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			e := st.ledger[i]
			if f.ProductID != "" && e.ProductID != f.ProductID {
				continue
			}
			if f.LocationID != "" && e.LocationID != f.LocationID {
				continue
			}
			if f.OperationID != "" && e.OperationID != f.OperationID {
				continue
			}
			if f.From != nil && e.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && e.CreatedAt.After(*f.To) {
				continue
			}
			e.SourceLocationID = cloneStr(e.SourceLocationID)
			e.DestinationLocationID = cloneStr(e.DestinationLocationID)
			out = append(out, &e)
		}
		out = paginate(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// ReportRepo consultas agregadas sobre el estado publicado.
type ReportRepo struct{ db access }

func (r *ReportRepo) StockByProduct(_ context.Context, warehouseID string) ([]repository.ProductStock, error) {
	var out []repository.ProductStock
	err := r.db.read(func(st *state) error {
		totals := make(map[string]decimal.Decimal)
		for k, level := range st.levels {
			if warehouseID != "" {
				loc, ok := st.locations[k.locationID]
				if !ok || loc.WarehouseID != warehouseID {
					continue
				}
			}
			totals[k.productID] = totals[k.productID].Add(level.Quantity)
		}
		for _, p := range st.products {
			if !p.Active {
				continue
			}
			out = append(out, repository.ProductStock{
				ProductID:   p.ID,
				SKU:         p.SKU,
				ProductName: p.Name,
				MinStock:    p.MinStock,
				Cost:        p.Cost,
				Quantity:    totals[p.ID],
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		return nil
	})
	return out, err
}

func (r *ReportRepo) CountOperations(_ context.Context, opType entity.OperationType, statuses []entity.OperationStatus) (int, error) {
	n := 0
	err := r.db.read(func(st *state) error {
		for _, op := range st.operations {
			if op.Type != opType {
				continue
			}
			for _, s := range statuses {
				if op.Status == s {
					n++
					break
				}
			}
		}
		return nil
	})
	return n, err
}
