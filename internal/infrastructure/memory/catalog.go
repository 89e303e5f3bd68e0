package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.CategoryRepository      = (*CategoryRepo)(nil)
	_ repository.UnitOfMeasureRepository = (*UnitOfMeasureRepo)(nil)
	_ repository.PartnerRepository       = (*PartnerRepo)(nil)
	_ repository.WarehouseRepository     = (*WarehouseRepo)(nil)
	_ repository.LocationRepository      = (*LocationRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ db access }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.db.write(func(st *state) error {
		current, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		updated := *p
		updated.SKU = current.SKU
		updated.Cost = current.Cost
		st.products[p.ID] = updated
		return nil
	})
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.db.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		st.products[productID] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.read(func(st *state) error {
		for _, p := range st.products {
			p := p
			out = append(out, &p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		out = paginate(out, limit, offset)
		return nil
	})
	return out, err
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ db access }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.db.write(func(st *state) error {
		for _, existing := range st.categories {
			if strings.EqualFold(existing.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.db.read(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.db.read(func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

// UnitOfMeasureRepo unidades de medida en memoria.
type UnitOfMeasureRepo struct{ db access }

func (r *UnitOfMeasureRepo) Create(_ context.Context, u *entity.UnitOfMeasure) error {
	return r.db.write(func(st *state) error {
		for _, existing := range st.uoms {
			if strings.EqualFold(existing.Name, u.Name) || strings.EqualFold(existing.Abbreviation, u.Abbreviation) {
				return domain.ErrDuplicate
			}
		}
		st.uoms[u.ID] = *u
		return nil
	})
}

func (r *UnitOfMeasureRepo) GetByID(_ context.Context, id string) (*entity.UnitOfMeasure, error) {
	var out *entity.UnitOfMeasure
	err := r.db.read(func(st *state) error {
		u, ok := st.uoms[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UnitOfMeasureRepo) List(_ context.Context) ([]*entity.UnitOfMeasure, error) {
	var out []*entity.UnitOfMeasure
	err := r.db.read(func(st *state) error {
		for _, u := range st.uoms {
			u := u
			out = append(out, &u)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

// PartnerRepo terceros en memoria.
type PartnerRepo struct{ db access }

func (r *PartnerRepo) Create(_ context.Context, p *entity.Partner) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.partners[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.partners[p.ID] = *p
		return nil
	})
}

func (r *PartnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	var out *entity.Partner
	err := r.db.read(func(st *state) error {
		p, ok := st.partners[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// List filtra por tipo; supplier y customer incluyen a los de tipo both.
func (r *PartnerRepo) List(_ context.Context, partnerType string, limit, offset int) ([]*entity.Partner, error) {
	var out []*entity.Partner
	err := r.db.read(func(st *state) error {
		for _, p := range st.partners {
			if partnerType != "" && p.Type != partnerType && p.Type != entity.PartnerBoth {
				continue
			}
			p := p
			out = append(out, &p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		out = paginate(out, limit, offset)
		return nil
	})
	return out, err
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ db access }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.db.write(func(st *state) error {
		for _, existing := range st.warehouses {
			if existing.Code == w.Code {
				return domain.ErrDuplicate
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.db.read(func(st *state) error {
		w, ok := st.warehouses[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &w
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.db.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == code {
				w := w
				out = &w
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.db.write(func(st *state) error {
		current, ok := st.warehouses[w.ID]
		if !ok {
			return domain.ErrNotFound
		}
		updated := *w
		updated.Code = current.Code
		st.warehouses[w.ID] = updated
		return nil
	})
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.db.read(func(st *state) error {
		for _, w := range st.warehouses {
			w := w
			out = append(out, &w)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
		out = paginate(out, limit, offset)
		return nil
	})
	return out, err
}

// LocationRepo ubicaciones en memoria. Las lecturas llenan WarehouseCode.
type LocationRepo struct{ db access }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.warehouses[l.WarehouseID]; !ok {
			return domain.ErrNotFound
		}
		for _, existing := range st.locations {
			if existing.WarehouseID == l.WarehouseID && existing.Name == l.Name {
				return domain.ErrDuplicate
			}
		}
		stored := *l
		stored.WarehouseCode = ""
		st.locations[l.ID] = stored
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.db.read(func(st *state) error {
		l, ok := st.locations[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = withWarehouseCode(st, l)
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetByWarehouseAndName(_ context.Context, warehouseID, name string) (*entity.Location, error) {
	var out *entity.Location
	err := r.db.read(func(st *state) error {
		for _, l := range st.locations {
			if l.WarehouseID == warehouseID && l.Name == name {
				out = withWarehouseCode(st, l)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *LocationRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.db.read(func(st *state) error {
		for _, l := range st.locations {
			if l.WarehouseID == warehouseID {
				out = append(out, withWarehouseCode(st, l))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func withWarehouseCode(st *state, l entity.Location) *entity.Location {
	if w, ok := st.warehouses[l.WarehouseID]; ok {
		l.WarehouseCode = w.Code
	}
	return &l
}

// UserRepo usuarios en memoria.
type UserRepo struct{ db access }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.db.write(func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.db.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.db.read(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				u := u
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}
