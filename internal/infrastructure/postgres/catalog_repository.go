package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.CategoryRepository      = (*CategoryRepo)(nil)
	_ repository.UnitOfMeasureRepository = (*UnitOfMeasureRepo)(nil)
	_ repository.PartnerRepository       = (*PartnerRepo)(nil)
)

// CategoryRepo categorías de producto sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, description FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UnitOfMeasureRepo unidades de medida sobre PostgreSQL.
type UnitOfMeasureRepo struct {
	q Querier
}

// NewUnitOfMeasureRepository construye el adaptador.
func NewUnitOfMeasureRepository(q Querier) *UnitOfMeasureRepo {
	return &UnitOfMeasureRepo{q: q}
}

func (r *UnitOfMeasureRepo) Create(ctx context.Context, u *entity.UnitOfMeasure) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO units_of_measure (id, name, abbreviation) VALUES ($1, $2, $3)`,
		u.ID, u.Name, u.Abbreviation,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit of measure: %w", err)
	}
	return nil
}

func (r *UnitOfMeasureRepo) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	var u entity.UnitOfMeasure
	err := r.q.QueryRow(ctx, `SELECT id, name, abbreviation FROM units_of_measure WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Abbreviation)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get unit of measure: %w", err)
	}
	return &u, nil
}

func (r *UnitOfMeasureRepo) List(ctx context.Context) ([]*entity.UnitOfMeasure, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, abbreviation FROM units_of_measure ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list units of measure: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitOfMeasure
	for rows.Next() {
		var u entity.UnitOfMeasure
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation); err != nil {
			return nil, fmt.Errorf("scan unit of measure: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// PartnerRepo proveedores y clientes sobre PostgreSQL.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO partners (id, name, type, phone, email, address)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Type, p.Phone, p.Email, p.Address,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	var p entity.Partner
	err := r.q.QueryRow(ctx,
		`SELECT id, name, type, phone, email, address FROM partners WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.Address)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}

// List filtra por tipo; supplier y customer incluyen a los de tipo both.
func (r *PartnerRepo) List(ctx context.Context, partnerType string, limit, offset int) ([]*entity.Partner, error) {
	query := `
		SELECT id, name, type, phone, email, address
		FROM partners
		WHERE ($1 = '' OR type = $1 OR type = 'both')
		ORDER BY name
		LIMIT NULLIF($2, 0) OFFSET $3`
	rows, err := r.q.Query(ctx, query, partnerType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		var p entity.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.Address); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
