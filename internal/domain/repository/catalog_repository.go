package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}

// UnitOfMeasureRepository puerto de persistencia para unidades de medida.
type UnitOfMeasureRepository interface {
	Create(ctx context.Context, uom *entity.UnitOfMeasure) error
	GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error)
	List(ctx context.Context) ([]*entity.UnitOfMeasure, error)
}

// PartnerRepository puerto de persistencia para proveedores/clientes.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	List(ctx context.Context, partnerType string, limit, offset int) ([]*entity.Partner, error)
}
