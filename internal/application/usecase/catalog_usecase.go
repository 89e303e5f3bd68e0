package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CatalogUseCase altas y listados de categorías, unidades de medida y terceros.
type CatalogUseCase struct {
	categoryRepo repository.CategoryRepository
	uomRepo      repository.UnitOfMeasureRepository
	partnerRepo  repository.PartnerRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	categoryRepo repository.CategoryRepository,
	uomRepo repository.UnitOfMeasureRepository,
	partnerRepo repository.PartnerRepository,
) *CatalogUseCase {
	return &CatalogUseCase{categoryRepo: categoryRepo, uomRepo: uomRepo, partnerRepo: partnerRepo}
}

// CreateCategory crea una categoría. El repositorio devuelve ErrDuplicate si el nombre existe.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &entity.Category{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}, nil
}

// ListCategories lista categorías por nombre.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out, nil
}

// CreateUnitOfMeasure crea una unidad de medida.
func (uc *CatalogUseCase) CreateUnitOfMeasure(ctx context.Context, in dto.CreateUnitOfMeasureRequest) (*dto.UnitOfMeasureResponse, error) {
	u := &entity.UnitOfMeasure{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Abbreviation: strings.TrimSpace(in.Abbreviation)}
	if err := uc.uomRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UnitOfMeasureResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation}, nil
}

// ListUnitsOfMeasure lista unidades de medida.
func (uc *CatalogUseCase) ListUnitsOfMeasure(ctx context.Context) ([]dto.UnitOfMeasureResponse, error) {
	list, err := uc.uomRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitOfMeasureResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UnitOfMeasureResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation})
	}
	return out, nil
}

// CreatePartner crea un proveedor, cliente o ambos.
func (uc *CatalogUseCase) CreatePartner(ctx context.Context, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	if !entity.ValidPartnerType(in.Type) {
		return nil, domain.InvalidInput("tipo de tercero inválido %q", in.Type)
	}
	p := &entity.Partner{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(in.Name),
		Type:    in.Type,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
	}
	if err := uc.partnerRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// GetPartner obtiene un tercero por ID.
func (uc *CatalogUseCase) GetPartner(ctx context.Context, id string) (*dto.PartnerResponse, error) {
	p, err := uc.partnerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// ListPartners lista terceros; partnerType vacío no filtra.
func (uc *CatalogUseCase) ListPartners(ctx context.Context, partnerType string, limit, offset int) ([]dto.PartnerResponse, error) {
	if partnerType != "" && !entity.ValidPartnerType(partnerType) {
		return nil, domain.InvalidInput("tipo de tercero inválido %q", partnerType)
	}
	list, err := uc.partnerRepo.List(ctx, partnerType, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPartnerResponse(p))
	}
	return out, nil
}

func toPartnerResponse(p *entity.Partner) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:      p.ID,
		Name:    p.Name,
		Type:    p.Type,
		Phone:   p.Phone,
		Email:   p.Email,
		Address: p.Address,
	}
}
