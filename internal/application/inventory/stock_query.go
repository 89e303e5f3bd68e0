package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockQueryUseCase consultas de stock actual y del libro de movimientos.
type StockQueryUseCase struct {
	stockRepo  repository.StockLevelRepository
	ledgerRepo repository.LedgerRepository
	cache      StockCache
}

// NewStockQueryUseCase construye el caso de uso. cache puede ser nil.
func NewStockQueryUseCase(stockRepo repository.StockLevelRepository, ledgerRepo repository.LedgerRepository, cache StockCache) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, ledgerRepo: ledgerRepo, cache: cache}
}

// GetLevel cantidad actual de un producto en una ubicación; 0 si nunca tuvo movimientos.
func (uc *StockQueryUseCase) GetLevel(ctx context.Context, productID, locationID string) (*dto.StockLevelResponse, error) {
	if productID == "" || locationID == "" {
		return nil, domain.InvalidInput("product_id y location_id son requeridos")
	}
	if uc.cache != nil {
		if level, ok := uc.cache.GetLevel(ctx, productID, locationID); ok {
			return toStockLevelResponse(level), nil
		}
	}
	level, err := uc.stockRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.SetLevel(ctx, level)
	}
	return toStockLevelResponse(level), nil
}

// LevelsByLocation niveles de todos los productos en una ubicación.
func (uc *StockQueryUseCase) LevelsByLocation(ctx context.Context, locationID string) ([]dto.StockLevelResponse, error) {
	levels, err := uc.stockRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return toStockLevelResponses(levels), nil
}

// LevelsByProduct niveles de un producto en todas sus ubicaciones.
func (uc *StockQueryUseCase) LevelsByProduct(ctx context.Context, productID string) ([]dto.StockLevelResponse, error) {
	levels, err := uc.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toStockLevelResponses(levels), nil
}

// Ledger lista registros del libro filtrando por producto, ubicación, operación y rango de fechas.
func (uc *StockQueryUseCase) Ledger(ctx context.Context, in dto.LedgerFilterRequest) (*dto.LedgerListResponse, error) {
	in.DefaultPage()
	filter, err := LedgerFilterFrom(in)
	if err != nil {
		return nil, err
	}
	entries, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLedgerEntryResponse(e))
	}
	return &dto.LedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// LedgerEntries devuelve las entidades del libro (exportación XML).
func (uc *StockQueryUseCase) LedgerEntries(ctx context.Context, filter repository.LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	return uc.ledgerRepo.List(ctx, filter)
}

// LedgerFilterFrom convierte el query HTTP en filtro de repositorio. from/to en RFC3339.
func LedgerFilterFrom(in dto.LedgerFilterRequest) (repository.LedgerFilter, error) {
	f := repository.LedgerFilter{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		OperationID: in.OperationID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.From != "" {
		t, err := time.Parse(time.RFC3339, in.From)
		if err != nil {
			return f, domain.InvalidInput("from: %v", err)
		}
		f.From = &t
	}
	if in.To != "" {
		t, err := time.Parse(time.RFC3339, in.To)
		if err != nil {
			return f, domain.InvalidInput("to: %v", err)
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("%w: to es anterior a from", domain.ErrInvalidInput)
	}
	return f, nil
}

func toStockLevelResponse(l *entity.StockLevel) *dto.StockLevelResponse {
	return &dto.StockLevelResponse{
		ProductID:  l.ProductID,
		LocationID: l.LocationID,
		Quantity:   l.Quantity,
		UpdatedAt:  l.UpdatedAt,
	}
}

func toStockLevelResponses(levels []*entity.StockLevel) []dto.StockLevelResponse {
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, *toStockLevelResponse(l))
	}
	return out
}

func toLedgerEntryResponse(e *entity.StockLedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:                    e.ID,
		OperationID:           e.OperationID,
		LineID:                e.LineID,
		ProductID:             e.ProductID,
		LocationID:            e.LocationID,
		SourceLocationID:      e.SourceLocationID,
		DestinationLocationID: e.DestinationLocationID,
		QuantityChange:        e.QuantityChange,
		QuantityAfter:         e.QuantityAfter,
		CreatedAt:             e.CreatedAt,
	}
}
