package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos activos en o bajo su stock mínimo.
type ReplenishmentUseCase struct {
	reportRepo repository.ReportRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(reportRepo repository.ReportRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{reportRepo: reportRepo}
}

// GenerateReplenishmentList devuelve los productos con stock <= MinStock (o agotados) con la
// cantidad sugerida de pedido. warehouseID vacío considera el stock de todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	rows, err := uc.reportRepo.StockByProduct(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, row := range rows {
		outOfStock := !row.Quantity.GreaterThan(decimal.Zero)
		low := row.MinStock.GreaterThan(decimal.Zero) && row.Quantity.LessThanOrEqual(row.MinStock)
		if !outOfStock && !low {
			continue
		}
		idealStock := row.MinStock.Mul(factor)
		suggestedQty := idealStock.Sub(row.Quantity)
		if suggestedQty.LessThan(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          row.ProductID,
			SKU:                row.SKU,
			ProductName:        row.ProductName,
			CurrentStock:       row.Quantity,
			MinStock:           row.MinStock,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           row.Cost,
			EstimatedOrderCost: suggestedQty.Mul(row.Cost),
			OutOfStock:         outOfStock,
		})
	}

	// Agotados primero; luego mayor déficit relativo al mínimo; desempate por SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.OutOfStock != b.OutOfStock {
			return a.OutOfStock
		}
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.SKU < b.SKU
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// coverage fracción del mínimo cubierta por el stock actual.
func coverage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if !s.MinStock.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return s.CurrentStock.DivRound(s.MinStock, 4)
}
