// Package analytics contiene los casos de uso de reportes y del dashboard de inventario.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const dashboardRecentOperations = 10 // operaciones en el widget de actividad reciente

// pendingStatuses estados que cuentan como "pendiente" en el dashboard.
var pendingStatuses = []entity.OperationStatus{entity.StatusDraft, entity.StatusWaiting, entity.StatusReady}

// DashboardUseCase genera los KPIs de inventario.
//
// Fuente de datos: ReportRepository y OperationRepository (consultas read-only).
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	opRepo     repository.OperationRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, opRepo repository.OperationRepository) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, opRepo: opRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Consultas en paralelo:
//  1. StockByProduct        → total de productos, stock bajo, agotados
//  2. CountOperations × 3   → recepciones, entregas y traslados pendientes
//  3. List(limit 10)        → actividad reciente
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type stockResult struct {
		rows []repository.ProductStock
		err  error
	}
	type countResult struct {
		n   int
		err error
	}
	type recentResult struct {
		ops []*entity.Operation
		err error
	}

	stockCh := make(chan stockResult, 1)
	receiptsCh := make(chan countResult, 1)
	deliveriesCh := make(chan countResult, 1)
	internalCh := make(chan countResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		rows, err := uc.reportRepo.StockByProduct(ctx, "")
		stockCh <- stockResult{rows, err}
	}()
	count := func(t entity.OperationType, ch chan<- countResult) {
		n, err := uc.reportRepo.CountOperations(ctx, t, pendingStatuses)
		ch <- countResult{n, err}
	}
	go count(entity.OperationReceipt, receiptsCh)
	go count(entity.OperationDelivery, deliveriesCh)
	go count(entity.OperationInternal, internalCh)
	go func() {
		ops, err := uc.opRepo.List(ctx, repository.OperationFilter{Limit: dashboardRecentOperations})
		recentCh <- recentResult{ops, err}
	}()

	stock := <-stockCh
	receipts := <-receiptsCh
	deliveries := <-deliveriesCh
	internal := <-internalCh
	recent := <-recentCh

	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: stock por producto: %w", stock.err)
	}
	for name, r := range map[string]countResult{"recepciones": receipts, "entregas": deliveries, "traslados": internal} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: %s pendientes: %w", name, r.err)
		}
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: operaciones recientes: %w", recent.err)
	}

	// ── Clasificar stock ───────────────────────────────────────────────────────
	var low, out int
	for _, row := range stock.rows {
		switch {
		case !row.Quantity.GreaterThan(decimal.Zero):
			out++
		case row.Quantity.LessThanOrEqual(row.MinStock):
			low++
		}
	}

	summary := &dto.DashboardSummaryDTO{
		TotalProducts:            len(stock.rows),
		LowStockCount:            low,
		OutOfStockCount:          out,
		PendingReceipts:          receipts.n,
		PendingDeliveries:        deliveries.n,
		PendingInternalTransfers: internal.n,
		RecentOperations:         make([]dto.OperationResponse, 0, len(recent.ops)),
	}
	for _, op := range recent.ops {
		summary.RecentOperations = append(summary.RecentOperations, dto.OperationResponse{
			ID:                    op.ID,
			Reference:             op.Reference,
			Type:                  string(op.Type),
			Status:                string(op.Status),
			PartnerID:             op.PartnerID,
			SourceLocationID:      op.SourceLocationID,
			DestinationLocationID: op.DestinationLocationID,
			ScheduledDate:         op.ScheduledDate,
			CreatedBy:             op.CreatedBy,
			Notes:                 op.Notes,
			CreatedAt:             op.CreatedAt,
			UpdatedAt:             op.UpdatedAt,
			ValidatedAt:           op.ValidatedAt,
			Lines:                 []dto.OperationLineResponse{},
		})
	}
	return summary, nil
}
