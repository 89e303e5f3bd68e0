package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reposición y dashboard.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockByProduct devuelve los productos activos con su stock agregado.
// Si warehouseID es vacío, agrega todas las bodegas.
func (r *ReportRepo) StockByProduct(ctx context.Context, warehouseID string) ([]repository.ProductStock, error) {
	const query = `
		SELECT
			p.id,
			p.sku,
			p.name,
			p.min_stock,
			p.cost,
			COALESCE(SUM(s.quantity), 0) AS quantity
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
			AND ($1 = '' OR s.location_id IN (SELECT id FROM locations WHERE warehouse_id::text = $1))
		WHERE p.active
		GROUP BY p.id, p.sku, p.name, p.min_stock, p.cost
		ORDER BY p.sku`

	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("stock by product: %w", err)
	}
	defer rows.Close()

	var items []repository.ProductStock
	for rows.Next() {
		var item repository.ProductStock
		if err := rows.Scan(&item.ProductID, &item.SKU, &item.ProductName, &item.MinStock, &item.Cost, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan product stock: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountOperations cuenta operaciones de un tipo en cualquiera de los estados dados.
func (r *ReportRepo) CountOperations(ctx context.Context, opType entity.OperationType, statuses []entity.OperationStatus) (int, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM operations WHERE type = $1 AND status = ANY($2)`,
		string(opType), values,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return n, nil
}
