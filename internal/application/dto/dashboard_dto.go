package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalProducts            int `json:"total_products"`
	LowStockCount            int `json:"low_stock_count"` // 0 < stock <= min_stock
	OutOfStockCount          int `json:"out_of_stock_count"`
	PendingReceipts          int `json:"pending_receipts"` // DRAFT, WAITING o READY
	PendingDeliveries        int `json:"pending_deliveries"`
	PendingInternalTransfers int `json:"pending_internal_transfers"`

	RecentOperations []OperationResponse `json:"recent_operations"`
}
