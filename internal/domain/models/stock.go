package models

import "github.com/shopspring/decimal"

// Status classifies a balanced SKU for the operators.
type Status string

const (
	StatusOK       Status = "OK"
	StatusReview   Status = "Review"
	StatusCritical Status = "Critical"
)

// StockRecord captures one SKU row as read from the inventory workbook.
// Quantities are already coerced to non-negative integers by the parser.
type StockRecord struct {
	ID                string `json:"id"`
	Description       string `json:"description"`
	Sales2MonthsAgo   int    `json:"sales_2_months_ago"`
	Sales1MonthAgo    int    `json:"sales_1_month_ago"`
	SalesCurrentMonth int    `json:"sales_current_month"`
	Total3MonthSales  int    `json:"total_3_month_sales"`
	WarehouseQty      int    `json:"warehouse_qty"` // CEDI
	Store1Qty         int    `json:"store1_qty"`    // Bodega 1
	Store2Qty         int    `json:"store2_qty"`    // Bodega 2
}

// TotalStock returns the system-wide units held across CEDI and both Bodegas.
func (r StockRecord) TotalStock() int {
	return r.WarehouseQty + r.Store1Qty + r.Store2Qty
}

// BalancedRecord is a StockRecord annotated with its redistribution plan.
// Deficits are measured against the original quantities and are informational.
type BalancedRecord struct {
	StockRecord

	Store1Deficit    int `json:"store1_deficit"`
	Store2Deficit    int `json:"store2_deficit"`
	WarehouseDeficit int `json:"warehouse_deficit"`

	WarehouseToStore1 int `json:"warehouse_to_store1"`
	WarehouseToStore2 int `json:"warehouse_to_store2"`
	Store1ToStore2    int `json:"store1_to_store2"`
	Store2ToStore1    int `json:"store2_to_store1"`

	// Projected levels once every transfer lands, before any purchase.
	FinalWarehouse int `json:"final_warehouse"`
	FinalStore1    int `json:"final_store1"`
	FinalStore2    int `json:"final_store2"`

	POQty     int    `json:"po_qty"`
	POBySales int    `json:"po_by_sales"`
	Status    Status `json:"status"`
}

// HasTransfers reports whether any unit moves between nodes.
func (r BalancedRecord) HasTransfers() bool {
	return r.WarehouseToStore1 > 0 || r.WarehouseToStore2 > 0 || r.Store1ToStore2 > 0 || r.Store2ToStore1 > 0
}

// BelowMinimum reports whether either Bodega started below the store minimum.
func (r BalancedRecord) BelowMinimum() bool {
	return r.Store1Deficit > 0 || r.Store2Deficit > 0
}

// BatchSummary aggregates a balanced batch for the dashboard cards and chart.
type BatchSummary struct {
	TotalItems          int             `json:"total_items"`
	TotalWarehouseStock int             `json:"total_warehouse_stock"`
	TotalStore1Stock    int             `json:"total_store1_stock"`
	TotalStore2Stock    int             `json:"total_store2_stock"`
	TotalStock          int             `json:"total_stock"`
	TotalPOQty          int             `json:"total_po_qty"`
	TotalPOBySales      int             `json:"total_po_by_sales"`
	ItemsBelowMin       int             `json:"items_below_min"`
	BelowMinRate        decimal.Decimal `json:"below_min_rate"` // percent, one decimal
}

// Balanced reports the "all systems go" state: nothing to buy and no Bodega low.
func (s BatchSummary) Balanced() bool {
	return s.TotalPOQty == 0 && s.ItemsBelowMin == 0
}
