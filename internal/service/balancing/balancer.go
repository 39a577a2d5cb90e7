package balancing

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

// Balance computes the redistribution plan for every record under the policy.
// Each SKU is planned on its own; the output order matches the input order.
// Bodega 1 is always served before Bodega 2 when CEDI stock runs short.
func Balance(records []models.StockRecord, policy models.Policy) ([]models.BalancedRecord, models.BatchSummary) {
	balanced := make([]models.BalancedRecord, 0, len(records))
	for _, record := range records {
		balanced = append(balanced, BalanceRecord(record, policy))
	}
	return balanced, Summarize(balanced)
}

// BalanceRecord plans a single SKU across CEDI, Bodega 1 and Bodega 2.
func BalanceRecord(item models.StockRecord, policy models.Policy) models.BalancedRecord {
	out := models.BalancedRecord{StockRecord: item}

	// Minimum deficits, measured on the original quantities.
	out.Store1Deficit = positive(policy.MinStore - item.Store1Qty)
	out.Store2Deficit = positive(policy.MinStore - item.Store2Qty)
	out.WarehouseDeficit = positive(policy.MinWarehouse - item.WarehouseQty)

	// CEDI replenishes Bodega minimums, Bodega 1 first.
	warehouse := item.WarehouseQty

	toS1Min := min(out.Store1Deficit, warehouse)
	warehouse -= toS1Min
	s1Remaining := out.Store1Deficit - toS1Min

	toS2Min := min(out.Store2Deficit, warehouse)
	warehouse -= toS2Min
	s2Remaining := out.Store2Deficit - toS2Min

	// Lateral transfers. Each surplus is taken from the other store's original
	// quantity, so both directions are evaluated independently.
	if s2Remaining > 0 {
		if surplus := positive(item.Store1Qty - policy.MinStore); surplus > 0 {
			out.Store1ToStore2 = min(surplus, s2Remaining)
			s2Remaining -= out.Store1ToStore2
		}
	}
	if s1Remaining > 0 {
		if surplus := positive(item.Store2Qty - policy.MinStore); surplus > 0 {
			out.Store2ToStore1 = min(surplus, s1Remaining)
			s1Remaining -= out.Store2ToStore1
		}
	}

	var toS1Fill, toS2Fill int
	if policy.Mode != models.ModeMinOnly {
		s1Level := item.Store1Qty + toS1Min - out.Store1ToStore2 + out.Store2ToStore1
		s2Level := item.Store2Qty + toS2Min - out.Store2ToStore1 + out.Store1ToStore2

		toS1Fill = min(positive(policy.MaxStore-s1Level), warehouse)
		warehouse -= toS1Fill

		toS2Fill = min(positive(policy.MaxStore-s2Level), warehouse)
		warehouse -= toS2Fill
	}

	out.WarehouseToStore1 = toS1Min + toS1Fill
	out.WarehouseToStore2 = toS2Min + toS2Fill

	out.FinalWarehouse = warehouse
	out.FinalStore1 = item.Store1Qty + out.WarehouseToStore1 - out.Store1ToStore2 + out.Store2ToStore1
	out.FinalStore2 = item.Store2Qty + out.WarehouseToStore2 - out.Store2ToStore1 + out.Store1ToStore2

	if policy.Mode == models.ModeMinOnly {
		out.POQty = s1Remaining + s2Remaining + positive(policy.MinWarehouse-out.FinalWarehouse)
	} else {
		out.POQty = positive(policy.MaxStore-out.FinalStore1) +
			positive(policy.MaxStore-out.FinalStore2) +
			positive(policy.MaxWarehouse-out.FinalWarehouse)

		// Three months of sales as a coverage target for the whole network.
		out.POBySales = positive(item.Total3MonthSales - item.TotalStock())
	}

	out.Status = status(out)
	return out
}

// Summarize folds balanced records into batch totals.
func Summarize(records []models.BalancedRecord) models.BatchSummary {
	var summary models.BatchSummary
	for _, record := range records {
		summary = accumulate(summary, record)
	}
	summary.TotalStock = summary.TotalWarehouseStock + summary.TotalStore1Stock + summary.TotalStore2Stock
	summary.BelowMinRate = belowMinRate(summary.ItemsBelowMin, summary.TotalItems)
	return summary
}

// CriticalItems returns up to n records with the largest purchase orders.
// Ties keep their input order.
func CriticalItems(records []models.BalancedRecord, n int) []models.BalancedRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.BalancedRecord) int {
		return b.POQty - a.POQty
	})

	return sorted[:min(n, len(sorted))]
}

func accumulate(summary models.BatchSummary, record models.BalancedRecord) models.BatchSummary {
	summary.TotalItems++
	summary.TotalWarehouseStock += record.WarehouseQty
	summary.TotalStore1Stock += record.Store1Qty
	summary.TotalStore2Stock += record.Store2Qty
	summary.TotalPOQty += record.POQty
	summary.TotalPOBySales += record.POBySales
	if record.BelowMinimum() {
		summary.ItemsBelowMin++
	}
	return summary
}

func belowMinRate(below, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(below)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}

func status(record models.BalancedRecord) models.Status {
	switch {
	case record.POQty > 0 || record.POBySales > 0:
		return models.StatusCritical
	case record.HasTransfers():
		return models.StatusReview
	default:
		return models.StatusOK
	}
}

func positive(v int) int {
	return max(0, v)
}
