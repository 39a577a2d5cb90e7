package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

// Header is the fixed column order of every plan export.
var Header = []string{
	"Item ID", "Description", "UDS CEDI", "UDS B01", "UDS B06",
	"Faltante B01", "Faltante B06", "Faltante CEDI",
	"Trasl CEDI -> B01", "Trasl CEDI -> B06", "Trasl B01 -> B06", "Trasl B06 -> B01",
	"Sugerido Compra", "Sugerido Ventas", "Status",
}

// WriteCSV flattens the plan into CSV. Embedded quotes are doubled.
func WriteCSV(w io.Writer, records []models.BalancedRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(stringRow(record)); err != nil {
			return fmt.Errorf("write csv row %s: %w", record.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// SheetRows renders the plan as spreadsheet values, header first.
func SheetRows(records []models.BalancedRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records)+1)

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	rows = append(rows, header)

	for _, r := range records {
		rows = append(rows, []interface{}{
			r.ID, r.Description, r.WarehouseQty, r.Store1Qty, r.Store2Qty,
			r.Store1Deficit, r.Store2Deficit, r.WarehouseDeficit,
			r.WarehouseToStore1, r.WarehouseToStore2, r.Store1ToStore2, r.Store2ToStore1,
			r.POQty, r.POBySales, string(r.Status),
		})
	}
	return rows
}

// FileName names a CSV export after the minimums it was computed with.
func FileName(policy models.Policy) string {
	return fmt.Sprintf("inventory_plan_minBodega%d_minCedi%d.csv", policy.MinStore, policy.MinWarehouse)
}

func stringRow(r models.BalancedRecord) []string {
	ints := []int{
		r.WarehouseQty, r.Store1Qty, r.Store2Qty,
		r.Store1Deficit, r.Store2Deficit, r.WarehouseDeficit,
		r.WarehouseToStore1, r.WarehouseToStore2, r.Store1ToStore2, r.Store2ToStore1,
		r.POQty, r.POBySales,
	}

	row := make([]string, 0, len(Header))
	row = append(row, r.ID, r.Description)
	for _, v := range ints {
		row = append(row, strconv.Itoa(v))
	}
	return append(row, string(r.Status))
}
