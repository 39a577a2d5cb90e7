package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

func sample() []models.BalancedRecord {
	return []models.BalancedRecord{
		{
			StockRecord:       models.StockRecord{ID: "SKU-1", Description: `Tornillo 1/2" galvanizado`, WarehouseQty: 30, Store1Qty: 5, Store2Qty: 12},
			Store1Deficit:     5,
			WarehouseToStore1: 30,
			POQty:             153,
			Status:            models.StatusCritical,
		},
		{
			StockRecord: models.StockRecord{ID: "SKU-2", Description: "Lapiz, HB", Store1Qty: 10, Store2Qty: 10},
			Status:      models.StatusOK,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Equal(t, `SKU-1,"Tornillo 1/2"" galvanizado",30,5,12,5,0,0,30,0,0,0,153,0,Critical`, lines[1])
	assert.Equal(t, `SKU-2,"Lapiz, HB",0,10,10,0,0,0,0,0,0,0,0,0,OK`, lines[2])

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `Tornillo 1/2" galvanizado`, parsed[1][1])
}

func TestWriteCSV_EmptyPlan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestSheetRows(t *testing.T) {
	t.Parallel()

	rows := SheetRows(sample())
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], len(Header))
	assert.Equal(t, "SKU-1", rows[1][0])
	assert.Equal(t, 153, rows[1][12])
	assert.Equal(t, "Critical", rows[1][14])
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "inventory_plan_minBodega10_minCedi50.csv", FileName(models.Policy{MinStore: 10, MinWarehouse: 50}))
}
