package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXReader_ReadFirstSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"#", "Item", "Descripcion"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, "SKU-1", "Cuaderno"}))
	_, err := f.NewSheet("Otra")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Otra", "A1", "ignored"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := NewXLSXReader(nil).ReadFirstSheet(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "SKU-1", "Cuaderno"}, rows[1])
}

func TestXLSXReader_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewXLSXReader(nil).ReadFirstSheet(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
