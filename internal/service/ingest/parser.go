package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/domain/models"
)

// Inventory workbook layout (0-based column indexes).
const (
	colID                = 1  // B
	colDescription       = 2  // C
	colSales2MonthsAgo   = 9  // J
	colSales1MonthAgo    = 10 // K
	colSalesCurrentMonth = 11 // L
	colTotal3MonthSales  = 12 // M
	colWarehouse         = 13 // N: CEDI
	colStore1            = 14 // O: Bodega 1
	colStore2            = 15 // P: Bodega 2

	unknownDescription = "Unknown Item"
)

// Parser turns raw spreadsheet rows into stock records.
type Parser struct {
	logger *zap.Logger
}

// NewParser builds a row parser.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// ParseRows maps Google Sheets style rows. The first row is the header.
func (p *Parser) ParseRows(rows [][]interface{}) []models.StockRecord {
	if len(rows) <= 1 {
		return []models.StockRecord{}
	}

	records := make([]models.StockRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, ok := parseRow(row)
		if !ok {
			p.logger.Debug("skip row without item id", zap.Int("row", i+2))
			continue
		}
		records = append(records, record)
	}

	p.logger.Debug("rows parsed", zap.Int("rows", len(rows)-1), zap.Int("records", len(records)))
	return records
}

// ParseStringRows maps rows read from an uploaded workbook.
func (p *Parser) ParseStringRows(rows [][]string) []models.StockRecord {
	converted := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		converted[i] = cells
	}
	return p.ParseRows(converted)
}

func parseRow(row []interface{}) (models.StockRecord, bool) {
	id := cellString(row, colID)
	if id == "" {
		return models.StockRecord{}, false
	}

	description := cellString(row, colDescription)
	if description == "" {
		description = unknownDescription
	}

	return models.StockRecord{
		ID:                id,
		Description:       description,
		Sales2MonthsAgo:   cellQuantity(row, colSales2MonthsAgo),
		Sales1MonthAgo:    cellQuantity(row, colSales1MonthAgo),
		SalesCurrentMonth: cellQuantity(row, colSalesCurrentMonth),
		Total3MonthSales:  cellQuantity(row, colTotal3MonthSales),
		WarehouseQty:      cellQuantity(row, colWarehouse),
		Store1Qty:         cellQuantity(row, colStore1),
		Store2Qty:         cellQuantity(row, colStore2),
	}, true
}

// cellString renders a cell as text. Sheets returns numeric cells as float64,
// so numbers are printed in plain decimal form, never with an exponent.
func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}

	switch v := row[idx].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// cellQuantity coerces a cell to a non-negative unit count. Blank, unparseable
// and negative cells count as zero; decimals truncate.
func cellQuantity(row []interface{}, idx int) int {
	if idx >= len(row) {
		return 0
	}

	switch v := row[idx].(type) {
	case nil:
		return 0
	case int:
		return max(0, v)
	case int64:
		return clampFloat(float64(v))
	case float64:
		return clampFloat(v)
	default:
		return parseQuantity(fmt.Sprint(v))
	}
}

func parseQuantity(value string) int {
	str := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if str == "" {
		return 0
	}

	if n, err := strconv.Atoi(str); err == nil {
		return max(0, n)
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0
	}
	return clampFloat(f)
}

func clampFloat(f float64) int {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Trunc(f))
}
