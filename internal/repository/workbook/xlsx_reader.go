package workbook

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrEmptyWorkbook is returned when the uploaded file has no worksheet.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Reader extracts raw rows from uploaded spreadsheets.
type Reader interface {
	ReadFirstSheet(r io.Reader) ([][]string, error)
}

// XLSXReader reads .xlsx workbooks with excelize.
type XLSXReader struct {
	logger *zap.Logger
}

// NewXLSXReader builds a workbook reader.
func NewXLSXReader(logger *zap.Logger) *XLSXReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXReader{logger: logger}
}

// ReadFirstSheet returns every row of the first worksheet, header included.
func (x *XLSXReader) ReadFirstSheet(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			x.logger.Debug("close workbook", zap.Error(err))
		}
	}()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	x.logger.Debug("workbook read", zap.String("sheet", sheets[0]), zap.Int("rows", len(rows)))
	return rows, nil
}
