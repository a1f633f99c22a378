package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/panupunn/lease-manager/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const exportSheetName = "filtered"

// utf8BOM keeps common spreadsheet importers from mangling non-ASCII text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encode serializes an ordered record subset in the declared column order.
// No filtering happens here; callers pass an already-filtered subset.
func Encode(records []domain.LeaseRecord, format string) ([]byte, error) {
	switch format {
	case FormatXLSX, "spreadsheet":
		return encodeXLSX(records)
	case FormatCSV:
		return encodeCSV(records)
	default:
		return nil, &domain.ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported format %q", format)}
	}
}

func encodeCSV(records []domain.LeaseRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(domain.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeXLSX(records []domain.LeaseRecord) ([]byte, error) {
	f := excelize.NewFile()
	// Note: no deferred Close, WriteToBuffer needs the file open.

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range domain.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	for i, rec := range records {
		for col, value := range rec.Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}
