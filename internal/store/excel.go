package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/panupunn/lease-manager/internal/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelStore persists the lease table as a single-sheet .xlsx file on local
// disk. The file is created with a bare header row on first use.
type ExcelStore struct {
	path   string
	sheet  string
	logger *zap.Logger
}

func NewExcelStore(path, sheet string, logger *zap.Logger) *ExcelStore {
	if sheet == "" {
		sheet = "leases"
	}
	return &ExcelStore{path: path, sheet: sheet, logger: logger}
}

func (s *ExcelStore) LoadAll(ctx context.Context) ([]domain.LeaseRecord, error) {
	if err := s.ensureFile(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		// Tolerate files written with a different sheet title.
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		headerMap[h] = i
	}

	records := make([]domain.LeaseRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		records = append(records, domain.RecordFromCells(func(name string) string {
			i, ok := headerMap[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}))
	}
	domain.SortRecords(records)
	return records, nil
}

func (s *ExcelStore) ReplaceAll(ctx context.Context, records []domain.LeaseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, s.sheet, records); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrUnavailable, s.path, err)
	}
	s.logger.Info("lease sheet saved",
		zap.String("path", s.path),
		zap.Int("records", len(records)),
	)
	return nil
}

func (s *ExcelStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", ErrUnavailable, s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
		}
	}
	if err := s.ReplaceAll(context.Background(), nil); err != nil {
		return err
	}
	s.logger.Info("created empty lease sheet", zap.String("path", s.path))
	return nil
}

// writeSheet writes the header row plus one row per record in the declared
// column order.
func writeSheet(f *excelize.File, sheet string, records []domain.LeaseRecord) error {
	for col, header := range domain.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
	}
	for i, rec := range records {
		for col, value := range rec.Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func rowIsEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
