package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newExcelStore(t *testing.T) *ExcelStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "leases.xlsx")
	return NewExcelStore(path, "leases", zap.NewNop())
}

func dptr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestExcelStore_CreatesEmptySheetOnFirstLoad(t *testing.T) {
	st := newExcelStore(t)

	records, err := st.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)

	// The file now exists with just the header row.
	f, err := excelize.OpenFile(st.path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("leases")
	require.NoError(t, err)
	require.Equal(t, [][]string{domain.Columns}, rows)
}

func TestExcelStore_RoundTrip(t *testing.T) {
	st := newExcelStore(t)
	ctx := context.Background()

	in := []domain.LeaseRecord{
		{
			ID:          1,
			ContractNo:  "202403-001",
			ShopName:    "Coffee Corner",
			ContactName: "Anan",
			Phone:       "0812345678",
			StartDate:   dptr(2024, time.March, 15),
			Months:      12,
			EndDate:     dptr(2025, time.March, 15),
		},
		{
			ID:          2,
			ContractNo:  "202403-002",
			ShopName:    "Noodle House",
			ContactName: "Beam",
			Phone:       "0899999999",
			StartDate:   dptr(2024, time.March, 1),
			Months:      1,
			EndDate:     dptr(2024, time.April, 1),
			Cancelled:   true,
		},
	}
	require.NoError(t, st.ReplaceAll(ctx, in))

	out, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	// LoadAll orders by end date ascending.
	require.Equal(t, 2, out[0].ID)
	require.Equal(t, in[0], out[1])
	require.True(t, out[0].Cancelled)
}

func TestExcelStore_ReplaceAllOverwritesWholeTable(t *testing.T) {
	st := newExcelStore(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceAll(ctx, []domain.LeaseRecord{
		{ID: 1, ShopName: "Old", EndDate: dptr(2024, time.May, 1)},
		{ID: 2, ShopName: "Old2", EndDate: dptr(2024, time.May, 2)},
	}))
	require.NoError(t, st.ReplaceAll(ctx, []domain.LeaseRecord{
		{ID: 3, ShopName: "New", EndDate: dptr(2024, time.June, 1)},
	}))

	out, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "New", out[0].ShopName)
}

func TestExcelStore_ToleratesMalformedRows(t *testing.T) {
	st := newExcelStore(t)
	ctx := context.Background()

	// Write a sheet with junk cells directly, bypassing the store.
	require.NoError(t, os.MkdirAll(filepath.Dir(st.path), 0o755))
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "leases"))
	rows := [][]string{
		domain.Columns,
		{"1", "202403-001", "Good Shop", "Anan", "081", "2024-03-01", "12", "2025-03-01", "false"},
		{"not-a-number", "", "Broken Shop", "", "", "garbage", "x", "also-garbage", "maybe"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("leases", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(st.path))
	require.NoError(t, f.Close())

	out, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// The good row sorts first; the broken row coerces and sorts last.
	require.Equal(t, "Good Shop", out[0].ShopName)
	broken := out[1]
	require.Equal(t, 0, broken.ID)
	require.Nil(t, broken.StartDate)
	require.Nil(t, broken.EndDate)
	require.Equal(t, 0, broken.Months)
	require.False(t, broken.Cancelled)
}

func TestExcelStore_BackfillsMissingColumns(t *testing.T) {
	st := newExcelStore(t)
	ctx := context.Background()

	// A sheet from the pre-enhanced layout: no contract_no, no cancelled.
	require.NoError(t, os.MkdirAll(filepath.Dir(st.path), 0o755))
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "leases"))
	rows := [][]string{
		{"id", "shop_name", "contact_name", "phone", "start_date", "months", "end_date"},
		{"5", "Legacy Shop", "Chai", "021", "2024-01-01", "12", "2025-01-01"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("leases", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(st.path))
	require.NoError(t, f.Close())

	out, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 5, out[0].ID)
	require.Equal(t, "", out[0].ContractNo)
	require.False(t, out[0].Cancelled)
}
