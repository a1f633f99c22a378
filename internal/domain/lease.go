package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the on-sheet and on-wire date format (ISO-8601 date).
const DateLayout = "2006-01-02"

// Columns is the persisted column order of the lease sheet. Every backend
// writes exactly these columns with a single header row; readers backfill
// missing columns with zero values.
var Columns = []string{
	"id",
	"contract_no",
	"shop_name",
	"contact_name",
	"phone",
	"start_date",
	"months",
	"end_date",
	"cancelled",
}

// LeaseRecord is one shop-rental contract entry.
type LeaseRecord struct {
	// Running numeric id, unique, never reused.
	ID int `json:"id"`

	// ContractNo is the human-readable number "YYYYMM-XXX", sequenced per
	// calendar month of the start date.
	ContractNo string `json:"contract_no"`

	ShopName    string `json:"shop_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`

	StartDate *time.Time `json:"start_date"`
	Months    int        `json:"months"`

	// EndDate is derived from StartDate+Months unless a bulk edit supplies
	// an explicit value (override wins over recomputation).
	EndDate *time.Time `json:"end_date"`

	// Cancelled is a soft-delete flag; the record stays stored and
	// searchable but is excluded from expiry alerts.
	Cancelled bool `json:"cancelled"`
}

// ParseDate parses an ISO date string. Returns nil for blank or
// unparseable input instead of an error; malformed persisted cells must
// never abort a whole-table load.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &t
	}
	// Tolerate full timestamps written by other spreadsheet tools.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}

// FormatDate renders a date as ISO-8601, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseCancelled maps a persisted cell to the cancelled flag. The original
// sheets accumulated several truthy spellings; everything else is false.
func ParseCancelled(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t", "cancel", "cancelled":
		return true
	}
	return false
}

// Row renders the record as sheet cells in Columns order.
func (r LeaseRecord) Row() []string {
	id := ""
	if r.ID != 0 {
		id = strconv.Itoa(r.ID)
	}
	months := ""
	if r.Months != 0 {
		months = strconv.Itoa(r.Months)
	}
	return []string{
		id,
		r.ContractNo,
		r.ShopName,
		r.ContactName,
		r.Phone,
		FormatDate(r.StartDate),
		months,
		FormatDate(r.EndDate),
		strconv.FormatBool(r.Cancelled),
	}
}

// RecordFromCells builds a record from a sheet row keyed by header name.
// Coercion is deliberately lossy: non-numeric ids become 0, unparseable
// dates become nil, unknown boolean tokens become false. Missing columns
// read as empty cells.
func RecordFromCells(cell func(name string) string) LeaseRecord {
	return LeaseRecord{
		ID:          atoiOrZero(cell("id")),
		ContractNo:  strings.TrimSpace(cell("contract_no")),
		ShopName:    strings.TrimSpace(cell("shop_name")),
		ContactName: strings.TrimSpace(cell("contact_name")),
		Phone:       strings.TrimSpace(cell("phone")),
		StartDate:   ParseDate(cell("start_date")),
		Months:      atoiOrZero(cell("months")),
		EndDate:     ParseDate(cell("end_date")),
		Cancelled:   ParseCancelled(cell("cancelled")),
	}
}

func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Spreadsheet tools like to turn integers into "12.0".
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if rest := strings.Trim(s[i+1:], "0"); rest == "" {
			s = s[:i]
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// SortRecords orders records by end date ascending with unknown end dates
// last, then by id ascending. This is the canonical LoadAll order.
func SortRecords(records []LeaseRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].EndDate, records[j].EndDate
		switch {
		case a == nil && b == nil:
			return records[i].ID < records[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return records[i].ID < records[j].ID
		default:
			return a.Before(*b)
		}
	})
}
