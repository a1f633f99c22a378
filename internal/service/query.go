package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"
)

// ExpiryWindow filters records by days-until-expiry and/or an end-date
// range. Supplied criteria compose by conjunction.
type ExpiryWindow struct {
	WithinDays *int
	Start      *time.Time
	End        *time.Time
}

func (w ExpiryWindow) empty() bool {
	return w.WithinDays == nil && w.Start == nil && w.End == nil
}

// FilterByQuery keeps records whose contract number, shop name, contact
// name or phone contains q (case-insensitive substring). A blank query
// returns the input unchanged. Cancelled records stay visible to free-text
// search.
func FilterByQuery(records []domain.LeaseRecord, q string) []domain.LeaseRecord {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return records
	}
	out := make([]domain.LeaseRecord, 0, len(records))
	for _, r := range records {
		if containsFold(r.ContractNo, q) ||
			containsFold(r.ShopName, q) ||
			containsFold(r.ContactName, q) ||
			containsFold(r.Phone, q) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}

// FilterByExpiryWindow applies the window against days-left computed from
// today. The within-days criterion keeps only active records with
// 0 <= days_left <= within: cancelled contracts are excluded from expiry
// alerts even though free-text search still shows them.
func FilterByExpiryWindow(records []domain.LeaseRecord, w ExpiryWindow, today time.Time) []domain.LeaseRecord {
	if w.empty() {
		return records
	}
	out := make([]domain.LeaseRecord, 0, len(records))
	for _, r := range records {
		days, known := domain.DaysUntil(r.EndDate, today)
		if w.WithinDays != nil {
			if r.Cancelled || !known || days < 0 || days > *w.WithinDays {
				continue
			}
		}
		if w.Start != nil && (r.EndDate == nil || r.EndDate.Before(*w.Start)) {
			continue
		}
		if w.End != nil && (r.EndDate == nil || r.EndDate.After(*w.End)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Alert severity levels for the aggregate banner.
const (
	AlertLevelError   = "error"   // something expires within 15 days
	AlertLevelWarning = "warning" // something expires within 30 days
	AlertLevelOK      = "ok"
)

// AlertSummary is the aggregate banner over the full unfiltered table.
type AlertSummary struct {
	Within15 int    `json:"within_15"`
	Within30 int    `json:"within_30"`
	Level    string `json:"level"`
	Message  string `json:"message"`
}

// SummarizeAlerts counts active records expiring within 15 and 30 days.
// The 15-day breach outranks the 30-day breach.
func SummarizeAlerts(records []domain.LeaseRecord, today time.Time) AlertSummary {
	near := domain.NearExpiryDays
	warn := domain.AdvanceWarningDays
	s := AlertSummary{
		Within15: len(FilterByExpiryWindow(records, ExpiryWindow{WithinDays: &near}, today)),
		Within30: len(FilterByExpiryWindow(records, ExpiryWindow{WithinDays: &warn}, today)),
	}
	switch {
	case s.Within15 > 0:
		s.Level = AlertLevelError
		s.Message = fmt.Sprintf("%d contracts expire within %d days", s.Within15, near)
	case s.Within30 > 0:
		s.Level = AlertLevelWarning
		s.Message = fmt.Sprintf("%d contracts expire within %d days", s.Within30, warn)
	default:
		s.Level = AlertLevelOK
		s.Message = fmt.Sprintf("no contracts expiring within %d days", warn)
	}
	return s
}
