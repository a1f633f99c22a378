package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"
	"github.com/panupunn/lease-manager/internal/store"

	"go.uber.org/zap"
)

const maxLeaseMonths = 240

// LeaseService implements the core lease-contract flows: add, search,
// bulk replace, cancel toggling and export. Each write is load-all →
// compute → replace-all with no locking; two near-simultaneous writers can
// race and the later replace wins. That is an accepted gap of the
// replace-whole-sheet storage model.
type LeaseService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewLeaseService(st store.Store, logger *zap.Logger) *LeaseService {
	return &LeaseService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// AddLeaseRequest carries the add-form fields. Dates travel as ISO strings.
type AddLeaseRequest struct {
	ShopName    string `json:"shop_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	StartDate   string `json:"start_date"`
	Months      int    `json:"months"`
}

// AnnotatedLease is a record plus its computed display attributes.
type AnnotatedLease struct {
	domain.LeaseRecord
	DaysLeft *int   `json:"days_left"`
	Status   string `json:"status"`
}

// SearchRequest combines free-text query and expiry window filters.
type SearchRequest struct {
	Query  string
	Window ExpiryWindow
}

// SearchResult is the filtered, annotated subset plus the aggregate alert
// banner computed over the full unfiltered table.
type SearchResult struct {
	Items []AnnotatedLease `json:"items"`
	Total int              `json:"total"`
	Alert AlertSummary     `json:"alert"`
}

// Add validates the form fields, allocates id and contract number against
// a fresh table snapshot, derives the end date and persists the appended
// table. Identifiers are always recomputed here, never trusted from a
// preview.
func (s *LeaseService) Add(ctx context.Context, req AddLeaseRequest) (*domain.LeaseRecord, error) {
	shopName := strings.TrimSpace(req.ShopName)
	contactName := strings.TrimSpace(req.ContactName)
	phone := strings.TrimSpace(req.Phone)

	if shopName == "" {
		return nil, &domain.ValidationError{Field: "shop_name", Reason: "required"}
	}
	if contactName == "" {
		return nil, &domain.ValidationError{Field: "contact_name", Reason: "required"}
	}
	if phone == "" {
		return nil, &domain.ValidationError{Field: "phone", Reason: "required"}
	}
	startDate := domain.ParseDate(req.StartDate)
	if startDate == nil {
		return nil, &domain.ValidationError{Field: "start_date", Reason: "required, format " + domain.DateLayout}
	}
	if req.Months < 1 || req.Months > maxLeaseMonths {
		return nil, &domain.ValidationError{Field: "months", Reason: fmt.Sprintf("must be between 1 and %d", maxLeaseMonths)}
	}

	records, err := s.loadFresh(ctx)
	if err != nil {
		return nil, err
	}

	endDate := domain.CalcEndDate(*startDate, req.Months)
	rec := domain.LeaseRecord{
		ID:          NextID(records),
		ContractNo:  NextContractNo(records, *startDate),
		ShopName:    shopName,
		ContactName: contactName,
		Phone:       phone,
		StartDate:   startDate,
		Months:      req.Months,
		EndDate:     &endDate,
	}

	if err := s.store.ReplaceAll(ctx, append(records, rec)); err != nil {
		return nil, fmt.Errorf("persist new lease: %w", err)
	}
	s.logger.Info("lease added",
		zap.Int("id", rec.ID),
		zap.String("contract_no", rec.ContractNo),
		zap.String("shop_name", rec.ShopName),
		zap.String("end_date", domain.FormatDate(rec.EndDate)),
	)
	return &rec, nil
}

// Search filters the table by query and expiry window and annotates each
// hit with days-left and status. The alert summary always reflects the
// whole table, not the filtered subset.
func (s *LeaseService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now()

	subset := FilterByQuery(records, req.Query)
	subset = FilterByExpiryWindow(subset, req.Window, today)

	return &SearchResult{
		Items: s.annotate(subset, today),
		Total: len(subset),
		Alert: SummarizeAlerts(records, today),
	}, nil
}

// ListAll returns the whole table annotated, cancelled contracts included.
func (s *LeaseService) ListAll(ctx context.Context) ([]AnnotatedLease, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotate(records, s.now()), nil
}

// PreviewContractNo computes the contract number the next add would get
// for the given start date. Purely informational; Add recomputes.
func (s *LeaseService) PreviewContractNo(ctx context.Context, startDate time.Time) (string, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	return NextContractNo(records, startDate), nil
}

// EditedRow is one row of the editable table. All cells arrive as text and
// are coerced the same way persisted cells are.
type EditedRow struct {
	ID          string `json:"id"`
	ContractNo  string `json:"contract_no"`
	ShopName    string `json:"shop_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	StartDate   string `json:"start_date"`
	Months      string `json:"months"`
	EndDate     string `json:"end_date"`
	Cancelled   string `json:"cancelled"`
}

// BulkEditError rejects a whole edited batch. replace-all is
// all-or-nothing, so row failures are never partially applied.
type BulkEditError struct {
	Problems []string
}

func (e *BulkEditError) Error() string {
	return "bulk edit rejected: " + strings.Join(e.Problems, "; ")
}

// BulkReplace validates and persists a fully edited table. The end date is
// recomputed only where it is empty and start date plus months are
// present; a populated end date is trusted as a manual override even when
// inconsistent with start date and months.
func (s *LeaseService) BulkReplace(ctx context.Context, rows []EditedRow) ([]domain.LeaseRecord, error) {
	records := make([]domain.LeaseRecord, 0, len(rows))
	var problems []string

	for i, row := range rows {
		rec := domain.RecordFromCells(func(name string) string {
			switch name {
			case "id":
				return row.ID
			case "contract_no":
				return row.ContractNo
			case "shop_name":
				return row.ShopName
			case "contact_name":
				return row.ContactName
			case "phone":
				return row.Phone
			case "start_date":
				return row.StartDate
			case "months":
				return row.Months
			case "end_date":
				return row.EndDate
			case "cancelled":
				return row.Cancelled
			}
			return ""
		})

		if rec.EndDate == nil && rec.StartDate != nil && rec.Months > 0 {
			end := domain.CalcEndDate(*rec.StartDate, rec.Months)
			rec.EndDate = &end
		}

		rowNo := i + 1
		if rec.ShopName == "" {
			problems = append(problems, fmt.Sprintf("row %d: shop_name required", rowNo))
		}
		if rec.ContactName == "" {
			problems = append(problems, fmt.Sprintf("row %d: contact_name required", rowNo))
		}
		if rec.Phone == "" {
			problems = append(problems, fmt.Sprintf("row %d: phone required", rowNo))
		}
		if rec.StartDate == nil {
			problems = append(problems, fmt.Sprintf("row %d: start_date required", rowNo))
		}
		if rec.Months <= 0 {
			problems = append(problems, fmt.Sprintf("row %d: months must be positive", rowNo))
		}
		records = append(records, rec)
	}

	if len(problems) > 0 {
		return nil, &BulkEditError{Problems: problems}
	}

	if err := s.store.ReplaceAll(ctx, records); err != nil {
		return nil, fmt.Errorf("persist edited table: %w", err)
	}
	s.logger.Info("lease table replaced", zap.Int("records", len(records)))
	return records, nil
}

// SetCancelled toggles the cancelled flag for the given ids and persists
// the table. Unknown ids reject the whole batch.
func (s *LeaseService) SetCancelled(ctx context.Context, changes map[int]bool) error {
	if len(changes) == 0 {
		return nil
	}

	records, err := s.loadFresh(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int]int, len(records))
	for i, r := range records {
		byID[r.ID] = i
	}
	for id, flag := range changes {
		i, ok := byID[id]
		if !ok {
			return &domain.ValidationError{Field: "id", Reason: fmt.Sprintf("unknown lease id %d", id)}
		}
		records[i].Cancelled = flag
	}

	if err := s.store.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("persist cancel changes: %w", err)
	}
	s.logger.Info("lease cancel flags updated", zap.Int("changes", len(changes)))
	return nil
}

// Export runs the search and serializes the result subset.
func (s *LeaseService) Export(ctx context.Context, req SearchRequest, format string) ([]byte, error) {
	result, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	subset := make([]domain.LeaseRecord, len(result.Items))
	for i, item := range result.Items {
		subset[i] = item.LeaseRecord
	}
	return Encode(subset, format)
}

func (s *LeaseService) annotate(records []domain.LeaseRecord, today time.Time) []AnnotatedLease {
	items := make([]AnnotatedLease, len(records))
	for i, rec := range records {
		item := AnnotatedLease{LeaseRecord: rec}
		if days, ok := domain.DaysUntil(rec.EndDate, today); ok {
			d := days
			item.DaysLeft = &d
			item.Status = domain.Classify(days, true, rec.Cancelled)
		} else {
			item.Status = domain.Classify(0, false, rec.Cancelled)
		}
		items[i] = item
	}
	return items
}

// loadFresh invalidates any read cache before loading, so write flows
// never build on a pre-write snapshot.
func (s *LeaseService) loadFresh(ctx context.Context) ([]domain.LeaseRecord, error) {
	if inv, ok := s.store.(store.Invalidator); ok {
		_ = inv.Invalidate(ctx)
	}
	return s.store.LoadAll(ctx)
}
