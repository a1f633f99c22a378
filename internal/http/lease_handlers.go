package httpapi

import (
	"fmt"
	"net/http"

	"github.com/panupunn/lease-manager/internal/domain"
	"github.com/panupunn/lease-manager/internal/service"

	"go.uber.org/zap"
)

// LeaseHandler exposes the lease core over JSON. It owns no business
// logic; every decision lives in the service.
type LeaseHandler struct {
	svc    *service.LeaseService
	logger *zap.Logger
}

func NewLeaseHandler(svc *service.LeaseService, logger *zap.Logger) *LeaseHandler {
	return &LeaseHandler{svc: svc, logger: logger}
}

// leaseItem is the wire form of an annotated record; dates travel as ISO
// strings so spreadsheet-minded clients never see RFC3339 timestamps.
type leaseItem struct {
	ID          int    `json:"id"`
	ContractNo  string `json:"contract_no"`
	ShopName    string `json:"shop_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	StartDate   string `json:"start_date"`
	Months      int    `json:"months"`
	EndDate     string `json:"end_date"`
	Cancelled   bool   `json:"cancelled"`
	DaysLeft    *int   `json:"days_left"`
	Status      string `json:"status"`
}

func toLeaseItem(a service.AnnotatedLease) leaseItem {
	return leaseItem{
		ID:          a.ID,
		ContractNo:  a.ContractNo,
		ShopName:    a.ShopName,
		ContactName: a.ContactName,
		Phone:       a.Phone,
		StartDate:   domain.FormatDate(a.StartDate),
		Months:      a.Months,
		EndDate:     domain.FormatDate(a.EndDate),
		Cancelled:   a.Cancelled,
		DaysLeft:    a.DaysLeft,
		Status:      a.Status,
	}
}

func toLeaseItems(items []service.AnnotatedLease) []leaseItem {
	out := make([]leaseItem, len(items))
	for i, it := range items {
		out[i] = toLeaseItem(it)
	}
	return out
}

// GET /lease/api/v1/leases
func (h *LeaseHandler) ListLeases(w http.ResponseWriter, req *http.Request) {
	items, err := h.svc.ListAll(req.Context())
	if err != nil {
		h.logger.Error("list leases failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": toLeaseItems(items),
		"total": len(items),
	}))
}

// POST /lease/api/v1/leases
func (h *LeaseHandler) AddLease(w http.ResponseWriter, req *http.Request) {
	var body service.AddLeaseRequest
	if err := readBodyJSON(req, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	rec, err := h.svc.Add(req.Context(), body)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"id":          rec.ID,
		"contract_no": rec.ContractNo,
		"end_date":    domain.FormatDate(rec.EndDate),
	}))
}

// GET /lease/api/v1/leases/search?q=&within_days=&start=&end=
func (h *LeaseHandler) SearchLeases(w http.ResponseWriter, req *http.Request) {
	searchReq, err := parseSearchRequest(req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	result, err := h.svc.Search(req.Context(), searchReq)
	if err != nil {
		h.logger.Error("search leases failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": toLeaseItems(result.Items),
		"total": result.Total,
		"alert": result.Alert,
	}))
}

// PUT /lease/api/v1/leases
func (h *LeaseHandler) BulkReplace(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Rows []service.EditedRow `json:"rows"`
	}
	if err := readBodyJSON(req, 8<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	records, err := h.svc.BulkReplace(req.Context(), body.Rows)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"total": len(records)}))
}

// POST /lease/api/v1/leases/cancel
func (h *LeaseHandler) CancelLeases(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Changes []struct {
			ID        int  `json:"id"`
			Cancelled bool `json:"cancelled"`
		} `json:"changes"`
	}
	if err := readBodyJSON(req, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	changes := make(map[int]bool, len(body.Changes))
	for _, c := range body.Changes {
		changes[c.ID] = c.Cancelled
	}
	if err := h.svc.SetCancelled(req.Context(), changes); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"updated": len(changes)}))
}

// GET /lease/api/v1/leases/export?format=csv&q=...
func (h *LeaseHandler) ExportLeases(w http.ResponseWriter, req *http.Request) {
	searchReq, err := parseSearchRequest(req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	format := req.URL.Query().Get("format")
	if format == "" {
		format = service.FormatXLSX
	}

	data, err := h.svc.Export(req.Context(), searchReq, format)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	switch format {
	case service.FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="leases_filtered.csv"`)
	default:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="leases_filtered.xlsx"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /lease/api/v1/leases/contract-no/preview?start_date=2024-03-15
func (h *LeaseHandler) PreviewContractNo(w http.ResponseWriter, req *http.Request) {
	start := domain.ParseDate(req.URL.Query().Get("start_date"))
	if start == nil {
		writeJSON(w, http.StatusOK, Fail("start_date is required, format "+domain.DateLayout))
		return
	}
	contractNo, err := h.svc.PreviewContractNo(req.Context(), *start)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"contract_no": contractNo}))
}

func parseSearchRequest(req *http.Request) (service.SearchRequest, error) {
	q := req.URL.Query()
	out := service.SearchRequest{Query: q.Get("q")}

	if raw := q.Get("within_days"); raw != "" {
		within := parseIntParam(raw, -1)
		if within < 0 {
			return out, &domain.ValidationError{Field: "within_days", Reason: "must be a non-negative integer"}
		}
		out.Window.WithinDays = &within
	}
	if raw := q.Get("start"); raw != "" {
		start := domain.ParseDate(raw)
		if start == nil {
			return out, &domain.ValidationError{Field: "start", Reason: "format " + domain.DateLayout}
		}
		out.Window.Start = start
	}
	if raw := q.Get("end"); raw != "" {
		end := domain.ParseDate(raw)
		if end == nil {
			return out, &domain.ValidationError{Field: "end", Reason: "format " + domain.DateLayout}
		}
		out.Window.End = end
	}
	return out, nil
}
