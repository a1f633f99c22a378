package store

import (
	"context"
	"fmt"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// sheetEnvelope is the sheet service's response wrapper. status != 0 means
// the service rejected the request.
type sheetEnvelope struct {
	Status int        `json:"status"`
	Msg    string     `json:"msg"`
	Values [][]string `json:"values"`
}

type sheetReplaceRequest struct {
	Values [][]string `json:"values"`
}

// SheetsStore persists the lease table in a remote spreadsheet service.
// The worksheet is one flat table: header row first, then record rows.
// Saves clear and rewrite the whole worksheet; the service has no per-row
// update primitive.
type SheetsStore struct {
	httpClient *resty.Client
	worksheet  string
	logger     *zap.Logger
}

func NewSheetsStore(baseURL, token, worksheet string, logger *zap.Logger) *SheetsStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	if worksheet == "" {
		worksheet = "leases"
	}
	return &SheetsStore{
		httpClient: client,
		worksheet:  worksheet,
		logger:     logger,
	}
}

func (s *SheetsStore) LoadAll(ctx context.Context) ([]domain.LeaseRecord, error) {
	var envelope sheetEnvelope
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get(fmt.Sprintf("/api/v1/worksheets/%s/values", s.worksheet))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch worksheet %s: %v", ErrUnavailable, s.worksheet, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch worksheet %s: HTTP %d", ErrUnavailable, s.worksheet, resp.StatusCode())
	}
	if envelope.Status != 0 {
		return nil, fmt.Errorf("sheet service error: status=%d msg=%s", envelope.Status, envelope.Msg)
	}

	if len(envelope.Values) == 0 {
		return nil, nil
	}
	headerMap := make(map[string]int, len(envelope.Values[0]))
	for i, h := range envelope.Values[0] {
		headerMap[h] = i
	}

	records := make([]domain.LeaseRecord, 0, len(envelope.Values)-1)
	for _, row := range envelope.Values[1:] {
		if rowIsEmpty(row) {
			continue
		}
		row := row
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

func (s *SheetsStore) ReplaceAll(ctx context.Context, records []domain.LeaseRecord) error {
	values := make([][]string, 0, len(records)+1)
	values = append(values, domain.Columns)
	for _, rec := range records {
		values = append(values, rec.Row())
	}

	var envelope sheetEnvelope
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(sheetReplaceRequest{Values: values}).
		SetResult(&envelope).
		Put(fmt.Sprintf("/api/v1/worksheets/%s/values", s.worksheet))
	if err != nil {
		return fmt.Errorf("%w: replace worksheet %s: %v", ErrUnavailable, s.worksheet, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: replace worksheet %s: HTTP %d", ErrUnavailable, s.worksheet, resp.StatusCode())
	}
	if envelope.Status != 0 {
		return fmt.Errorf("sheet service error: status=%d msg=%s", envelope.Status, envelope.Msg)
	}

	s.logger.Info("worksheet replaced",
		zap.String("worksheet", s.worksheet),
		zap.Int("records", len(records)),
	)
	return nil
}
