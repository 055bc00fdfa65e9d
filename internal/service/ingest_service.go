package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"carbon-insights/internal/events"
	"carbon-insights/internal/models"
	"carbon-insights/internal/observability"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const maxActivityLength = 200

// RejectReason classifies why a CSV row was not imported.
type RejectReason string

const (
	ReasonMissingDate   RejectReason = "missing_date"
	ReasonInvalidDate   RejectReason = "invalid_date"
	ReasonMissingValue  RejectReason = "missing_value"
	ReasonInvalidValue  RejectReason = "invalid_value"
	ReasonNegativeValue RejectReason = "negative_value"
	ReasonInvalidScope  RejectReason = "invalid_scope"
	ReasonMalformedRow  RejectReason = "malformed_row"
)

type RowRejection struct {
	Line   int
	Reason RejectReason
	Detail string
}

// ImportReport summarizes one upload. Imported counts stored records.
type ImportReport struct {
	OrganizationID int64
	Imported       int
	Rejected       []RowRejection
}

// RejectedByReason counts rejections per reason.
func (r *ImportReport) RejectedByReason() map[RejectReason]int {
	counts := make(map[RejectReason]int, len(r.Rejected))
	for _, rej := range r.Rejected {
		counts[rej.Reason]++
	}
	return counts
}

type IngestService struct {
	orgs      OrganizationStore
	emissions EmissionStore
	publisher events.Publisher
	metrics   *observability.Metrics
	clock     clockwork.Clock
	logger    *zap.Logger
}

func NewIngestService(
	orgs OrganizationStore,
	emissions EmissionStore,
	publisher events.Publisher,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		orgs:      orgs,
		emissions: emissions,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		logger:    logger,
	}
}

// Import parses an uploaded CSV and stores every valid row for the
// organization. Invalid rows are reported, not fatal.
func (s *IngestService) Import(ctx context.Context, organizationID int64, data []byte) (*ImportReport, error) {
	if _, err := getOrganization(ctx, s.orgs, organizationID); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	records, rejected, err := ParseEmissionsCSV(data, organizationID, now)
	if err != nil {
		return nil, err
	}

	if err := s.emissions.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store emission records: %w", err)
	}

	report := &ImportReport{
		OrganizationID: organizationID,
		Imported:       len(records),
		Rejected:       rejected,
	}

	s.metrics.RecordsImported.Add(float64(report.Imported))
	for reason, n := range report.RejectedByReason() {
		s.metrics.RowsRejected.WithLabelValues(string(reason)).Add(float64(n))
	}

	s.logger.Info("Emissions imported",
		zap.Int64("organization_id", organizationID),
		zap.Int("imported", report.Imported),
		zap.Int("rejected", len(report.Rejected)),
	)

	if len(records) > 0 {
		s.publishImported(ctx, report, records, now)
	}

	return report, nil
}

// publishImported never fails the import; the records are already stored.
func (s *IngestService) publishImported(ctx context.Context, report *ImportReport, records []*models.EmissionRecord, now time.Time) {
	first, last := records[0].Date, records[0].Date
	for _, rec := range records[1:] {
		if rec.Date.Before(first) {
			first = rec.Date
		}
		if rec.Date.After(last) {
			last = rec.Date
		}
	}

	event := events.EmissionsImported{
		ID:             uuid.NewString(),
		EventType:      events.TypeEmissionsImported,
		OrganizationID: report.OrganizationID,
		Imported:       report.Imported,
		Rejected:       len(report.Rejected),
		FirstDate:      first,
		LastDate:       last,
		OccurredAt:     now,
	}
	if err := s.publisher.PublishImported(ctx, event); err != nil {
		s.metrics.ImportEvents.WithLabelValues("error").Inc()
		s.logger.Warn("Failed to publish import event",
			zap.Int64("organization_id", report.OrganizationID),
			zap.Error(err),
		)
		return
	}
	s.metrics.ImportEvents.WithLabelValues("published").Inc()
}

// ParseEmissionsCSV turns a header-delimited CSV into emission records.
// Recognized headers are date (or timestamp), value, scope and activity in any
// order and case. A missing or empty scope means scope1.
func ParseEmissionsCSV(data []byte, organizationID int64, now time.Time) ([]*models.EmissionRecord, []RowRejection, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return nil, nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	// Free-text columns carry stray quotes like `John's "big" truck`.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return nil, nil, fmt.Errorf("%w: header: %s", ErrMalformedCSV, perr.Err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}

	var (
		records  []*models.EmissionRecord
		rejected []RowRejection
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.As(err, &perr) {
				rejected = append(rejected, RowRejection{Line: perr.StartLine, Reason: ReasonMalformedRow, Detail: perr.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec, rej := parseRow(field)
		if rej != nil {
			rej.Line = line
			rejected = append(rejected, *rej)
			continue
		}
		rec.OrganizationID = organizationID
		rec.CreatedAt = now
		records = append(records, rec)
	}

	return records, rejected, nil
}

func parseRow(field func(string) string) (*models.EmissionRecord, *RowRejection) {
	rawDate := field("date")
	if rawDate == "" {
		rawDate = field("timestamp")
	}
	if rawDate == "" {
		return nil, &RowRejection{Reason: ReasonMissingDate}
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, &RowRejection{Reason: ReasonInvalidDate, Detail: rawDate}
	}

	rawValue := field("value")
	if rawValue == "" {
		return nil, &RowRejection{Reason: ReasonMissingValue}
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &RowRejection{Reason: ReasonInvalidValue, Detail: rawValue}
	}
	if value < 0 {
		return nil, &RowRejection{Reason: ReasonNegativeValue, Detail: rawValue}
	}

	scope, ok := parseScope(field("scope"))
	if !ok {
		return nil, &RowRejection{Reason: ReasonInvalidScope, Detail: field("scope")}
	}

	return &models.EmissionRecord{
		Date:     date,
		Activity: truncateRunes(field("activity"), maxActivityLength),
		Scope:    scope,
		Value:    value,
	}, nil
}

// parseDate accepts the common date and timestamp layouts and keeps only the
// calendar day as written.
func parseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseScope accepts scope1, "Scope 1", "SCOPE1" and so on.
func parseScope(s string) (models.Scope, bool) {
	if s == "" {
		return models.Scope1, true
	}
	normalized := models.Scope(strings.ToLower(strings.ReplaceAll(s, " ", "")))
	for _, scope := range models.Scopes {
		if normalized == scope {
			return scope, true
		}
	}
	return "", false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
