package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"carbon-insights/internal/models"

	"go.uber.org/zap"
)

// MonthlyPoint is a total (or prediction) for the month starting at Month.
type MonthlyPoint struct {
	Month time.Time
	Value float64
}

// MonthlyTotals groups records by the first day of their month and sums the
// values, oldest month first.
func MonthlyTotals(records []*models.EmissionRecord) []MonthlyPoint {
	var points []MonthlyPoint
	index := make(map[time.Time]int)
	for _, rec := range records {
		month := time.Date(rec.Date.Year(), rec.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		i, ok := index[month]
		if !ok {
			i = len(points)
			index[month] = i
			points = append(points, MonthlyPoint{Month: month})
		}
		points[i].Value += rec.Value
	}

	sortPoints(points)
	return points
}

// ScopeTotals sums values per scope. Scopes without records are absent.
func ScopeTotals(records []*models.EmissionRecord) map[models.Scope]float64 {
	totals := make(map[models.Scope]float64)
	for _, rec := range records {
		totals[rec.Scope] += rec.Value
	}
	return totals
}

// WriteMonthlyCSV writes a month,value header and one row per point.
func WriteMonthlyCSV(w io.Writer, points []MonthlyPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "value"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.Month.Format("2006-01-02"), formatDecimal(p.Value)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatDecimal prints the shortest exact decimal, always with a fraction
// part ("12.0", "3.25").
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ExportFilename is the download name for an organization's monthly CSV.
func ExportFilename(org *models.Organization) string {
	return strings.ReplaceAll(org.Name, " ", "_") + "_monthly_emissions.csv"
}

type AggregationService struct {
	orgs      OrganizationStore
	emissions EmissionStore
	logger    *zap.Logger
}

func NewAggregationService(orgs OrganizationStore, emissions EmissionStore, logger *zap.Logger) *AggregationService {
	return &AggregationService{
		orgs:      orgs,
		emissions: emissions,
		logger:    logger,
	}
}

// MonthlySeries returns the organization and its monthly totals.
func (s *AggregationService) MonthlySeries(ctx context.Context, organizationID int64) (*models.Organization, []MonthlyPoint, error) {
	org, err := getOrganization(ctx, s.orgs, organizationID)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.emissions.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list emission records: %w", err)
	}

	return org, MonthlyTotals(records), nil
}

func sortPoints(points []MonthlyPoint) {
	slices.SortStableFunc(points, func(a, b MonthlyPoint) int {
		return a.Month.Compare(b.Month)
	})
}
