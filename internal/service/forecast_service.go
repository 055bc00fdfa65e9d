package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"carbon-insights/internal/forecast"
	"carbon-insights/internal/observability"

	"go.uber.org/zap"
)

// Forecast outcomes, also used as metric labels.
const (
	OutcomeOK        = "ok"
	OutcomeNoModel   = "no_model"
	OutcomeNoData    = "no_data"
	OutcomeLoadError = "load_error"
)

type ForecastService struct {
	orgs       OrganizationStore
	emissions  EmissionStore
	resolver   forecast.ModelResolver
	maxPeriods int
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewForecastService(
	orgs OrganizationStore,
	emissions EmissionStore,
	resolver forecast.ModelResolver,
	maxPeriods int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ForecastService {
	return &ForecastService{
		orgs:       orgs,
		emissions:  emissions,
		resolver:   resolver,
		maxPeriods: maxPeriods,
		metrics:    metrics,
		logger:     logger,
	}
}

// Forecast predicts the next periods monthly totals after the organization's
// latest record. A missing or unusable model and an empty history both yield
// an empty result rather than an error. Predictions are never negative.
func (s *ForecastService) Forecast(ctx context.Context, organizationID int64, periods int) ([]MonthlyPoint, error) {
	if _, err := getOrganization(ctx, s.orgs, organizationID); err != nil {
		return nil, err
	}
	if periods <= 0 {
		return []MonthlyPoint{}, nil
	}
	if s.maxPeriods > 0 && periods > s.maxPeriods {
		periods = s.maxPeriods
	}

	log := s.logger.With(zap.Int64("organization_id", organizationID))

	model, err := s.resolver.Resolve(ctx, organizationID)
	if errors.Is(err, forecast.ErrModelNotFound) {
		s.observe(OutcomeNoModel)
		log.Debug("No forecast model for organization")
		return []MonthlyPoint{}, nil
	}
	if err != nil {
		s.observe(OutcomeLoadError)
		log.Warn("Failed to load forecast model", zap.Error(err))
		return []MonthlyPoint{}, nil
	}

	last, ok, err := s.emissions.LatestDate(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest record: %w", err)
	}
	if !ok {
		s.observe(OutcomeNoData)
		return []MonthlyPoint{}, nil
	}

	if schema := model.Schema(); !schema.Matches(forecast.CalendarV1.Columns) {
		s.observe(OutcomeLoadError)
		log.Warn("Forecast model uses an unsupported feature schema", zap.Stringer("schema", schema))
		return []MonthlyPoint{}, nil
	}

	rows := forecast.FutureCalendarFeatures(last, periods)
	preds, err := model.Predict(forecast.Matrix(rows))
	if err != nil || len(preds) != len(rows) {
		s.observe(OutcomeLoadError)
		log.Warn("Forecast model prediction failed", zap.Error(err), zap.Int("predictions", len(preds)))
		return []MonthlyPoint{}, nil
	}

	points := make([]MonthlyPoint, len(rows))
	for i, row := range rows {
		if math.IsInf(preds[i], 1) {
			s.observe(OutcomeLoadError)
			log.Warn("Forecast model produced an infinite prediction", zap.Time("month", row.Month))
			return []MonthlyPoint{}, nil
		}
		points[i] = MonthlyPoint{Month: row.Month, Value: clampNonNegative(preds[i])}
	}

	s.observe(OutcomeOK)
	return points, nil
}

// clampNonNegative maps negative and NaN predictions to zero.
func clampNonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}

func (s *ForecastService) observe(outcome string) {
	s.metrics.ForecastRequests.WithLabelValues(outcome).Inc()
}
