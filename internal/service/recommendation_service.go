package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"carbon-insights/internal/models"
	"carbon-insights/internal/repository"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	renewableShare = 0.25
	auditReduction = 0.1
	maxTitleLength = 200
)

// Suggestion is a heuristic recommendation computed per request, never stored.
type Suggestion struct {
	Title              string
	Detail             string
	EstimatedReduction float64
}

// SuggestReductions derives suggestions from per-scope totals. When scope2
// carries the largest total, switching to renewable electricity is suggested
// first. An efficiency audit is always suggested last.
func SuggestReductions(totals map[models.Scope]float64) []Suggestion {
	var suggestions []Suggestion

	if top, total, ok := dominantScope(totals); ok && top == models.Scope2 {
		suggestions = append(suggestions, Suggestion{
			Title:              "Switch to renewable electricity",
			Detail:             "Adopt renewable sources to reduce Scope 2 emissions.",
			EstimatedReduction: round2(total * renewableShare),
		})
	}

	return append(suggestions, Suggestion{
		Title:              "Energy efficiency audit",
		Detail:             "Audit energy usage to identify savings.",
		EstimatedReduction: auditReduction,
	})
}

// dominantScope returns the scope with the largest total. Ties resolve to the
// lower-numbered scope.
func dominantScope(totals map[models.Scope]float64) (models.Scope, float64, bool) {
	var (
		top   models.Scope
		best  float64
		found bool
	)
	for _, scope := range models.Scopes {
		total, ok := totals[scope]
		if !ok {
			continue
		}
		if !found || total > best {
			top, best, found = scope, total, true
		}
	}
	return top, best, found
}

// round2 rounds to cents, halves to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Dashboard is everything the organization page shows.
type Dashboard struct {
	Organization *models.Organization
	Suggestions  []Suggestion
	Saved        []*models.Recommendation
	Monthly      []MonthlyPoint
}

type CreateRecommendationInput struct {
	Title              string
	Detail             string
	EstimatedReduction float64
}

type RecommendationService struct {
	orgs      OrganizationStore
	emissions EmissionStore
	recs      RecommendationStore
	clock     clockwork.Clock
	logger    *zap.Logger
}

func NewRecommendationService(
	orgs OrganizationStore,
	emissions EmissionStore,
	recs RecommendationStore,
	clock clockwork.Clock,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		orgs:      orgs,
		emissions: emissions,
		recs:      recs,
		clock:     clock,
		logger:    logger,
	}
}

// Dashboard combines heuristic suggestions with persisted recommendations.
func (s *RecommendationService) Dashboard(ctx context.Context, organizationID int64) (*Dashboard, error) {
	org, err := getOrganization(ctx, s.orgs, organizationID)
	if err != nil {
		return nil, err
	}

	records, err := s.emissions.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emission records: %w", err)
	}

	saved, err := s.recs.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	return &Dashboard{
		Organization: org,
		Suggestions:  SuggestReductions(ScopeTotals(records)),
		Saved:        saved,
		Monthly:      MonthlyTotals(records),
	}, nil
}

// Suggest returns the heuristic suggestions for an organization.
func (s *RecommendationService) Suggest(ctx context.Context, organizationID int64) ([]Suggestion, error) {
	if _, err := getOrganization(ctx, s.orgs, organizationID); err != nil {
		return nil, err
	}

	records, err := s.emissions.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emission records: %w", err)
	}
	return SuggestReductions(ScopeTotals(records)), nil
}

func (s *RecommendationService) List(ctx context.Context, organizationID int64) ([]*models.Recommendation, error) {
	if _, err := getOrganization(ctx, s.orgs, organizationID); err != nil {
		return nil, err
	}
	return s.recs.ListByOrganization(ctx, organizationID)
}

func (s *RecommendationService) Create(ctx context.Context, organizationID int64, input CreateRecommendationInput) (*models.Recommendation, error) {
	if _, err := getOrganization(ctx, s.orgs, organizationID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRecommendation)
	case utf8.RuneCountInString(title) > maxTitleLength:
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidRecommendation, maxTitleLength)
	case math.IsNaN(input.EstimatedReduction) || math.IsInf(input.EstimatedReduction, 0):
		return nil, fmt.Errorf("%w: estimated reduction must be a finite number", ErrInvalidRecommendation)
	}

	rec := &models.Recommendation{
		OrganizationID:     organizationID,
		Title:              title,
		Detail:             strings.TrimSpace(input.Detail),
		EstimatedReduction: input.EstimatedReduction,
		CreatedAt:          s.clock.Now().UTC(),
	}
	if err := s.recs.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}

	s.logger.Info("Recommendation saved",
		zap.Int64("organization_id", organizationID),
		zap.Int64("recommendation_id", rec.ID),
	)
	return rec, nil
}

// Apply marks a persisted recommendation as applied. Applying twice is a no-op.
func (s *RecommendationService) Apply(ctx context.Context, id int64) (*models.Recommendation, error) {
	rec, err := s.recs.MarkApplied(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecommendationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply recommendation: %w", err)
	}
	return rec, nil
}
