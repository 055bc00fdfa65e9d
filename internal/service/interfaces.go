package service

import (
	"context"
	"time"

	"carbon-insights/internal/models"
)

// OrganizationStore is implemented by repository.OrganizationRepository.
type OrganizationStore interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id int64) (*models.Organization, error)
	FindByName(ctx context.Context, name string) (*models.Organization, error)
	List(ctx context.Context) ([]*models.Organization, error)
}

// EmissionStore is implemented by repository.EmissionRepository.
type EmissionStore interface {
	CreateBatch(ctx context.Context, records []*models.EmissionRecord) error
	ListByOrganization(ctx context.Context, organizationID int64) ([]*models.EmissionRecord, error)
	LatestDate(ctx context.Context, organizationID int64) (time.Time, bool, error)
}

// RecommendationStore is implemented by repository.RecommendationRepository.
type RecommendationStore interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	ListByOrganization(ctx context.Context, organizationID int64) ([]*models.Recommendation, error)
	MarkApplied(ctx context.Context, id int64) (*models.Recommendation, error)
}
