package repository

import (
	"context"
	"strings"

	"carbon-insights/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var recommendationColumns = []string{
	"id", "organization_id", "title", "detail", "estimated_reduction", "applied", "created_at",
}

type RecommendationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecommendationRepository(db *pgxpool.Pool, logger *zap.Logger) *RecommendationRepository {
	return &RecommendationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	query := squirrel.Insert("recommendations").
		Columns("organization_id", "title", "detail", "estimated_reduction", "applied", "created_at").
		Values(rec.OrganizationID, rec.Title, rec.Detail, rec.EstimatedReduction, rec.Applied, rec.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&rec.ID)
}

// ListByOrganization returns persisted recommendations, newest first.
func (r *RecommendationRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]*models.Recommendation, error) {
	query := squirrel.Select(recommendationColumns...).
		From("recommendations").
		Where(squirrel.Eq{"organization_id": organizationID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recommendations []*models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		if err := rows.Scan(
			&rec.ID, &rec.OrganizationID, &rec.Title, &rec.Detail, &rec.EstimatedReduction, &rec.Applied, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		recommendations = append(recommendations, &rec)
	}

	return recommendations, rows.Err()
}

// MarkApplied flips the applied flag and returns the updated row.
func (r *RecommendationRepository) MarkApplied(ctx context.Context, id int64) (*models.Recommendation, error) {
	query := squirrel.Update("recommendations").
		Set("applied", true).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(recommendationColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var rec models.Recommendation
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.OrganizationID, &rec.Title, &rec.Detail, &rec.EstimatedReduction, &rec.Applied, &rec.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &rec, nil
}
