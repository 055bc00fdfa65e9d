package repository

import (
	"context"
	"errors"
	"time"

	"carbon-insights/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// insertChunkSize keeps a single INSERT well below the 65535 bind parameter limit.
const insertChunkSize = 1000

type EmissionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEmissionRepository(db *pgxpool.Pool, logger *zap.Logger) *EmissionRepository {
	return &EmissionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts all records in one transaction.
func (r *EmissionRepository) CreateBatch(ctx context.Context, records []*models.EmissionRecord) error {
	if len(records) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for start := 0; start < len(records); start += insertChunkSize {
			end := min(start+insertChunkSize, len(records))

			builder := squirrel.Insert("emission_records").
				Columns("organization_id", "date", "activity", "scope", "value", "created_at").
				PlaceholderFormat(squirrel.Dollar)
			for _, rec := range records[start:end] {
				builder = builder.Values(rec.OrganizationID, rec.Date, rec.Activity, rec.Scope, rec.Value, rec.CreatedAt)
			}

			sql, args, err := builder.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}

		r.logger.Debug("Inserted emission records", zap.Int("count", len(records)))
		return nil
	})
}

// ListByOrganization returns every record of the organization, oldest first.
func (r *EmissionRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]*models.EmissionRecord, error) {
	query := squirrel.Select("id", "organization_id", "date", "activity", "scope", "value", "created_at").
		From("emission_records").
		Where(squirrel.Eq{"organization_id": organizationID}).
		OrderBy("date ASC", "id ASC").
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

	var records []*models.EmissionRecord
	for rows.Next() {
		var rec models.EmissionRecord
		if err := rows.Scan(
			&rec.ID, &rec.OrganizationID, &rec.Date, &rec.Activity, &rec.Scope, &rec.Value, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// LatestDate returns the most recent record date; ok is false when the
// organization has no records.
func (r *EmissionRepository) LatestDate(ctx context.Context, organizationID int64) (date time.Time, ok bool, err error) {
	query := squirrel.Select("date").
		From("emission_records").
		Where(squirrel.Eq{"organization_id": organizationID}).
		OrderBy("date DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return time.Time{}, false, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&date)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}
