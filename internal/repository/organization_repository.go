package repository

import (
	"context"

	"carbon-insights/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var organizationColumns = []string{"id", "name", "website", "owner_ref", "created_at"}

type OrganizationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewOrganizationRepository(db *pgxpool.Pool, logger *zap.Logger) *OrganizationRepository {
	return &OrganizationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts org and fills in its generated id.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := squirrel.Insert("organizations").
		Columns("name", "website", "owner_ref", "created_at").
		Values(org.Name, org.Website, org.OwnerRef, org.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&org.ID)
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	query := squirrel.Select(organizationColumns...).
		From("organizations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var org models.Organization
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&org.ID, &org.Name, &org.Website, &org.OwnerRef, &org.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &org, nil
}

// FindByName returns the oldest organization with the exact name.
func (r *OrganizationRepository) FindByName(ctx context.Context, name string) (*models.Organization, error) {
	query := squirrel.Select(organizationColumns...).
		From("organizations").
		Where(squirrel.Eq{"name": name}).
		OrderBy("id ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var org models.Organization
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&org.ID, &org.Name, &org.Website, &org.OwnerRef, &org.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return &org, nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]*models.Organization, error) {
	query := squirrel.Select(organizationColumns...).
		From("organizations").
		OrderBy("name ASC", "id ASC").
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

	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Website, &org.OwnerRef, &org.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, &org)
	}

	return orgs, rows.Err()
}

// Delete removes the organization; records and recommendations cascade.
func (r *OrganizationRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("organizations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *OrganizationRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
