package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"carbon-insights/internal/models"
	"carbon-insights/internal/repository"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const maxNameLength = 200

type OrganizationService struct {
	orgs   OrganizationStore
	clock  clockwork.Clock
	logger *zap.Logger
}

func NewOrganizationService(orgs OrganizationStore, clock clockwork.Clock, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{
		orgs:   orgs,
		clock:  clock,
		logger: logger,
	}
}

type CreateOrganizationInput struct {
	Name     string
	Website  string
	OwnerRef string
}

func (s *OrganizationService) List(ctx context.Context) ([]*models.Organization, error) {
	return s.orgs.List(ctx)
}

func (s *OrganizationService) Get(ctx context.Context, id int64) (*models.Organization, error) {
	return getOrganization(ctx, s.orgs, id)
}

func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*models.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidOrganization)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name exceeds %d characters", ErrInvalidOrganization, maxNameLength)
	}

	org := &models.Organization{
		Name:      name,
		CreatedAt: s.clock.Now().UTC(),
	}
	if website := strings.TrimSpace(input.Website); website != "" {
		u, err := url.Parse(website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: website must be an http(s) URL", ErrInvalidOrganization)
		}
		org.Website = &website
	}
	if owner := strings.TrimSpace(input.OwnerRef); owner != "" {
		org.OwnerRef = &owner
	}

	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	s.logger.Info("Organization created", zap.Int64("organization_id", org.ID), zap.String("name", org.Name))
	return org, nil
}

// FindOrCreate returns the organization named name, creating it if needed.
func (s *OrganizationService) FindOrCreate(ctx context.Context, input CreateOrganizationInput) (*models.Organization, bool, error) {
	org, err := s.orgs.FindByName(ctx, strings.TrimSpace(input.Name))
	if err == nil {
		return org, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	org, err = s.Create(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return org, true, nil
}

func getOrganization(ctx context.Context, orgs OrganizationStore, id int64) (*models.Organization, error) {
	org, err := orgs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}
