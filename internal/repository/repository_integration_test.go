//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"carbon-insights/internal/models"
	"carbon-insights/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type RepositorySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool

	orgs      *OrganizationRepository
	emissions *EmissionRepository
	recs      *RecommendationRepository
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("carbon_insights"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)
	s.Require().NoError(postgres.RunMigrations(s.pool, zap.NewNop()))

	logger := zap.NewNop()
	s.orgs = NewOrganizationRepository(s.pool, logger)
	s.emissions = NewEmissionRepository(s.pool, logger)
	s.recs = NewRecommendationRepository(s.pool, logger)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(),
		"TRUNCATE recommendations, emission_records, organizations RESTART IDENTITY CASCADE")
	s.Require().NoError(err)
}

func (s *RepositorySuite) createOrg(name string) *models.Organization {
	org := &models.Organization{Name: name, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.orgs.Create(context.Background(), org))
	return org
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TestOrganizationLifecycle() {
	ctx := context.Background()
	website := "https://acme.example"
	org := &models.Organization{Name: "Acme", Website: &website, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.orgs.Create(ctx, org))
	s.NotZero(org.ID)

	got, err := s.orgs.GetByID(ctx, org.ID)
	s.Require().NoError(err)
	s.Equal("Acme", got.Name)
	s.Require().NotNil(got.Website)
	s.Equal(website, *got.Website)
	s.Nil(got.OwnerRef)

	byName, err := s.orgs.FindByName(ctx, "Acme")
	s.Require().NoError(err)
	s.Equal(org.ID, byName.ID)

	_, err = s.orgs.FindByName(ctx, "Nobody")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.orgs.GetByID(ctx, org.ID+100)
	s.ErrorIs(err, ErrNotFound)

	s.NoError(s.orgs.Ping(ctx))
}

func (s *RepositorySuite) TestListOrdersByName() {
	s.createOrg("Zeta")
	s.createOrg("Alpha")

	orgs, err := s.orgs.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(orgs, 2)
	s.Equal("Alpha", orgs[0].Name)
}

func (s *RepositorySuite) TestEmissionRecords() {
	ctx := context.Background()
	org := s.createOrg("Acme")
	other := s.createOrg("Other")
	now := time.Now().UTC()

	records := []*models.EmissionRecord{
		{OrganizationID: org.ID, Date: day(2024, 3, 1), Scope: models.Scope2, Value: 3, Activity: "grid", CreatedAt: now},
		{OrganizationID: org.ID, Date: day(2024, 1, 15), Scope: models.Scope1, Value: 1, CreatedAt: now},
		{OrganizationID: other.ID, Date: day(2025, 1, 1), Scope: models.Scope1, Value: 9, CreatedAt: now},
	}
	s.Require().NoError(s.emissions.CreateBatch(ctx, records))

	list, err := s.emissions.ListByOrganization(ctx, org.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(day(2024, 1, 15), list[0].Date.UTC())
	s.Equal(models.Scope2, list[1].Scope)
	s.Equal("grid", list[1].Activity)

	latest, ok, err := s.emissions.LatestDate(ctx, org.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(day(2024, 3, 1), latest.UTC())

	empty := s.createOrg("Empty")
	_, ok, err = s.emissions.LatestDate(ctx, empty.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepositorySuite) TestCreateBatchChunks() {
	ctx := context.Background()
	org := s.createOrg("Bulk")

	records := make([]*models.EmissionRecord, insertChunkSize*2+5)
	for i := range records {
		records[i] = &models.EmissionRecord{
			OrganizationID: org.ID,
			Date:           day(2024, 1, 1).AddDate(0, 0, i%365),
			Scope:          models.Scope1,
			Value:          1,
			CreatedAt:      time.Now().UTC(),
		}
	}
	s.Require().NoError(s.emissions.CreateBatch(ctx, records))

	list, err := s.emissions.ListByOrganization(ctx, org.ID)
	s.Require().NoError(err)
	s.Len(list, len(records))
}

func (s *RepositorySuite) TestDeleteCascades() {
	ctx := context.Background()
	org := s.createOrg("Doomed")
	s.Require().NoError(s.emissions.CreateBatch(ctx, []*models.EmissionRecord{
		{OrganizationID: org.ID, Date: day(2024, 1, 1), Scope: models.Scope1, Value: 1, CreatedAt: time.Now().UTC()},
	}))
	s.Require().NoError(s.recs.Create(ctx, &models.Recommendation{OrganizationID: org.ID, Title: "t", CreatedAt: time.Now().UTC()}))

	s.Require().NoError(s.orgs.Delete(ctx, org.ID))
	s.ErrorIs(s.orgs.Delete(ctx, org.ID), ErrNotFound)

	list, err := s.emissions.ListByOrganization(ctx, org.ID)
	s.Require().NoError(err)
	s.Empty(list)

	recs, err := s.recs.ListByOrganization(ctx, org.ID)
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *RepositorySuite) TestRecommendations() {
	ctx := context.Background()
	org := s.createOrg("Acme")
	base := time.Now().UTC().Truncate(time.Second)

	first := &models.Recommendation{OrganizationID: org.ID, Title: "First", EstimatedReduction: 1.5, CreatedAt: base}
	second := &models.Recommendation{OrganizationID: org.ID, Title: "Second", CreatedAt: base.Add(time.Minute)}
	s.Require().NoError(s.recs.Create(ctx, first))
	s.Require().NoError(s.recs.Create(ctx, second))

	list, err := s.recs.ListByOrganization(ctx, org.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Second", list[0].Title)

	applied, err := s.recs.MarkApplied(ctx, first.ID)
	s.Require().NoError(err)
	s.True(applied.Applied)
	s.Equal(1.5, applied.EstimatedReduction)

	_, err = s.recs.MarkApplied(ctx, 9999)
	s.ErrorIs(err, ErrNotFound)
}
