package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"carbon-insights/internal/events"
	"carbon-insights/internal/forecast"
	"carbon-insights/internal/models"
	"carbon-insights/internal/repository"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeOrgStore struct {
	mu     sync.Mutex
	orgs   map[int64]*models.Organization
	nextID int64
}

func newFakeOrgStore(orgs ...*models.Organization) *fakeOrgStore {
	s := &fakeOrgStore{orgs: map[int64]*models.Organization{}}
	for _, o := range orgs {
		s.orgs[o.ID] = o
		s.nextID = max(s.nextID, o.ID)
	}
	return s
}

func (s *fakeOrgStore) Create(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	org.ID = s.nextID
	s.orgs[org.ID] = org
	return nil
}

func (s *fakeOrgStore) GetByID(_ context.Context, id int64) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return org, nil
}

func (s *fakeOrgStore) FindByName(_ context.Context, name string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *models.Organization
	for _, org := range s.orgs {
		if org.Name == name && (found == nil || org.ID < found.ID) {
			found = org
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (s *fakeOrgStore) List(_ context.Context) ([]*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Organization, 0, len(s.orgs))
	for _, org := range s.orgs {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeEmissionStore struct {
	mu      sync.Mutex
	records []*models.EmissionRecord
	err     error
}

func (s *fakeEmissionStore) CreateBatch(_ context.Context, records []*models.EmissionRecord) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		rec.ID = int64(len(s.records) + 1)
		s.records = append(s.records, rec)
	}
	return nil
}

func (s *fakeEmissionStore) ListByOrganization(_ context.Context, organizationID int64) ([]*models.EmissionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.EmissionRecord
	for _, rec := range s.records {
		if rec.OrganizationID == organizationID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeEmissionStore) LatestDate(ctx context.Context, organizationID int64) (time.Time, bool, error) {
	recs, err := s.ListByOrganization(ctx, organizationID)
	if err != nil || len(recs) == 0 {
		return time.Time{}, false, err
	}
	return recs[len(recs)-1].Date, true, nil
}

type fakeRecStore struct {
	mu   sync.Mutex
	recs []*models.Recommendation
}

func (s *fakeRecStore) Create(_ context.Context, rec *models.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = int64(len(s.recs) + 1)
	s.recs = append(s.recs, rec)
	return nil
}

func (s *fakeRecStore) ListByOrganization(_ context.Context, organizationID int64) ([]*models.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Recommendation
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].OrganizationID == organizationID {
			out = append(out, s.recs[i])
		}
	}
	return out, nil
}

func (s *fakeRecStore) MarkApplied(_ context.Context, id int64) (*models.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recs {
		if rec.ID == id {
			rec.Applied = true
			return rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeResolver struct {
	models map[int64]forecast.Model
	err    error
}

func (r *fakeResolver) Resolve(_ context.Context, organizationID int64) (forecast.Model, error) {
	if r.err != nil {
		return nil, r.err
	}
	m, ok := r.models[organizationID]
	if !ok {
		return nil, forecast.ErrModelNotFound
	}
	return m, nil
}

type recordingPublisher struct {
	events []events.EmissionsImported
	err    error
}

func (p *recordingPublisher) PublishImported(_ context.Context, event events.EmissionsImported) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var errStore = errors.New("store unavailable")

func record(orgID int64, date string, scope models.Scope, value float64) *models.EmissionRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &models.EmissionRecord{OrganizationID: orgID, Date: d, Scope: scope, Value: value}
}
