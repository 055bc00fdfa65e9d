package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"carbon-insights/internal/api/handlers"
	"carbon-insights/internal/dto"
	"carbon-insights/internal/events"
	"carbon-insights/internal/forecast"
	"carbon-insights/internal/models"
	"carbon-insights/internal/observability"
	"carbon-insights/internal/repository"
	"carbon-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memOrgs struct {
	mu   sync.Mutex
	orgs []*models.Organization
}

func (s *memOrgs) Create(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	org.ID = int64(len(s.orgs) + 1)
	s.orgs = append(s.orgs, org)
	return nil
}

func (s *memOrgs) GetByID(_ context.Context, id int64) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, org := range s.orgs {
		if org.ID == id {
			return org, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memOrgs) FindByName(_ context.Context, name string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, org := range s.orgs {
		if org.Name == name {
			return org, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memOrgs) List(_ context.Context) ([]*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Organization(nil), s.orgs...), nil
}

type memEmissions struct {
	mu      sync.Mutex
	records []*models.EmissionRecord
}

func (s *memEmissions) CreateBatch(_ context.Context, records []*models.EmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *memEmissions) ListByOrganization(_ context.Context, organizationID int64) ([]*models.EmissionRecord, error) {
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

func (s *memEmissions) LatestDate(ctx context.Context, organizationID int64) (time.Time, bool, error) {
	recs, _ := s.ListByOrganization(ctx, organizationID)
	if len(recs) == 0 {
		return time.Time{}, false, nil
	}
	return recs[len(recs)-1].Date, true, nil
}

type memRecs struct {
	mu   sync.Mutex
	recs []*models.Recommendation
}

func (s *memRecs) Create(_ context.Context, rec *models.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = int64(len(s.recs) + 1)
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memRecs) ListByOrganization(_ context.Context, organizationID int64) ([]*models.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Recommendation
	for _, rec := range s.recs {
		if rec.OrganizationID == organizationID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memRecs) MarkApplied(_ context.Context, id int64) (*models.Recommendation, error) {
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

type staticResolver map[int64]forecast.Model

func (r staticResolver) Resolve(_ context.Context, organizationID int64) (forecast.Model, error) {
	if m, ok := r[organizationID]; ok {
		return m, nil
	}
	return nil, forecast.ErrModelNotFound
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type fixture struct {
	app       *fiber.App
	emissions *memEmissions
}

func newFixture(t *testing.T, dbErr error) *fixture {
	t.Helper()
	logger := zap.NewNop()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	metrics := observability.NewMetricsForTesting()

	orgs := &memOrgs{}
	emissions := &memEmissions{}
	recs := &memRecs{}
	require.NoError(t, orgs.Create(context.Background(), &models.Organization{Name: "Green Steel"}))

	resolver := staticResolver{1: forecast.NewLinearModel(forecast.CalendarV1, []float64{0, 0, 0, 0}, 5)}

	orgService := service.NewOrganizationService(orgs, clock, logger)
	ingestService := service.NewIngestService(orgs, emissions, events.NopPublisher{}, metrics, clock, logger)
	aggService := service.NewAggregationService(orgs, emissions, logger)
	forecastService := service.NewForecastService(orgs, emissions, resolver, 120, metrics, logger)
	recService := service.NewRecommendationService(orgs, emissions, recs, clock, logger)

	app := SetupRouter(Handlers{
		Organization:   handlers.NewOrganizationHandler(orgService, logger),
		Emission:       handlers.NewEmissionHandler(orgService, ingestService, aggService, forecastService, 6, logger),
		Recommendation: handlers.NewRecommendationHandler(recService, logger),
		Health:         handlers.NewHealthHandler(pinger{err: dbErr}, logger),
	}, RouterConfig{BodyLimit: 1 << 20}, logger)

	return &fixture{app: app, emissions: emissions}
}

func (f *fixture) seed(t *testing.T, csv string) {
	t.Helper()
	records, _, err := service.ParseEmissionsCSV([]byte(csv), 1, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.emissions.CreateBatch(context.Background(), records))
}

func (f *fixture) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func multipartCSV(t *testing.T, target, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "emissions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHomeListsOrganizations(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Green Steel")
	assert.Contains(t, body, `href="/org/1/"`)
}

func TestUploadForm(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/upload/1/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `enctype="multipart/form-data"`)

	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/upload/42/", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/upload/abc/", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadCountsValidRows(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartCSV(t, "/upload/1/", "date,value,scope,activity\n2024-01-01,1.5,scope2,grid\nbad,2,scope1,\n2024-02-01,oops,scope1,\n2024-02-03,3,,\n")
	resp, body := f.do(t, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Imported 2 records for Green Steel", body)
	assert.Len(t, f.emissions.records, 2)
}

func TestUploadWithoutFile(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/upload/1/", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := f.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Please choose a CSV file")
}

func TestImportEmissionsReport(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/emissions/1/import", strings.NewReader("date,value\n2024-01-01,1\n2024-01-02,-1\n"))
	req.Header.Set("Content-Type", "text/csv")
	resp, body := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var report dto.ImportReportResponse
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, "negative_value", report.Rejections[0].Reason)
	assert.Equal(t, 3, report.Rejections[0].Line)
}

func TestImportEmissionsInvalidEncoding(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartCSV(t, "/api/emissions/1/import", "date,value\n2024-01-01,\xfe\n")
	resp, body := f.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "UTF-8")
}

func TestImportEmissionsQuotedText(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartCSV(t, "/api/emissions/1/import", "date,value,scope,activity\n2024-01-05,5,scope1,John's \"big\" truck\n")
	resp, body := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var report dto.ImportReportResponse
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.Rejected)
}

func TestImportQuotedHeaderIsNotServerError(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/emissions/1/import", strings.NewReader("da\"te,value\n2024-01-05,5\n"))
	req.Header.Set("Content-Type", "text/csv")
	resp, body := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"imported":0`)

	resp, body = f.do(t, multipartCSV(t, "/upload/1/", "da\"te,value\n2024-01-05,5\n"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Imported 0 records for Green Steel", body)
	assert.Empty(t, f.emissions.records)
}

func TestMonthlyEmissionsJSON(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "date,value\n2024-01-03,1.5\n2024-01-28,2.5\n2024-03-01,1\n")

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/api/emissions/1/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[{"month":"2024-01-01","value":4},{"month":"2024-03-01","value":1}]}`, body)
}

func TestMonthlyEmissionsUnknownOrganization(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/api/emissions/7/", "/api/emissions/x/", "/api/emissions_csv/7/", "/api/emissions_forecast/7/"} {
		resp, body := f.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.JSONEq(t, `{"error":"Organization not found"}`, body, path)
	}
}

func TestExportMonthlyCSV(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "date,value\n2024-01-03,1.5\n2024-01-28,2.5\n2024-03-01,1\n")

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/api/emissions_csv/1/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Green_Steel_monthly_emissions.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "month,value\n2024-01-01,4.0\n2024-03-01,1.0\n", body)
}

func TestForecast(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "date,value\n2024-11-15,1\n")

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/api/emissions_forecast/1/?periods=2", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[{"month":"2024-12-01","value":5},{"month":"2025-01-01","value":5}]}`, body)

	var series dto.SeriesResponse
	_, body = f.do(t, httptest.NewRequest(http.MethodGet, "/api/emissions_forecast/1/", nil))
	require.NoError(t, json.Unmarshal([]byte(body), &series))
	assert.Len(t, series.Data, 6)

	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/api/emissions_forecast/1/?periods=abc", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = f.do(t, httptest.NewRequest(http.MethodGet, "/api/emissions_forecast/1/?periods=0", nil))
	assert.JSONEq(t, `{"data":[]}`, body)
}

func TestDashboardShowsRecommendations(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "date,value,scope\n2024-01-01,10,scope2\n2024-01-02,1,scope1\n")

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/org/1/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Switch to renewable electricity")
	assert.Contains(t, body, "2.5")
	assert.Contains(t, body, "Energy efficiency audit")

	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/org/9/", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSuggestionsAPI(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "date,value,scope\n2024-01-01,0.5,scope2\n")

	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/api/organizations/1/suggestions", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var got dto.SuggestionsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got.Suggestions, 2)
	assert.Equal(t, "Switch to renewable electricity", got.Suggestions[0].Title)
	assert.Equal(t, 0.12, got.Suggestions[0].EstimatedReduction)

	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/api/organizations/7/suggestions", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecommendationAPI(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/organizations/1/recommendations",
		strings.NewReader(`{"title":"Heat pumps","detail":"Replace gas boilers","estimated_reduction":4.2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := f.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var created dto.RecommendationResponse
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.False(t, created.Applied)

	resp, body = f.do(t, httptest.NewRequest(http.MethodPost, "/api/recommendations/1/apply", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"applied":true`)

	_, body = f.do(t, httptest.NewRequest(http.MethodGet, "/api/organizations/1/recommendations", nil))
	var list dto.RecommendationsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Suggestions, 1)
	require.Len(t, list.Saved, 1)
	assert.Equal(t, "Heat pumps", list.Saved[0].Title)

	resp, _ = f.do(t, httptest.NewRequest(http.MethodPost, "/api/recommendations/99/apply", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrganizationAPI(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/organizations", strings.NewReader(`{"name":"Globex"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := f.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/organizations", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body := f.do(t, httptest.NewRequest(http.MethodGet, "/api/organizations", nil))
	var orgs []dto.OrganizationResponse
	require.NoError(t, json.Unmarshal([]byte(body), &orgs))
	assert.Len(t, orgs, 2)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	resp, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newFixture(t, errors.New("connection refused"))
	resp, _ = down.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
