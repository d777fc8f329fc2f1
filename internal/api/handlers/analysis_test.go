package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/report"
)

type fakeRepo struct {
	mu        sync.Mutex
	analyses  map[uuid.UUID]*domain.Analysis
	reports   map[uuid.UUID][]byte
	completed chan uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		analyses:  make(map[uuid.UUID]*domain.Analysis),
		reports:   make(map[uuid.UUID][]byte),
		completed: make(chan uuid.UUID, 4),
	}
}

func (f *fakeRepo) Create(ctx context.Context, a *domain.Analysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	f.analyses[a.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.analyses[id]
	if !ok {
		return nil, domain.NotFoundError("analysis", id)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Analysis
	for _, a := range f.analyses {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.analyses[id]
	if !ok {
		return domain.NotFoundError("analysis", id)
	}
	a.Status = status
	return nil
}

func (f *fakeRepo) Complete(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus, profileCount, failureCount int, reportURI string) error {
	f.mu.Lock()
	a, ok := f.analyses[id]
	if !ok {
		f.mu.Unlock()
		return domain.NotFoundError("analysis", id)
	}
	a.Status = status
	a.ProfileCount = profileCount
	a.FailureCount = failureCount
	a.ReportURI = reportURI
	f.mu.Unlock()

	f.completed <- id
	return nil
}

func (f *fakeRepo) SaveReport(ctx context.Context, id uuid.UUID, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[id] = payload
	return nil
}

func (f *fakeRepo) GetReport(ctx context.Context, id uuid.UUID) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.reports[id]
	if !ok {
		return nil, domain.NotFoundError("report", id)
	}
	return payload, nil
}

type fakeAnalyzer struct {
	report *report.LandscapeReport
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, title string, urls []string) (*report.LandscapeReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	rep := *f.report
	rep.Title = title
	return &rep, nil
}

func okReport() *report.LandscapeReport {
	return &report.LandscapeReport{
		ID:           uuid.New(),
		Status:       report.StatusOK,
		ProfileCount: 2,
		Profiles: []*domain.BrandProfile{
			{CompanyName: "Acme"},
			{CompanyName: "Zenith"},
		},
	}
}

func waitCompleted(t *testing.T, repo *fakeRepo) uuid.UUID {
	t.Helper()
	select {
	case id := <-repo.completed:
		return id
	case <-time.After(5 * time.Second):
		t.Fatal("analysis did not complete")
		return uuid.Nil
	}
}

func TestAnalysisCreate(t *testing.T) {
	repo := newFakeRepo()
	h := NewAnalysisHandler(repo, &fakeAnalyzer{report: okReport()}, nil, time.Minute, zap.NewNop())

	body, _ := json.Marshal(CreateAnalysisRequest{
		Title: "Q3 landscape",
		URLs:  []string{"https://acme.example/", "https://zenith.example/"},
	})
	req := httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	id := waitCompleted(t, repo)
	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisStatusCompleted, a.Status)
	assert.Equal(t, 2, a.ProfileCount)

	_, err = repo.GetReport(context.Background(), id)
	assert.NoError(t, err, "report should be saved")
}

func TestAnalysisCreate_EmptyURLs(t *testing.T) {
	repo := newFakeRepo()
	h := NewAnalysisHandler(repo, &fakeAnalyzer{report: okReport()}, nil, time.Minute, zap.NewNop())

	body, _ := json.Marshal(CreateAnalysisRequest{Title: "empty", URLs: nil})
	req := httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.analyses, "invalid analysis should not be persisted")
}

func TestAnalysisCreate_NoData(t *testing.T) {
	repo := newFakeRepo()
	noData := &report.LandscapeReport{ID: uuid.New(), Status: report.StatusNoData}
	h := NewAnalysisHandler(repo, &fakeAnalyzer{report: noData}, nil, time.Minute, zap.NewNop())

	body, _ := json.Marshal(CreateAnalysisRequest{Title: "dead", URLs: []string{"https://down.example/"}})
	req := httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	id := waitCompleted(t, repo)
	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisStatusNoData, a.Status)
}

func TestAnalysisGet_NotFound(t *testing.T) {
	repo := newFakeRepo()
	h := NewAnalysisHandler(repo, &fakeAnalyzer{report: okReport()}, nil, time.Minute, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/v1/analyses/{id}", h.Get)

	req := httptest.NewRequest("GET", "/api/v1/analyses/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisGet_InvalidID(t *testing.T) {
	repo := newFakeRepo()
	h := NewAnalysisHandler(repo, &fakeAnalyzer{report: okReport()}, nil, time.Minute, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/v1/analyses/{id}", h.Get)

	req := httptest.NewRequest("GET", "/api/v1/analyses/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisGetReport(t *testing.T) {
	repo := newFakeRepo()
	h := NewAnalysisHandler(repo, &fakeAnalyzer{report: okReport()}, nil, time.Minute, zap.NewNop())

	id := uuid.New()
	payload := []byte(`{"status":"ok","profile_count":2}`)
	require.NoError(t, repo.SaveReport(context.Background(), id, payload))

	r := chi.NewRouter()
	r.Get("/api/v1/analyses/{id}/report", h.GetReport)

	req := httptest.NewRequest("GET", "/api/v1/analyses/"+id.String()+"/report", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(payload), rec.Body.String(), "stored payload should be served verbatim")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAnalysisCreate_PipelineFailure(t *testing.T) {
	repo := newFakeRepo()
	h := NewAnalysisHandler(repo, &fakeAnalyzer{err: domain.ErrEmptyInput()}, nil, time.Minute, zap.NewNop())

	body, _ := json.Marshal(CreateAnalysisRequest{Title: "boom", URLs: []string{"https://acme.example/"}})
	req := httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	id := waitCompleted(t, repo)
	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisStatusFailed, a.Status)
}
