package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/domain"
	"github.com/brandlens/brandlens/internal/report"
	"github.com/brandlens/brandlens/pkg/httputil"
)

// Analyzer runs the extraction pipeline for a set of URLs
type Analyzer interface {
	Analyze(ctx context.Context, title string, urls []string) (*report.LandscapeReport, error)
}

// ReportStore persists serialized reports to object storage
type ReportStore interface {
	UploadReport(ctx context.Context, reportID string, data []byte) (string, error)
}

// AnalysisHandler handles landscape analysis requests
type AnalysisHandler struct {
	repo     domain.AnalysisRepository
	pipeline Analyzer
	store    ReportStore
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler. The store is
// optional, without it reports live only in the database.
func NewAnalysisHandler(repo domain.AnalysisRepository, pipeline Analyzer, store ReportStore, timeout time.Duration, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		repo:     repo,
		pipeline: pipeline,
		store:    store,
		timeout:  timeout,
		logger:   logger,
	}
}

// CreateAnalysisRequest is the request body for creating an analysis
type CreateAnalysisRequest struct {
	Title string   `json:"title"`
	URLs  []string `json:"urls"`
}

// AnalysisResponse is the API representation of an analysis
type AnalysisResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	URLs         []string `json:"urls"`
	Status       string   `json:"status"`
	ProfileCount int      `json:"profile_count"`
	FailureCount int      `json:"failure_count"`
	ReportURI    string   `json:"report_uri,omitempty"`
	StartedAt    *string  `json:"started_at,omitempty"`
	CompletedAt  *string  `json:"completed_at,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toAnalysisResponse(a *domain.Analysis) AnalysisResponse {
	resp := AnalysisResponse{
		ID:           a.ID.String(),
		Title:        a.Title,
		URLs:         a.URLs,
		Status:       string(a.Status),
		ProfileCount: a.ProfileCount,
		FailureCount: a.FailureCount,
		ReportURI:    a.ReportURI,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.StartedAt != nil {
		s := a.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &s
	}
	if a.CompletedAt != nil {
		s := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// Create accepts a set of target URLs and starts the analysis in the
// background. The response carries the pending analysis for polling.
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAnalysisRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	analysis := domain.NewAnalysis(req.Title, req.URLs)
	if err := analysis.Validate(); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), analysis); err != nil {
		h.logger.Error("creating analysis", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	go h.run(analysis)

	httputil.JSON(w, http.StatusAccepted, toAnalysisResponse(analysis))
}

// run executes the pipeline outside the request lifecycle
func (h *AnalysisHandler) run(analysis *domain.Analysis) {
	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	log := h.logger.With(zap.String("analysis_id", analysis.ID.String()))

	if err := h.repo.UpdateStatus(ctx, analysis.ID, domain.AnalysisStatusFetching); err != nil {
		log.Error("updating analysis status", zap.Error(err))
	}

	rep, err := h.pipeline.Analyze(ctx, analysis.Title, analysis.URLs)
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		if err := h.repo.Complete(ctx, analysis.ID, domain.AnalysisStatusFailed, 0, 0, ""); err != nil {
			log.Error("recording analysis failure", zap.Error(err))
		}
		return
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		log.Error("serializing report", zap.Error(err))
		return
	}
	if err := h.repo.SaveReport(ctx, analysis.ID, payload); err != nil {
		log.Error("saving report", zap.Error(err))
	}

	var reportURI string
	if h.store != nil {
		uri, err := h.store.UploadReport(ctx, rep.ID.String(), payload)
		if err != nil {
			log.Warn("report upload failed", zap.Error(err))
		} else {
			reportURI = uri
		}
	}

	status := domain.AnalysisStatusCompleted
	if rep.Status == report.StatusNoData {
		status = domain.AnalysisStatusNoData
	}

	if err := h.repo.Complete(ctx, analysis.ID, status, rep.ProfileCount, len(rep.Failures), reportURI); err != nil {
		log.Error("completing analysis", zap.Error(err))
		return
	}

	log.Info("analysis complete",
		zap.String("status", string(status)),
		zap.Int("profiles", rep.ProfileCount),
		zap.Int("failures", len(rep.Failures)))
}

// Get returns a single analysis by ID
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.ErrorFromDomain(w, domain.ValidationError("id", "invalid analysis ID"))
		return
	}

	analysis, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toAnalysisResponse(analysis))
}

// List returns analyses, newest first
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	p := httputil.GetPagination(r, 20, 100)

	analyses, err := h.repo.List(r.Context(), p.PerPage, p.Offset)
	if err != nil {
		h.logger.Error("listing analyses", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	responses := make([]AnalysisResponse, len(analyses))
	for i, a := range analyses {
		responses[i] = toAnalysisResponse(a)
	}

	httputil.JSONWithMeta(w, http.StatusOK, responses, &httputil.Meta{
		Page:    p.Page,
		PerPage: p.PerPage,
	})
}

// GetReport returns the stored landscape report for an analysis
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.ErrorFromDomain(w, domain.ValidationError("id", "invalid analysis ID"))
		return
	}

	payload, err := h.repo.GetReport(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	// The stored payload is already serialized, pass it through
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
