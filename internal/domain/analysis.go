package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Analysis is one landscape analysis run over a set of target URLs
type Analysis struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	URLs        []string       `json:"urls" db:"-"`
	Status      AnalysisStatus `json:"status" db:"status"`
	ProfileCount int           `json:"profile_count" db:"profile_count"`
	FailureCount int           `json:"failure_count" db:"failure_count"`
	ReportURI   string         `json:"report_uri,omitempty" db:"report_uri"`
	StartedAt   *time.Time     `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	Timestamps
}

// NewAnalysis creates a pending analysis for the given targets
func NewAnalysis(title string, urls []string) *Analysis {
	a := &Analysis{
		ID:     uuid.New(),
		Title:  title,
		URLs:   urls,
		Status: AnalysisStatusPending,
	}
	a.SetTimestamps()
	return a
}

// Validate checks that the analysis is well formed before it is accepted
func (a *Analysis) Validate() error {
	if len(a.URLs) == 0 {
		return ErrEmptyInput()
	}
	if a.Title == "" {
		return ErrValidationField("title", "title is required")
	}
	return nil
}

// AnalysisRepository defines data access for analyses
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*Analysis, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status AnalysisStatus) error
	Complete(ctx context.Context, id uuid.UUID, status AnalysisStatus, profileCount, failureCount int, reportURI string) error
	SaveReport(ctx context.Context, analysisID uuid.UUID, report []byte) error
	GetReport(ctx context.Context, analysisID uuid.UUID) ([]byte, error)
}
