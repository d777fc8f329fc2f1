package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Common types used across domain models

// AnalysisStatus represents the current state of an analysis run
type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusFetching   AnalysisStatus = "fetching"
	AnalysisStatusExtracting AnalysisStatus = "extracting"
	AnalysisStatusEnriching  AnalysisStatus = "enriching"
	AnalysisStatusReporting  AnalysisStatus = "reporting"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
	AnalysisStatusNoData     AnalysisStatus = "no_data"
)

func (s AnalysisStatus) IsTerminal() bool {
	return s == AnalysisStatusCompleted || s == AnalysisStatusFailed || s == AnalysisStatusNoData
}

func (s AnalysisStatus) IsValid() bool {
	switch s {
	case AnalysisStatusPending, AnalysisStatusFetching, AnalysisStatusExtracting,
		AnalysisStatusEnriching, AnalysisStatusReporting,
		AnalysisStatusCompleted, AnalysisStatusFailed, AnalysisStatusNoData:
		return true
	}
	return false
}

// ExtractionMethod identifies which extraction path contributed a signal
type ExtractionMethod string

const (
	MethodHeuristicCSS       ExtractionMethod = "heuristic-css"
	MethodHeuristicDOM       ExtractionMethod = "heuristic-dom"
	MethodAIEnrichment       ExtractionMethod = "ai-enrichment"
	MethodScreenshotSampling ExtractionMethod = "screenshot-sampling"
)

// EnrichmentStatus tags how the AI enrichment step ended
type EnrichmentStatus string

const (
	EnrichmentStatusEnriched EnrichmentStatus = "enriched"
	EnrichmentStatusFailed   EnrichmentStatus = "failed"
	EnrichmentStatusSkipped  EnrichmentStatus = "skipped"
)

// Timestamps provides common time fields
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// SetTimestamps sets CreatedAt and UpdatedAt to current time
func (t *Timestamps) SetTimestamps() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// JSONB is a wrapper for JSON data stored in PostgreSQL JSONB columns
type JSONB map[string]any

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, j)
}
