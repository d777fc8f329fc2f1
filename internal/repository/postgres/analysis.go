package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brandlens/brandlens/internal/domain"
)

// AnalysisRepository implements domain.AnalysisRepository with PostgreSQL
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// analysisRow represents the database row structure
type analysisRow struct {
	ID           uuid.UUID      `db:"id"`
	Title        string         `db:"title"`
	URLs         pq.StringArray `db:"urls"`
	Status       string         `db:"status"`
	ProfileCount int            `db:"profile_count"`
	FailureCount int            `db:"failure_count"`
	ReportURI    sql.NullString `db:"report_uri"`
	StartedAt    *time.Time     `db:"started_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

func (r *analysisRow) toDomain() *domain.Analysis {
	return &domain.Analysis{
		ID:           r.ID,
		Title:        r.Title,
		URLs:         append([]string(nil), r.URLs...),
		Status:       domain.AnalysisStatus(r.Status),
		ProfileCount: r.ProfileCount,
		FailureCount: r.FailureCount,
		ReportURI:    r.ReportURI.String,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		Timestamps: domain.Timestamps{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			DeletedAt: r.DeletedAt,
		},
	}
}

// Create inserts a new analysis
func (r *AnalysisRepository) Create(ctx context.Context, analysis *domain.Analysis) error {
	query := `
		INSERT INTO analyses (
			id, title, urls, status, profile_count, failure_count,
			started_at, completed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.Title,
		pq.StringArray(analysis.URLs),
		string(analysis.Status),
		analysis.ProfileCount,
		analysis.FailureCount,
		analysis.StartedAt,
		analysis.CompletedAt,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict("analysis already exists: " + analysis.ID.String())
		}
		return err
	}

	return nil
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	query := `
		SELECT id, title, urls, status, profile_count, failure_count, report_uri,
		       started_at, completed_at, created_at, updated_at, deleted_at
		FROM analyses
		WHERE id = $1 AND deleted_at IS NULL
	`

	var row analysisRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("analysis", id)
		}
		return nil, err
	}

	return row.toDomain(), nil
}

// List retrieves analyses ordered by creation time, newest first
func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error) {
	query := `
		SELECT id, title, urls, status, profile_count, failure_count, report_uri,
		       started_at, completed_at, created_at, updated_at, deleted_at
		FROM analyses
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []analysisRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, err
	}

	analyses := make([]*domain.Analysis, len(rows))
	for i, row := range rows {
		analyses[i] = row.toDomain()
	}

	return analyses, nil
}

// UpdateStatus advances an analysis through its lifecycle. Entering a
// running state stamps started_at once.
func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error {
	query := `
		UPDATE analyses
		SET status = $2,
		    started_at = COALESCE(started_at, CASE WHEN $2 <> 'pending' THEN $3 END),
		    updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, string(status), time.Now().UTC())
	if err != nil {
		return err
	}

	return checkAffected(result, "analysis", id)
}

// Complete records the terminal outcome of an analysis
func (r *AnalysisRepository) Complete(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus, profileCount, failureCount int, reportURI string) error {
	query := `
		UPDATE analyses
		SET status = $2, profile_count = $3, failure_count = $4,
		    report_uri = NULLIF($5, ''), completed_at = $6, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, string(status), profileCount, failureCount, reportURI, time.Now().UTC())
	if err != nil {
		return err
	}

	return checkAffected(result, "analysis", id)
}

// SaveReport stores the serialized landscape report for an analysis
func (r *AnalysisRepository) SaveReport(ctx context.Context, analysisID uuid.UUID, report []byte) error {
	if !json.Valid(report) {
		return domain.ValidationError("report", "report payload is not valid JSON")
	}

	query := `
		INSERT INTO analysis_reports (analysis_id, report, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (analysis_id) DO UPDATE SET report = EXCLUDED.report, created_at = EXCLUDED.created_at
	`

	_, err := r.db.ExecContext(ctx, query, analysisID, report, time.Now().UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFoundError("analysis", analysisID)
		}
		return err
	}

	return nil
}

// GetReport retrieves the serialized landscape report for an analysis
func (r *AnalysisRepository) GetReport(ctx context.Context, analysisID uuid.UUID) ([]byte, error) {
	query := `SELECT report FROM analysis_reports WHERE analysis_id = $1`

	var report []byte
	if err := r.db.GetContext(ctx, &report, query, analysisID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("report", analysisID)
		}
		return nil, err
	}

	return report, nil
}

// Delete soft deletes an analysis
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE analyses
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}

	return checkAffected(result, "analysis", id)
}

func checkAffected(result sql.Result, resource string, id uuid.UUID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError(resource, id)
	}
	return nil
}
