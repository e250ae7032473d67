package database

import (
	"context"
	"time"

	"worktrack/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository mirrors session records and tick errors into SQLite
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a completed session record
func (r *Repository) Append(ctx context.Context, rec models.SessionRecord) error {
	result := r.db.WithContext(ctx).Create(&rec)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert session record")
	}
	return nil
}

// GetProjectSummary returns per-project totals for sessions in [start, end),
// leaving out excluded projects. SQL does the SUM; hours and percentages are
// left to the caller.
func (r *Repository) GetProjectSummary(start, end time.Time, exclusions map[string]struct{}) ([]models.ProjectSummary, error) {
	var summaries []models.ProjectSummary

	query := r.db.Model(&models.SessionRecord{}).
		Select("project, SUM(duration_seconds) as total_seconds, COUNT(*) as session_count").
		Where("timestamp >= ? AND timestamp < ?", start, end)

	if len(exclusions) > 0 {
		names := make([]string, 0, len(exclusions))
		for name := range exclusions {
			names = append(names, name)
		}
		query = query.Where("project NOT IN ?", names)
	}

	result := query.Group("project").
		Order("total_seconds DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query project summary")
	}

	return summaries, nil
}

// GetLatest retrieves the most recent session record, or nil when none exist
func (r *Repository) GetLatest() (*models.SessionRecord, error) {
	var rec models.SessionRecord
	result := r.db.Order("timestamp DESC").First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest session record")
	}
	return &rec, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetErrorLogs returns the most recent error logs, newest first
func (r *Repository) GetErrorLogs(limit int) ([]models.ErrorLog, error) {
	var logs []models.ErrorLog
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}
