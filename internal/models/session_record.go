package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SessionRecord is one completed tracking session. Records are append-only.
type SessionRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Timestamp       time.Time `gorm:"not null;index" json:"timestamp"`
	Project         string    `gorm:"not null;index" json:"project"`
	DurationSeconds float64   `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NewSessionRecord builds a record for a session that ended at ts
func NewSessionRecord(ts time.Time, project string, elapsed time.Duration) SessionRecord {
	return SessionRecord{
		ID:              uuid.NewString(),
		Timestamp:       ts,
		Project:         project,
		DurationSeconds: RoundSeconds(elapsed),
	}
}

// Duration returns the recorded duration
func (r SessionRecord) Duration() time.Duration {
	return time.Duration(r.DurationSeconds * float64(time.Second))
}

// RoundSeconds converts d to seconds rounded to two decimal places
func RoundSeconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return math.Round(d.Seconds()*100) / 100
}

type ProjectSummary struct {
	Project      string  `json:"project"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	SessionCount int     `json:"session_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month", "year"
}

type ProjectReport struct {
	Period       ReportPeriod     `json:"period"`
	Projects     []ProjectSummary `json:"projects"`
	TotalSeconds float64          `json:"total_seconds"`
	TotalHours   float64          `json:"total_hours"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
