package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"worktrack/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Connect(filepath.Join(t.TempDir(), "nested", "worktrack.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db)
}

func TestAppendAndGetLatest(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.Nil(t, latest)

	base := time.Date(2024, 5, 15, 9, 0, 0, 0, time.Local)
	first := models.NewSessionRecord(base, "Alpha", 30*time.Second)
	second := models.NewSessionRecord(base.Add(time.Hour), "Beta", 45*time.Second)
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	latest, err = repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, second.ID, latest.ID)
	require.Equal(t, "Beta", latest.Project)
	require.Equal(t, 45.0, latest.DurationSeconds)
}

func TestAppendDuplicateIDFails(t *testing.T) {
	repo := newTestRepository(t)
	rec := models.NewSessionRecord(time.Now(), "Alpha", time.Second)

	require.NoError(t, repo.Append(context.Background(), rec))
	require.Error(t, repo.Append(context.Background(), rec))
}

func TestGetProjectSummary(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	for _, rec := range []models.SessionRecord{
		models.NewSessionRecord(start.Add(2*time.Hour), "Long", time.Hour),
		models.NewSessionRecord(start.Add(26*time.Hour), "Long", 30*time.Minute),
		models.NewSessionRecord(start.Add(50*time.Hour), "Short", 10*time.Minute),
		models.NewSessionRecord(start.Add(51*time.Hour), "Personal", 2*time.Hour),
		models.NewSessionRecord(start.Add(-time.Hour), "Before", time.Hour),
		models.NewSessionRecord(end.Add(time.Hour), "After", time.Hour),
	} {
		require.NoError(t, repo.Append(ctx, rec))
	}

	summaries, err := repo.GetProjectSummary(start, end, map[string]struct{}{"Personal": {}})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.Equal(t, "Long", summaries[0].Project)
	require.Equal(t, 2, summaries[0].SessionCount)
	require.InDelta(t, 5400.0, summaries[0].TotalSeconds, 1e-9)
	require.Equal(t, "Short", summaries[1].Project)
	require.InDelta(t, 600.0, summaries[1].TotalSeconds, 1e-9)

	all, err := repo.GetProjectSummary(start, end, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Personal", all[0].Project)
}

func TestErrorLogs(t *testing.T) {
	repo := newTestRepository(t)

	now := time.Now()
	require.NoError(t, repo.CreateErrorLog(&models.ErrorLog{Timestamp: now.Add(-time.Minute), ErrorMsg: "older"}))
	require.NoError(t, repo.CreateErrorLog(&models.ErrorLog{Timestamp: now, ErrorMsg: "newer", Project: "Alpha"}))

	logs, err := repo.GetErrorLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "newer", logs[0].ErrorMsg)
	require.Equal(t, "Alpha", logs[0].Project)
}
