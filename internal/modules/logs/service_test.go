package logs

import (
	"context"
	"testing"
	"time"

	"cityhub/internal/database"
	"cityhub/internal/domain"
	"cityhub/internal/pkg/pagination"
	"cityhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLogService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewService(repository.NewLogRepository(db), "test"), db
}

func TestIngestParsesClientTimestamp(t *testing.T) {
	svc, _ := setupLogService(t)

	entry, err := svc.Ingest(context.Background(), ClientLogRequest{
		Timestamp:    "2026-08-30T12:00:00Z",
		Level:        "error",
		Message:      "boom",
		URL:          "/home",
		ErrorName:    "TypeError",
		ErrorMessage: "x is undefined",
	}, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), entry.Timestamp.UTC())
	assert.Equal(t, domain.LogSourceFrontend, entry.Source)
	assert.Equal(t, "test", entry.Environment)
	assert.Equal(t, "10.0.0.1", entry.IP)
	assert.NotZero(t, entry.ID)
}

func TestIngestFallsBackToServerTimeOnBadTimestamp(t *testing.T) {
	svc, _ := setupLogService(t)

	before := time.Now()
	entry, err := svc.Ingest(context.Background(), ClientLogRequest{
		Timestamp: "yesterday-ish",
		Level:     "warn",
		Message:   "clock skew",
	}, "")
	require.NoError(t, err)

	assert.False(t, entry.Timestamp.Before(before))
	assert.False(t, entry.Timestamp.After(time.Now()))
}

func TestListFiltersByLevelSourceAndStatus(t *testing.T) {
	svc, _ := setupLogService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, ClientLogRequest{Level: "error", Message: "frontend error"}, "")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, ClientLogRequest{Level: "info", Message: "frontend info"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.logs.Create(ctx, &domain.LogEntry{
		Timestamp: time.Now(),
		Level:     "error",
		Message:   "GET /boom",
		Source:    domain.LogSourceBackend,
		Status:    500,
	}))

	p := pagination.Params{Page: 1, PageSize: 20, SortBy: "timestamp", SortOrder: "desc"}

	entries, total, err := svc.List(ctx, repository.LogFilter{Level: "error"}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, entries, 2)

	entries, total, err = svc.List(ctx, repository.LogFilter{Source: domain.LogSourceBackend}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "GET /boom", entries[0].Message)

	entries, total, err = svc.List(ctx, repository.LogFilter{Status: 500}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, 500, entries[0].Status)
}

func TestRecordPersistsBackendRowAsynchronously(t *testing.T) {
	svc, _ := setupLogService(t)
	ctx := context.Background()

	svc.Record(domain.LogEntry{
		Timestamp:  time.Now(),
		Level:      "info",
		Message:    "GET /todos",
		Method:     "GET",
		Path:       "/todos",
		Status:     200,
		DurationMs: 12,
	})

	p := pagination.Params{Page: 1, PageSize: 20, SortBy: "timestamp", SortOrder: "desc"}
	require.Eventually(t, func() bool {
		entries, _, err := svc.List(ctx, repository.LogFilter{Source: domain.LogSourceBackend}, p)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)

	entries, _, err := svc.List(ctx, repository.LogFilter{Source: domain.LogSourceBackend}, p)
	require.NoError(t, err)
	assert.Equal(t, domain.LogSourceBackend, entries[0].Source)
	assert.Equal(t, "test", entries[0].Environment)
}

func TestRecordSwallowsPersistenceFailures(t *testing.T) {
	svc, db := setupLogService(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.NotPanics(t, func() {
		svc.Record(domain.LogEntry{
			Timestamp: time.Now(),
			Level:     "info",
			Message:   "GET /todos",
		})
		// give the background write time to hit the closed handle
		time.Sleep(50 * time.Millisecond)
	})
}
