package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test run store
func createTestRunStore(t *testing.T) *RunStore {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(dbPath)
	require.NoError(t, err, "should create run store")
	t.Cleanup(func() { store.Close() })
	return store
}

// TestNewRunStore_EmptyLog verifies a fresh database has no runs
func TestNewRunStore_EmptyLog(t *testing.T) {
	store := createTestRunStore(t)

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// TestStartRun_Running verifies new runs start in the running state
func TestStartRun_Running(t *testing.T) {
	store := createTestRunStore(t)

	run, err := store.StartRun("times", "covid-19", "out.csv")
	require.NoError(t, err)

	got, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	assert.Equal(t, "times", got.Site)
	assert.Equal(t, "covid-19", got.Keyword)
	assert.Equal(t, "out.csv", got.Output)
	assert.Nil(t, got.FinishedAt)
	assert.Nil(t, got.Error)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Millisecond)
}

// TestFinishRun_Success verifies successful completion is recorded
func TestFinishRun_Success(t *testing.T) {
	store := createTestRunStore(t)
	run, err := store.StartRun("herald", "coronavirus", "out.csv")
	require.NoError(t, err)

	require.NoError(t, store.FinishRun(run.RunID, 42, nil))

	got, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Equal(t, 42, got.ArticleCount)
	require.NotNil(t, got.FinishedAt)
	assert.Nil(t, got.Error)
}

// TestFinishRun_Failure verifies the error text is kept for failed runs
func TestFinishRun_Failure(t *testing.T) {
	store := createTestRunStore(t)
	run, err := store.StartRun("herald", "coronavirus", "out.csv")
	require.NoError(t, err)

	require.NoError(t, store.FinishRun(run.RunID, 3, errors.New("HTTP error: 503")))

	got, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "HTTP error: 503", *got.Error)
}

// TestFinishRun_NotFound verifies unknown IDs are rejected
func TestFinishRun_NotFound(t *testing.T) {
	store := createTestRunStore(t)

	err := store.FinishRun(uuid.New(), 0, nil)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

// TestGetRun_NotFound verifies unknown IDs are rejected
func TestGetRun_NotFound(t *testing.T) {
	store := createTestRunStore(t)

	_, err := store.GetRun(uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

// TestListRuns_NewestFirstWithLimit verifies ordering and limit
func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	store := createTestRunStore(t)

	var ids []uuid.UUID
	for _, kw := range []string{"first", "second", "third"} {
		run, err := store.StartRun("times", kw, "out.csv")
		require.NoError(t, err)
		ids = append(ids, run.RunID)
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[1], runs[1].RunID)
}
