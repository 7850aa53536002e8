package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunStore keeps a log of crawl runs in SQLite.
type RunStore struct {
	db *sql.DB
}

// Run is one crawl invocation.
type Run struct {
	RunID        uuid.UUID  `json:"run_id"`
	Site         string     `json:"site"`
	Keyword      string     `json:"keyword"`
	Output       string     `json:"output"`
	Status       string     `json:"status"`
	ArticleCount int        `json:"article_count"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Error        *string    `json:"error,omitempty"`
}

// NewRunStore opens (or creates) the run log at dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs table if it doesn't exist.
func (s *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		keyword TEXT NOT NULL,
		output TEXT NOT NULL,
		status TEXT NOT NULL,
		article_count INTEGER DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		error TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// StartRun records a new run in the running state.
func (s *RunStore) StartRun(site, keyword, output string) (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		Site:      site,
		Keyword:   keyword,
		Output:    output,
		Status:    StatusRunning,
		StartedAt: time.Now().Truncate(0),
	}

	query := `
		INSERT INTO runs (run_id, site, keyword, output, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.Site,
		run.Keyword,
		run.Output,
		run.Status,
		formatTime(&run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun marks a run as finished. A nil runErr means the run succeeded.
func (s *RunStore) FinishRun(runID uuid.UUID, articleCount int, runErr error) error {
	now := time.Now()
	status := StatusSucceeded
	var errText any
	if runErr != nil {
		status = StatusFailed
		errText = runErr.Error()
	}

	query := `
		UPDATE runs
		SET status = ?, article_count = ?, finished_at = ?, error = ?
		WHERE run_id = ?
	`

	result, err := s.db.Exec(query, status, articleCount, formatTime(&now), errText, runID.String())
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(runID uuid.UUID) (*Run, error) {
	query := `
		SELECT run_id, site, keyword, output, status, article_count,
		       started_at, finished_at, error
		FROM runs
		WHERE run_id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *RunStore) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, site, keyword, output, status, article_count,
		       started_at, finished_at, error
		FROM runs
		ORDER BY started_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var runIDStr, startedAtStr string
	var finishedAtStr, errText sql.NullString
	run := &Run{}

	err := row.Scan(
		&runIDStr, &run.Site, &run.Keyword, &run.Output, &run.Status,
		&run.ArticleCount, &startedAtStr, &finishedAtStr, &errText,
	)
	if err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id %q: %w", runIDStr, err)
	}
	run.RunID = runID
	run.StartedAt = parseTime(startedAtStr)

	if finishedAtStr.Valid {
		t := parseTime(finishedAtStr.String)
		run.FinishedAt = &t
	}
	if errText.Valid {
		run.Error = &errText.String
	}

	return run, nil
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Fixed-width UTC so that ORDER BY on the text column is chronological
	return t.Truncate(0).UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
