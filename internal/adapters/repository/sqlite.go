package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/pkg/metrics"
	_ "modernc.org/sqlite" // pure Go driver
)

const (
	defaultBusyTimeout  = 5 * time.Second
	defaultMaxOpenConns = 4
)

const schema = `
CREATE TABLE IF NOT EXISTS deployments (
	id          TEXT PRIMARY KEY,
	platform    TEXT NOT NULL,
	status      TEXT NOT NULL,
	url         TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_deployments_started_at ON deployments(started_at);
`

// SQLiteStore keeps history in a SQLite file in WAL mode.
type SQLiteStore struct {
	db           *sql.DB
	busyTimeout  time.Duration
	maxOpenConns int
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeout:  defaultBusyTimeout,
		maxOpenConns: defaultMaxOpenConns,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", ErrStorage, dir, err)
		}
	}

	db, err := sql.Open("sqlite", s.dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrStorage, err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrStorage, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", ErrStorage, err)
	}

	s.db = db
	return s, nil
}

// dsn builds a file: URI for path. The path is percent-escaped so ? and # stay
// part of the name; _pragma entries apply to every pooled connection.
func (s *SQLiteStore) dsn(path string) string {
	u := url.URL{Path: filepath.ToSlash(path)}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		u.EscapedPath(), s.busyTimeout.Milliseconds())
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record implements Store.
func (s *SQLiteStore) Record(ctx context.Context, d model.Deployment) error {
	const query = `
	INSERT INTO deployments (id, platform, status, url, message, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		platform = excluded.platform,
		status = excluded.status,
		url = excluded.url,
		message = excluded.message,
		started_at = excluded.started_at,
		finished_at = excluded.finished_at
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.Platform, string(d.Status), d.URL, d.Message,
		toUnixNano(d.StartedAt), toUnixNano(d.FinishedAt))
	if err != nil {
		metrics.RecordHistoryError()
		return fmt.Errorf("%w: record %s: %w", ErrStorage, d.ID, err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Deployment, error) {
	if !validLimit(limit) {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidLimit, limit, MaxLimit)
	}

	const query = `
	SELECT id, platform, status, url, message, started_at, finished_at
	FROM deployments
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		metrics.RecordHistoryError()
		return nil, fmt.Errorf("%w: list: %w", ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.Deployment, 0, limit)
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			metrics.RecordHistoryError()
			return nil, fmt.Errorf("%w: scan: %w", ErrStorage, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordHistoryError()
		return nil, fmt.Errorf("%w: list: %w", ErrStorage, err)
	}
	return out, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Deployment, error) {
	const query = `
	SELECT id, platform, status, url, message, started_at, finished_at
	FROM deployments
	WHERE id = ?
	`
	d, err := scanDeployment(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Deployment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		metrics.RecordHistoryError()
		return model.Deployment{}, fmt.Errorf("%w: get %s: %w", ErrStorage, id, err)
	}
	return d, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDeployment(row scanner) (model.Deployment, error) {
	var (
		d                 model.Deployment
		status            string
		started, finished int64
	)
	if err := row.Scan(&d.ID, &d.Platform, &status, &d.URL, &d.Message, &started, &finished); err != nil {
		return model.Deployment{}, err
	}
	d.Status = model.Status(status)
	d.StartedAt = fromUnixNano(started)
	d.FinishedAt = fromUnixNano(finished)
	return d, nil
}

// Zero times are stored as 0 so they round-trip as time.Time{}.
func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
