package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists journal entries to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal store.
// The path should be a file path (e.g., "./journal.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trigger_journal (
			trigger_id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			callbacks_run INTEGER NOT NULL,
			cancelled INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			duration_ms REAL NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_trigger_journal_event_type
		ON trigger_journal(event_type)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	cancelled := 0
	if entry.Cancelled {
		cancelled = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trigger_journal
			(trigger_id, event_type, callbacks_run, cancelled, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.TriggerID, entry.EventType, entry.CallbacksRun, cancelled,
		entry.Error, entry.StartedAt.UTC().Format(time.RFC3339Nano), entry.DurationMs)

	if err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, triggerID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT trigger_id, event_type, callbacks_run, cancelled, error, started_at, duration_ms
		FROM trigger_journal
		WHERE trigger_id = ?
	`, triggerID)

	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get journal entry: %w", err)
	}
	return entry, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, eventType string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	query := `
		SELECT trigger_id, event_type, callbacks_run, cancelled, error, started_at, duration_ms
		FROM trigger_journal
	`
	var args []any
	if eventType != "" {
		query += " WHERE event_type = ?"
		args = append(args, eventType)
	}
	query += " ORDER BY started_at"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	return entries, nil
}

// CountByType implements Store.
func (s *SQLiteStore) CountByType(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_type, COUNT(*)
		FROM trigger_journal
		GROUP BY event_type
	`)
	if err != nil {
		return nil, fmt.Errorf("count journal entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("scan journal count: %w", err)
		}
		counts[eventType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal counts: %w", err)
	}

	return counts, nil
}

// Prune implements Store.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM trigger_journal WHERE started_at < ?
	`, before.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return int(removed), nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// scanEntry reads one journal row via the given scan function.
func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var entry Entry
	var cancelled int
	var startedAt string

	if err := scan(&entry.TriggerID, &entry.EventType, &entry.CallbacksRun,
		&cancelled, &entry.Error, &startedAt, &entry.DurationMs); err != nil {
		return Entry{}, err
	}

	entry.Cancelled = cancelled != 0
	entry.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	return entry, nil
}
