package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	mdwerror "github.com/msto63/udyr/foundation/core/error"
)

// Entry is one submission made at the prompt
type Entry struct {
	ID          string    `json:"id" yaml:"id"`
	Session     string    `json:"session" yaml:"session"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Source      string    `json:"source" yaml:"source"`
	OK          bool      `json:"ok" yaml:"ok"`
	Diagnostics int       `json:"diagnostics" yaml:"diagnostics"`
}

// Filter defines criteria for listing entries
type Filter struct {
	Session string
	OnlyOK  bool
	Since   time.Time
	Limit   int
	Offset  int
}

// Stats summarizes the stored history
type Stats struct {
	Total     int64     `json:"total" yaml:"total"`
	Failed    int64     `json:"failed" yaml:"failed"`
	Sessions  int64     `json:"sessions" yaml:"sessions"`
	LastEntry time.Time `json:"last_entry,omitempty" yaml:"last_entry,omitempty"`
}

// Store defines the interface for history persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Recent(ctx context.Context, limit int) ([]*Entry, error)
	Stats(ctx context.Context) (Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// NewSession returns a fresh session identifier
func NewSession() string {
	return uuid.New().String()
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and creates if needed) the history database
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("history path is empty").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("history.Open")
	}

	// Ensure directory exists
	if cfg.Path != ":memory:" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, mdwerror.Wrap(err, "failed to create history directory").
				WithCode(mdwerror.CodeDatabaseError).
				WithOperation("history.Open").
				WithDetail("path", dir)
		}
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open history database").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("history.Open").
			WithDetail("path", cfg.Path)
	}
	if cfg.Path == ":memory:" {
		// Each connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize history schema").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("history.Open")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		session TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		source TEXT NOT NULL,
		ok INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a new entry, filling in ID and timestamp when empty
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(entry)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, session, timestamp, source, ok, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Session, entry.Timestamp, entry.Source, entry.OK, entry.Diagnostics)

	if err != nil {
		return mdwerror.Wrap(err, "failed to insert history entry").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("history.Record")
	}

	return nil
}

// Query retrieves entries based on filter criteria, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, session, timestamp, source, ok, diagnostics FROM entries WHERE 1=1`
	var args []interface{}

	if filter.Session != "" {
		query += " AND session = ?"
		args = append(args, filter.Session)
	}
	if filter.OnlyOK {
		query += " AND ok = 1"
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	// SQLite needs a LIMIT before OFFSET
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to query history").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("history.Query")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Session, &entry.Timestamp, &entry.Source,
			&entry.OK, &entry.Diagnostics); err != nil {
			return nil, mdwerror.Wrap(err, "failed to scan history entry").
				WithCode(mdwerror.CodeDatabaseError).
				WithOperation("history.Query")
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Recent returns the newest entries across all sessions
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	return s.Query(ctx, Filter{Limit: limit})
}

// Stats returns history statistics
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var last sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT session), MAX(timestamp)
		FROM entries
	`).Scan(&stats.Total, &stats.Failed, &stats.Sessions, &last)
	if err != nil {
		return stats, mdwerror.Wrap(err, "failed to read history statistics").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("history.Stats")
	}

	// MAX() loses the column type, so the driver hands back text
	if last.Valid {
		stats.LastEntry = parseTimestamp(last.String)
	}

	return stats, nil
}

// Prune removes entries older than the specified duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, mdwerror.Wrap(err, "failed to prune history").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("history.Prune")
	}

	return result.RowsAffected()
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-memory implementation used when persistence is
// disabled and in tests
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make([]*Entry, 0)}
}

// Record stores a new entry
func (s *MemoryStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(entry)
	s.entries = append(s.entries, entry)
	return nil
}

// Query retrieves entries based on filter criteria, newest first
func (s *MemoryStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if filter.Session != "" && entry.Session != filter.Session {
			continue
		}
		if filter.OnlyOK && !entry.OK {
			continue
		}
		if !filter.Since.IsZero() && entry.Timestamp.Before(filter.Since) {
			continue
		}
		results = append(results, entry)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}

	return results, nil
}

// Recent returns the newest entries
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	return s.Query(ctx, Filter{Limit: limit})
}

// Stats returns history statistics
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: int64(len(s.entries))}
	sessions := make(map[string]struct{})
	for _, entry := range s.entries {
		if !entry.OK {
			stats.Failed++
		}
		sessions[entry.Session] = struct{}{}
		if entry.Timestamp.After(stats.LastEntry) {
			stats.LastEntry = entry.Timestamp
		}
	}
	stats.Sessions = int64(len(sessions))

	return stats, nil
}

// Prune removes old entries
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var deleted int64

	kept := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept

	return deleted, nil
}

// Ping always succeeds for the memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for memory store
func (s *MemoryStore) Close() error {
	return nil
}

// Open returns the SQLite store when enabled, otherwise a memory store
func Open(enabled bool, path string) (Store, error) {
	if !enabled {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(Config{Path: path})
}

func prepare(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
}

// sqliteTimestampFormats lists the layouts go-sqlite3 writes for time.Time
var sqliteTimestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range sqliteTimestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
