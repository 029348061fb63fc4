package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteSchema holds the conversion result table. Timestamps are unix
// nanoseconds so range comparisons stay integer-only.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS conversions (
	key         TEXT PRIMARY KEY,
	payload     BLOB NOT NULL,
	created_at  INTEGER NOT NULL,
	accessed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at);
`

// SQLiteConfig contains configuration for the SQLite cache backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// TTL is how long entries stay readable. Expired entries read as
	// absent and are removed by the retention pruner. 0 = no expiry.
	TTL time.Duration
}

// DefaultSQLiteConfig returns the default SQLite cache configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/cache.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
		TTL:          time.Hour,
	}
}

// SQLite implements Cache on a single database file.
type SQLite struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLite creates a SQLite cache backend. It initializes the schema
// and enables WAL mode if configured.
func NewSQLite(config *SQLiteConfig) (*SQLite, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "cache.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLite{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite cache initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"ttl", config.TTL,
	)

	return s, nil
}

// initialize sets up the schema and enables WAL mode.
func (s *SQLite) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	return nil
}

// Get retrieves a payload. Entries older than the configured TTL read
// as absent; the pruner removes them later.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := "SELECT payload FROM conversions WHERE key = ?"
	args := []interface{}{key}
	if s.config.TTL > 0 {
		query += " AND created_at >= ?"
		args = append(args, time.Now().Add(-s.config.TTL).UnixNano())
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, NewStorageError("sqlite", "get", err)
	}

	// Best-effort access touch; a stale accessed_at only skews LRU
	// diagnostics, never correctness.
	if _, err := s.db.ExecContext(ctx,
		"UPDATE conversions SET accessed_at = ? WHERE key = ?",
		time.Now().UnixNano(), key,
	); err != nil {
		s.logger.Debug("access touch failed", "error", err)
	}

	if payload == nil {
		payload = []byte{}
	}
	return payload, true, nil
}

// Set stores a payload, replacing any previous entry for the key.
func (s *SQLite) Set(ctx context.Context, key string, payload []byte) error {
	now := time.Now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversions (key, payload, created_at, accessed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at,
			accessed_at = excluded.accessed_at
	`, key, payload, now, now)
	if err != nil {
		return NewStorageError("sqlite", "set", err)
	}
	return nil
}

// Prune deletes entries created before the cutoff and returns how many
// were removed.
func (s *SQLite) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM conversions WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, NewStorageError("sqlite", "prune", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "prune", err)
	}
	return count, nil
}

// PruneOldest deletes the n oldest entries by creation time and
// returns how many were removed.
func (s *SQLite) PruneOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM conversions WHERE key IN (
			SELECT key FROM conversions ORDER BY created_at ASC LIMIT ?
		)
	`, n)
	if err != nil {
		return 0, NewStorageError("sqlite", "prune_oldest", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "prune_oldest", err)
	}
	return count, nil
}

// Count returns the number of stored entries, expired ones included.
func (s *SQLite) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversions").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite cache closed")
	return nil
}
