package limits

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig configures the SQLite-backed fixed-window limiter.
type SQLiteConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// Limit is the maximum number of admissions per identity per
	// window. 0 means unlimited.
	Limit int64

	// Window is the fixed window length.
	// Default: 1 minute
	Window time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// CheckpointInterval is how often to checkpoint the WAL and sweep
	// stale windows.
	// Default: 5 minutes
	CheckpointInterval time.Duration
}

// SQLite implements Limiter with counters persisted to a SQLite file,
// so limits survive restarts. Suitable for single-instance
// deployments.
type SQLite struct {
	db     *sql.DB
	config *SQLiteConfig
	done   chan struct{}

	mu        sync.Mutex
	closeOnce sync.Once

	admitStmt *sql.Stmt
	countStmt *sql.Stmt
	sweepStmt *sql.Stmt
}

// NewSQLite creates a SQLite-backed fixed-window limiter.
func NewSQLite(config *SQLiteConfig) (*SQLite, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}
	if config.CheckpointInterval == 0 {
		config.CheckpointInterval = 5 * time.Minute
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{
		db:     db,
		config: config,
		done:   make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go s.checkpointLoop()

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rate_windows (
		identity     TEXT NOT NULL,
		window_start INTEGER NOT NULL,
		count        INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (identity, window_start)
	);

	CREATE INDEX IF NOT EXISTS idx_rate_windows_start ON rate_windows(window_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLite) prepareStatements() error {
	var err error

	s.admitStmt, err = s.db.Prepare(`
		INSERT INTO rate_windows (identity, window_start, count)
		VALUES (?, ?, 1)
		ON CONFLICT (identity, window_start) DO UPDATE SET
			count = count + 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare admit statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`
		SELECT count FROM rate_windows
		WHERE identity = ? AND window_start = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.sweepStmt, err = s.db.Prepare(`
		DELETE FROM rate_windows
		WHERE window_start < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sweep statement: %w", err)
	}

	return nil
}

// Admit checks and records one request for the identity.
func (s *SQLite) Admit(ctx context.Context, identity string) (*Decision, error) {
	now := time.Now()
	start := now.Truncate(s.config.Window)
	reset := start.Add(s.config.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	err := s.countStmt.QueryRowContext(ctx, identity, start.UnixNano()).Scan(&count)
	if err == sql.ErrNoRows {
		count = 0
	} else if err != nil {
		return nil, fmt.Errorf("failed to read window: %w", err)
	}

	if s.config.Limit > 0 && count >= s.config.Limit {
		return &Decision{
			Allowed:    false,
			Limit:      s.config.Limit,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: reset.Sub(now),
		}, nil
	}

	if _, err := s.admitStmt.ExecContext(ctx, identity, start.UnixNano()); err != nil {
		return nil, fmt.Errorf("failed to record admission: %w", err)
	}
	count++

	var remaining int64
	if s.config.Limit > 0 {
		remaining = s.config.Limit - count
	}

	return &Decision{
		Allowed:   true,
		Limit:     s.config.Limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

// Sweep removes windows that started before the cutoff, returning how
// many were deleted.
func (s *SQLite) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.sweepStmt.ExecContext(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep windows: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Close releases database resources. Close is idempotent.
func (s *SQLite) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.admitStmt != nil {
			s.admitStmt.Close()
		}
		if s.countStmt != nil {
			s.countStmt.Close()
		}
		if s.sweepStmt != nil {
			s.sweepStmt.Close()
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints and drops windows that
// ended more than one window ago.
func (s *SQLite) checkpointLoop() {
	ticker := time.NewTicker(s.config.CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")

			cutoff := time.Now().Add(-2 * s.config.Window)
			s.mu.Lock()
			_, _ = s.sweepStmt.Exec(cutoff.UnixNano())
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}
