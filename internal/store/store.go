// Package store keeps completed sessions and topic history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// migrations run in order. PRAGMA user_version holds the number applied.
var migrations = [][]string{
	{
		`CREATE TABLE sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			lesson_mode TEXT NOT NULL,
			text_length INTEGER NOT NULL,
			typed INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE session_char_stats (
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (session_id, char)
		)`,
		`CREATE INDEX idx_sessions_ended_at ON sessions(ended_at)`,
	},
	{
		`ALTER TABLE sessions ADD COLUMN melody_title TEXT NOT NULL DEFAULT ''`,
	},
	{
		`CREATE TABLE history (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			format TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE cloud_history (
			owner TEXT NOT NULL,
			id TEXT NOT NULL,
			topic TEXT NOT NULL,
			format TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (owner, id)
		)`,
		`CREATE INDEX idx_history_created_at ON history(created_at)`,
	},
}

// Store is the SQLite-backed session and history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and brings its schema up to date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion reports how many migrations have been applied.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version)
	return version, err
}

func (s *Store) migrate(ctx context.Context) error {
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	for next := version; next < len(migrations); next++ {
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range migrations[next] {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, next+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", next+1, err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, rolling back when it fails.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			_ = rerr
		}
		return err
	}
	return tx.Commit()
}

// queryAll runs query and converts every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			_ = cerr
		}
	}()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// InsertSession stores a completed session with its per-character counts and
// returns the new session id.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (started_at, ended_at, lesson_id, lesson_mode, text_length, typed, errors, wpm, accuracy, duration_ms, melody_title)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			stats.StartedAt.UTC().Format(timeLayout),
			stats.EndedAt.UTC().Format(timeLayout),
			stats.LessonID,
			string(stats.LessonMode),
			stats.TextLength,
			stats.Typed,
			stats.Errors,
			stats.WPM,
			stats.Accuracy,
			stats.DurationMs,
			stats.MelodyTitle,
		)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, cs := range chars {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO session_char_stats (session_id, char, correct, incorrect) VALUES (?, ?, ?, ?)`,
				id, cs.Char, cs.Correct, cs.Incorrect); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return id, nil
}

// conditions collects WHERE clauses and their arguments.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, arg)
}

func (c conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

// ListSessions returns the sessions matching cfg, oldest first. Last keeps
// only the most recent sessions.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	var cond conditions
	if cfg.Lesson != "" {
		cond.add("lesson_id = ?", cfg.Lesson)
	}
	if cfg.Since != nil {
		cond.add("ended_at >= ?", cfg.Since.UTC().Format(timeLayout))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	query := fmt.Sprintf(`SELECT id, ended_at, lesson_id, typed, errors, wpm, accuracy, duration_ms FROM (
		SELECT * FROM sessions %s ORDER BY ended_at DESC LIMIT ?
	) ORDER BY ended_at ASC`, cond.where())
	return queryAll(ctx, s.db, scanSession, query, append(cond.args, limit)...)
}

func scanSession(rows *sql.Rows) (model.SessionAggregate, error) {
	var agg model.SessionAggregate
	var endedAt string
	if err := rows.Scan(&agg.SessionID, &endedAt, &agg.LessonID, &agg.Typed, &agg.Errors, &agg.WPM, &agg.Accuracy, &agg.DurationMs); err != nil {
		return agg, err
	}
	parsed, err := time.Parse(timeLayout, endedAt)
	if err != nil {
		return agg, fmt.Errorf("session %d: bad ended_at %q: %w", agg.SessionID, endedAt, err)
	}
	agg.EndedAt = parsed
	return agg, nil
}

// GetWeakChars sums character counts over the last window sessions,
// optionally restricted to one lesson.
func (s *Store) GetWeakChars(ctx context.Context, window int, lesson string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	return queryAll(ctx, s.db, scanCharAggregate, `WITH recent AS (
		SELECT id FROM sessions
		WHERE (? = '' OR lesson_id = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct), SUM(cs.incorrect)
	FROM session_char_stats cs
	JOIN recent r ON r.id = cs.session_id
	GROUP BY cs.char`, lesson, lesson, window)
}

// ListCharAggregatesForSessions sums character counts across the given sessions.
func (s *Store) ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	query := fmt.Sprintf(`SELECT char, SUM(correct), SUM(incorrect)
		FROM session_char_stats
		WHERE session_id IN (%s)
		GROUP BY char`, placeholders)
	return queryAll(ctx, s.db, scanCharAggregate, query, args...)
}

func scanCharAggregate(rows *sql.Rows) (model.CharAggregate, error) {
	var agg model.CharAggregate
	err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect)
	return agg, err
}
