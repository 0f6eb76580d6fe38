package cloud

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verte-zerg/typemaster/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS typemaster_history (
    owner      TEXT        NOT NULL,
    id         TEXT        NOT NULL,
    topic      TEXT        NOT NULL,
    format     TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (owner, id)
);
CREATE INDEX IF NOT EXISTS idx_typemaster_history_owner_created
    ON typemaster_history (owner, created_at DESC);`

// Postgres is a Remote backed by a PostgreSQL table. It is safe for
// concurrent use.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Remote = (*Postgres)(nil)

// NewPostgres connects to dsn and creates the history table if needed.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("cloud postgres: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("cloud postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cloud postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cloud postgres: migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Fetch implements Remote.
func (p *Postgres) Fetch(ctx context.Context, user string) ([]model.HistoryEntry, error) {
	key, err := Namespace(user)
	if err != nil {
		return nil, err
	}
	const q = `
		SELECT id, topic, format, created_at
		FROM   typemaster_history
		WHERE  owner = $1
		ORDER  BY created_at DESC
		LIMIT  $2`
	rows, err := p.pool.Query(ctx, q, key, MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("cloud postgres: fetch: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.HistoryEntry, error) {
		var (
			e      model.HistoryEntry
			format string
		)
		if err := row.Scan(&e.ID, &e.Topic, &format, &e.CreatedAt); err != nil {
			return model.HistoryEntry{}, err
		}
		e.Format = model.Format(format)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cloud postgres: scan rows: %w", err)
	}
	return entries, nil
}

// Put implements Remote. Older rows for the same topic and format are
// replaced, and rows beyond MaxEntries are trimmed in the same transaction.
func (p *Postgres) Put(ctx context.Context, user string, entry model.HistoryEntry) error {
	key, err := Namespace(user)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		const replace = `
			DELETE FROM typemaster_history
			WHERE owner = $1 AND id <> $2 AND format = $3
			  AND lower(btrim(topic)) = lower(btrim($4))`
		if _, err := tx.Exec(ctx, replace, key, entry.ID, string(entry.Format), entry.Topic); err != nil {
			return fmt.Errorf("cloud postgres: replace: %w", err)
		}
		const upsert = `
			INSERT INTO typemaster_history (owner, id, topic, format, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (owner, id) DO UPDATE
			SET topic = EXCLUDED.topic, format = EXCLUDED.format, created_at = EXCLUDED.created_at`
		if _, err := tx.Exec(ctx, upsert, key, entry.ID, entry.Topic, string(entry.Format), entry.CreatedAt); err != nil {
			return fmt.Errorf("cloud postgres: put: %w", err)
		}
		const trim = `
			DELETE FROM typemaster_history
			WHERE owner = $1 AND id NOT IN (
				SELECT id FROM typemaster_history
				WHERE  owner = $1
				ORDER  BY created_at DESC
				LIMIT  $2
			)`
		if _, err := tx.Exec(ctx, trim, key, MaxEntries); err != nil {
			return fmt.Errorf("cloud postgres: trim: %w", err)
		}
		return nil
	})
}

// Delete implements Remote.
func (p *Postgres) Delete(ctx context.Context, user, id string) error {
	key, err := Namespace(user)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM typemaster_history WHERE owner = $1 AND id = $2`, key, id); err != nil {
		return fmt.Errorf("cloud postgres: delete: %w", err)
	}
	return nil
}
