package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// LoadHistory returns the local history list, newest first.
func (s *Store) LoadHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	return queryAll(ctx, s.db, scanHistoryEntry,
		`SELECT id, topic, format, created_at FROM history ORDER BY created_at DESC, rowid DESC`)
}

// SaveHistory replaces the local history list.
func (s *Store) SaveHistory(ctx context.Context, entries []model.HistoryEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
			return err
		}
		return insertEntries(ctx, tx, entries, func(e model.HistoryEntry) (string, []any) {
			return `INSERT INTO history (id, topic, format, created_at) VALUES (?, ?, ?, ?)`,
				[]any{e.ID, e.Topic, string(e.Format), e.CreatedAt.UTC().Format(timeLayout)}
		})
	})
}

// LoadCloudHistory returns the list stored for user, newest first. User names
// are compared case-insensitively.
func (s *Store) LoadCloudHistory(ctx context.Context, user string) ([]model.HistoryEntry, error) {
	return queryAll(ctx, s.db, scanHistoryEntry,
		`SELECT id, topic, format, created_at FROM cloud_history WHERE owner = ? ORDER BY created_at DESC, rowid DESC`,
		ownerKey(user))
}

// SaveCloudHistory replaces the list stored for user.
func (s *Store) SaveCloudHistory(ctx context.Context, user string, entries []model.HistoryEntry) error {
	owner := ownerKey(user)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cloud_history WHERE owner = ?`, owner); err != nil {
			return err
		}
		return insertEntries(ctx, tx, entries, func(e model.HistoryEntry) (string, []any) {
			return `INSERT INTO cloud_history (owner, id, topic, format, created_at) VALUES (?, ?, ?, ?, ?)`,
				[]any{owner, e.ID, e.Topic, string(e.Format), e.CreatedAt.UTC().Format(timeLayout)}
		})
	})
}

func ownerKey(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// insertEntries writes a newest-first list oldest first, so rowid breaks
// created_at ties in list order.
func insertEntries(ctx context.Context, tx *sql.Tx, entries []model.HistoryEntry, row func(model.HistoryEntry) (string, []any)) error {
	for i := len(entries) - 1; i >= 0; i-- {
		query, args := row(entries[i])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("history entry %s: %w", entries[i].ID, err)
		}
	}
	return nil
}

func scanHistoryEntry(rows *sql.Rows) (model.HistoryEntry, error) {
	var entry model.HistoryEntry
	var format, createdAt string
	if err := rows.Scan(&entry.ID, &entry.Topic, &format, &createdAt); err != nil {
		return entry, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return entry, err
	}
	entry.Format = model.Format(format)
	entry.CreatedAt = parsed
	return entry, nil
}
