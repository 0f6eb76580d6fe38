// Package cloud mirrors the history list to a remote per-user store.
package cloud

import (
	"context"
	"errors"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

// MaxEntries caps the remote list per user.
const MaxEntries = 50

// ErrNotConnected is returned when a mirror operation runs without a user.
var ErrNotConnected = errors.New("cloud: not connected")

// Remote is a per-user history store. Lists are newest first.
type Remote interface {
	Fetch(ctx context.Context, user string) ([]model.HistoryEntry, error)
	Put(ctx context.Context, user string, entry model.HistoryEntry) error
	Delete(ctx context.Context, user, id string) error
}

// Namespace normalizes a user name into its storage key.
func Namespace(user string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(user))
	if key == "" {
		return "", ErrNotConnected
	}
	return key, nil
}

// prepend puts entry first, drops any older copy with the same id or the
// same topic and format, and caps the list.
func prepend(list []model.HistoryEntry, entry model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(list)+1)
	out = append(out, entry)
	for _, e := range list {
		if e.ID != entry.ID && !sameChoice(e, entry) {
			out = append(out, e)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// sameChoice reports whether two entries name the same topic (ignoring case
// and surrounding space) in the same format.
func sameChoice(a, b model.HistoryEntry) bool {
	return a.Format == b.Format && strings.EqualFold(strings.TrimSpace(a.Topic), strings.TrimSpace(b.Topic))
}

func without(list []model.HistoryEntry, id string) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
