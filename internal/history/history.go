// Package history keeps the list of recently generated topics and mirrors it
// to a remote store.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typemaster/internal/cloud"
	"github.com/verte-zerg/typemaster/internal/model"
)

// MaxEntries caps the local list.
const MaxEntries = 20

// Backend persists the local list.
type Backend interface {
	LoadHistory(ctx context.Context) ([]model.HistoryEntry, error)
	SaveHistory(ctx context.Context, entries []model.HistoryEntry) error
}

// Service manages the local history and an optional remote mirror.
type Service struct {
	backend Backend
	logger  *zap.SugaredLogger
	now     func() time.Time
	newID   func() string

	mu     sync.Mutex
	remote cloud.Remote
	user   string
}

// NewService creates a history service on backend.
func NewService(backend Backend, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		backend: backend,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Connect attaches a remote mirror for user. An empty user disconnects.
func (s *Service) Connect(remote cloud.Remote, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = remote
	s.user = strings.TrimSpace(user)
}

// User returns the connected user, or "" when disconnected.
func (s *Service) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remote == nil {
		return ""
	}
	return s.user
}

func (s *Service) mirror() (cloud.Remote, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote, s.user, s.remote != nil && s.user != ""
}

// List returns the local list, newest first.
func (s *Service) List(ctx context.Context) ([]model.HistoryEntry, error) {
	entries, err := s.backend.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// Add records topic and format. Blank topics leave the list unchanged. An
// existing entry with the same topic (ignoring case) and format is replaced by
// the new one at the front.
func (s *Service) Add(ctx context.Context, topic string, format model.Format) ([]model.HistoryEntry, error) {
	current, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return current, nil
	}
	entry := model.HistoryEntry{ID: s.newID(), Topic: topic, Format: format, CreatedAt: s.now()}
	updated := []model.HistoryEntry{entry}
	for _, e := range current {
		if sameChoice(e, entry) {
			continue
		}
		updated = append(updated, e)
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}
	if err := s.backend.SaveHistory(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	if remote, user, ok := s.mirror(); ok {
		if err := remote.Put(ctx, user, entry); err != nil {
			s.logger.Warnw("cloud upload failed", "user", user, "error", err)
		}
	}
	return updated, nil
}

// Delete removes the entry with id locally and from the mirror.
func (s *Service) Delete(ctx context.Context, id string) ([]model.HistoryEntry, error) {
	current, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	updated := make([]model.HistoryEntry, 0, len(current))
	for _, e := range current {
		if e.ID != id {
			updated = append(updated, e)
		}
	}
	if err := s.backend.SaveHistory(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	if remote, user, ok := s.mirror(); ok {
		if err := remote.Delete(ctx, user, id); err != nil {
			s.logger.Warnw("cloud delete failed", "user", user, "id", id, "error", err)
		}
	}
	return updated, nil
}

// Clear empties the local list. The mirror is left untouched.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.backend.SaveHistory(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Sync merges the local and remote lists, stores the result locally and
// uploads entries the remote is missing.
func (s *Service) Sync(ctx context.Context) ([]model.HistoryEntry, error) {
	remote, user, ok := s.mirror()
	if !ok {
		return nil, cloud.ErrNotConnected
	}

	var local, mirrored []model.HistoryEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = s.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		mirrored, err = remote.Fetch(gctx, user)
		if err != nil {
			return fmt.Errorf("failed to fetch cloud history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := Merge(local, mirrored)
	if err := s.backend.SaveHistory(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}

	known := make(map[string]bool, len(mirrored))
	for _, e := range mirrored {
		known[e.ID] = true
	}
	// Oldest first so the remote ends up in the same order.
	for i := len(merged) - 1; i >= 0; i-- {
		if known[merged[i].ID] {
			continue
		}
		if err := remote.Put(ctx, user, merged[i]); err != nil {
			return merged, fmt.Errorf("failed to upload history: %w", err)
		}
	}
	s.logger.Infow("history synced", "user", user, "local", len(local), "remote", len(mirrored), "merged", len(merged))
	return merged, nil
}

// Merge combines lists newest first, keeping one entry per id and per
// topic/format choice, capped at MaxEntries.
func Merge(lists ...[]model.HistoryEntry) []model.HistoryEntry {
	var all []model.HistoryEntry
	for _, list := range lists {
		all = append(all, list...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	seenID := map[string]bool{}
	var out []model.HistoryEntry
	for _, e := range all {
		if seenID[e.ID] {
			continue
		}
		dup := false
		for _, kept := range out {
			if sameChoice(kept, e) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seenID[e.ID] = true
		out = append(out, e)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}

func sameChoice(a, b model.HistoryEntry) bool {
	return a.Format == b.Format && strings.EqualFold(strings.TrimSpace(a.Topic), strings.TrimSpace(b.Topic))
}
