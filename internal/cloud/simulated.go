package cloud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Delays are the artificial latencies of the simulated backend.
type Delays struct {
	Fetch  time.Duration
	Put    time.Duration
	Delete time.Duration
}

// DefaultDelays mimics a slow network.
func DefaultDelays() Delays {
	return Delays{Fetch: 800 * time.Millisecond, Put: 500 * time.Millisecond, Delete: 300 * time.Millisecond}
}

// ListStore persists one history list per user.
type ListStore interface {
	LoadCloudHistory(ctx context.Context, user string) ([]model.HistoryEntry, error)
	SaveCloudHistory(ctx context.Context, user string, entries []model.HistoryEntry) error
}

// Simulated is a Remote backed by a local table with artificial latency.
type Simulated struct {
	store  ListStore
	delays Delays
	logger *zap.SugaredLogger
	mu     sync.Mutex
}

var _ Remote = (*Simulated)(nil)

// NewSimulated creates a simulated remote on store.
func NewSimulated(store ListStore, delays Delays, logger *zap.SugaredLogger) *Simulated {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Simulated{store: store, delays: delays, logger: logger}
}

// Fetch implements Remote.
func (s *Simulated) Fetch(ctx context.Context, user string) ([]model.HistoryEntry, error) {
	key, err := Namespace(user)
	if err != nil {
		return nil, err
	}
	if err := wait(ctx, s.delays.Fetch); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.store.LoadCloudHistory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cloud history: %w", err)
	}
	s.logger.Infow("cloud connected", "user", key, "entries", len(list))
	return list, nil
}

// Put implements Remote.
func (s *Simulated) Put(ctx context.Context, user string, entry model.HistoryEntry) error {
	key, err := Namespace(user)
	if err != nil {
		return err
	}
	if err := wait(ctx, s.delays.Put); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.store.LoadCloudHistory(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load cloud history: %w", err)
	}
	if err := s.store.SaveCloudHistory(ctx, key, prepend(list, entry)); err != nil {
		return fmt.Errorf("failed to save cloud history: %w", err)
	}
	s.logger.Infow("cloud uploaded", "user", key, "topic", entry.Topic)
	return nil
}

// Delete implements Remote.
func (s *Simulated) Delete(ctx context.Context, user, id string) error {
	key, err := Namespace(user)
	if err != nil {
		return err
	}
	if err := wait(ctx, s.delays.Delete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.store.LoadCloudHistory(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load cloud history: %w", err)
	}
	if err := s.store.SaveCloudHistory(ctx, key, without(list, id)); err != nil {
		return fmt.Errorf("failed to save cloud history: %w", err)
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
