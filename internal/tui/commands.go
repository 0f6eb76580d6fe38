package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

const (
	tickInterval   = time.Second
	resolveTimeout = 60 * time.Second
	storeTimeout   = 5 * time.Second
)

type resolvedMsg struct {
	res content.Resolution
}

type tickMsg struct {
	token session.Token
	at    time.Time
}

type historyMsg struct {
	entries []model.HistoryEntry
	err     error
}

type savedMsg struct {
	sessions []model.SessionAggregate
	err      error
}

func (m *Model) resolveCmd(token session.Token, lesson model.Lesson) tea.Cmd {
	resolver := m.deps.Resolver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		return resolvedMsg{res: resolver.Resolve(ctx, token, lesson)}
	}
}

func tickCmd(token session.Token) tea.Cmd {
	return tea.Tick(tickInterval, func(at time.Time) tea.Msg {
		return tickMsg{token: token, at: at}
	})
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	svc := m.deps.History
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := svc.List(ctx)
		return historyMsg{entries: entries, err: err}
	}
}

func (m *Model) addHistoryCmd(topic string, format model.Format) tea.Cmd {
	svc := m.deps.History
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := svc.Add(ctx, topic, format)
		return historyMsg{entries: entries, err: err}
	}
}

func (m *Model) deleteHistoryCmd(id string) tea.Cmd {
	svc := m.deps.History
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := svc.Delete(ctx, id)
		return historyMsg{entries: entries, err: err}
	}
}

func (m *Model) loadSessionsCmd() tea.Cmd {
	st := m.deps.Store
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		sessions, err := st.ListSessions(ctx, model.StatsConfig{})
		return savedMsg{sessions: sessions, err: err}
	}
}

func (m *Model) saveSessionCmd(snap session.Snapshot, lesson model.Lesson, melodyTitle string, endedAt time.Time) tea.Cmd {
	st := m.deps.Store
	if st == nil || snap.StartedAt.IsZero() {
		return nil
	}
	stats := model.SessionStats{
		StartedAt:   snap.StartedAt,
		EndedAt:     endedAt,
		LessonID:    lesson.ID,
		LessonMode:  lesson.Mode,
		TextLength:  len(snap.Target),
		Typed:       len(snap.Typed),
		Errors:      snap.Stats.Errors,
		WPM:         snap.Stats.WPM,
		Accuracy:    snap.Stats.Accuracy,
		DurationMs:  endedAt.Sub(snap.StartedAt).Milliseconds(),
		MelodyTitle: melodyTitle,
	}
	chars := session.CharStats(snap)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if _, err := st.InsertSession(ctx, stats, chars); err != nil {
			return savedMsg{err: err}
		}
		sessions, err := st.ListSessions(ctx, model.StatsConfig{})
		return savedMsg{sessions: sessions, err: err}
	}
}
