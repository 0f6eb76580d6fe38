package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/model"
)

type fakeSource struct {
	sessions []model.SessionAggregate
	aggs     []model.CharAggregate
	err      error
	lastCfg  model.StatsConfig
}

func (f *fakeSource) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	f.lastCfg = cfg
	return f.sessions, f.err
}

func (f *fakeSource) ListCharAggregatesForSessions(context.Context, []int64) ([]model.CharAggregate, error) {
	return f.aggs, nil
}

func sampleSource() *fakeSource {
	return &fakeSource{
		sessions: []model.SessionAggregate{
			{SessionID: 1, Typed: 100, Errors: 5, WPM: 40, Accuracy: 95, DurationMs: 60000},
			{SessionID: 2, Typed: 120, Errors: 2, WPM: 48, Accuracy: 98, DurationMs: 60000},
		},
		aggs: []model.CharAggregate{
			{Char: "a", Correct: 10, Incorrect: 0},
			{Char: "q", Correct: 3, Incorrect: 3},
		},
	}
}

// newLoaded returns a sized model with its first report applied.
func newLoaded(t *testing.T, src *fakeSource, cfg model.StatsConfig) *Model {
	t.Helper()
	m := NewModel(src, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	run(m, m.Init())
	return m
}

func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	m.Update(cmd())
}

func press(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestOverviewShowsSummaryCards(t *testing.T) {
	m := newLoaded(t, sampleSource(), model.StatsConfig{CurveWindow: 5})
	view := m.View()
	for _, want := range []string{"Overview", "Best WPM", "48", "Practice", "2m0s", "Learning Curves"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestLoadingShownBeforeReport(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Init()
	if !strings.Contains(m.View(), "Loading sessions") {
		t.Fatalf("expected loading placeholder:\n%s", m.View())
	}
}

func TestStaleReportIgnored(t *testing.T) {
	src := sampleSource()
	m := NewModel(src, model.StatsConfig{CurveWindow: 5})
	first := m.Init()
	second := m.load()
	sessions := src.sessions
	src.sessions = nil
	run(m, second)
	src.sessions = sessions
	run(m, first)
	if len(m.report.Sessions) != 0 {
		t.Fatalf("expected the older report to be dropped")
	}
}

func TestFingersTabListsFingers(t *testing.T) {
	m := newLoaded(t, sampleSource(), model.StatsConfig{CurveWindow: 5})
	press(m, "l")
	press(m, "l")
	if m.active != tabFingers {
		t.Fatalf("expected fingers tab, got %d", m.active)
	}
	if !strings.Contains(m.View(), "left pinky") {
		t.Fatalf("expected finger rows in view:\n%s", m.View())
	}
}

func TestWeakTabListsFocusKeys(t *testing.T) {
	m := newLoaded(t, sampleSource(), model.StatsConfig{CurveWindow: 5, WeakTop: 3})
	press(m, "h")
	if m.active != tabWeak {
		t.Fatalf("expected weak tab, got %d", m.active)
	}
	view := m.View()
	if !strings.Contains(view, "Focus keys: q") {
		t.Fatalf("expected focus keys in view:\n%s", view)
	}
	if !strings.Contains(view, "left pinky") {
		t.Fatalf("expected finger hint for q:\n%s", view)
	}
}

func TestFilterAppliesLesson(t *testing.T) {
	src := sampleSource()
	m := newLoaded(t, src, model.StatsConfig{CurveWindow: 5})
	press(m, "/")
	if !m.editing {
		t.Fatalf("expected filter form")
	}
	press(m, "3")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Fatalf("expected filter form to close")
	}
	run(m, cmd)
	if src.lastCfg.Lesson != "3" {
		t.Fatalf("expected lesson filter 3, got %q", src.lastCfg.Lesson)
	}
	if !strings.Contains(m.View(), "Top Row") {
		t.Fatalf("expected lesson title in settings line:\n%s", m.View())
	}
}

func TestFilterRejectsBadWindow(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 5})
	m.fields[fieldWindow].input.SetValue("0")
	cfg, err := m.parseFilter()
	if err == nil {
		t.Fatalf("expected error for zero window")
	}
	if cfg.CurveWindow != 5 {
		t.Fatalf("expected config to stay unchanged, got %d", cfg.CurveWindow)
	}
}

func TestFilterParsesSinceAndLast(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 5})
	m.fields[fieldSince].input.SetValue("2026-03-01")
	m.fields[fieldLast].input.SetValue("7")
	cfg, err := m.parseFilter()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Format(dateLayout) != "2026-03-01" || cfg.Last != 7 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLessonCycleWraps(t *testing.T) {
	src := sampleSource()
	m := newLoaded(t, src, model.StatsConfig{CurveWindow: 5})
	run(m, press(m, "]"))
	if src.lastCfg.Lesson != "1" {
		t.Fatalf("expected first catalogue lesson, got %q", src.lastCfg.Lesson)
	}
	run(m, press(m, "["))
	run(m, press(m, "["))
	if src.lastCfg.Lesson != "upload" {
		t.Fatalf("expected wrap to the last filter, got %q", src.lastCfg.Lesson)
	}
}

func TestLoadErrorShown(t *testing.T) {
	src := sampleSource()
	src.err = errors.New("boom")
	m := NewModel(src, model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	run(m, m.Init())
	if !strings.Contains(m.View(), "boom") {
		t.Fatalf("expected error in footer")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	tests := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tt := range tests {
		if got := nextCurveWindow(tt.in); got != tt.next {
			t.Fatalf("next(%d) = %d, want %d", tt.in, got, tt.next)
		}
		if got := prevCurveWindow(tt.in); got != tt.prev {
			t.Fatalf("prev(%d) = %d, want %d", tt.in, got, tt.prev)
		}
	}
}
