package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/audio"
	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

type fixedDrills struct {
	text  string
	calls int
}

func (f *fixedDrills) Drill(model.ContentMode) string {
	f.calls++
	return f.text
}

type memStore struct {
	inserted []model.SessionStats
	chars    [][]model.CharStats
}

func (s *memStore) InsertSession(_ context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error) {
	s.inserted = append(s.inserted, stats)
	s.chars = append(s.chars, chars)
	return int64(len(s.inserted)), nil
}

func (s *memStore) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	out := make([]model.SessionAggregate, 0, len(s.inserted))
	for i, st := range s.inserted {
		out = append(out, model.SessionAggregate{SessionID: int64(i + 1), WPM: st.WPM, Accuracy: st.Accuracy})
	}
	return out, nil
}

type countingPlayer struct {
	tones [][]audio.Tone
}

func (p *countingPlayer) Play(tones ...audio.Tone) error {
	p.tones = append(p.tones, tones)
	return nil
}

func newTestModel(text string) (*Model, *memStore, *countingPlayer) {
	st := &memStore{}
	player := &countingPlayer{}
	m := NewModel(Deps{
		Resolver: content.NewResolver(&fixedDrills{text: text}, nil, nil),
		Store:    st,
		Feedback: audio.NewFeedback(player, nil),
	}, Options{})
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * time.Second)
	}
	return m, st, player
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func startFirstLesson(t *testing.T, m *Model) resolvedMsg {
	t.Helper()
	_, cmd := m.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("expected resolve command")
	}
	if m.snap.State != session.StateLoading {
		t.Fatalf("expected loading state, got %s", m.snap.State)
	}
	msg, ok := cmd().(resolvedMsg)
	if !ok {
		t.Fatalf("expected resolvedMsg")
	}
	return msg
}

func TestPracticeFlowSavesCompletedSession(t *testing.T) {
	m, st, player := newTestModel("ab")
	msg := startFirstLesson(t, m)
	m.Update(msg)
	if m.snap.State != session.StateActive || string(m.snap.Target) != "ab" {
		t.Fatalf("expected active session with target, got %s %q", m.snap.State, string(m.snap.Target))
	}

	m.Update(typed("x"))
	m.Update(key(tea.KeyBackspace))
	_, cmd := m.Update(typed("ab"))
	if m.screen != screenSummary {
		t.Fatalf("expected summary screen, got %d", m.screen)
	}
	if cmd == nil {
		t.Fatalf("expected save command")
	}
	saved, ok := cmd().(savedMsg)
	if !ok || saved.err != nil {
		t.Fatalf("expected successful save, got %#v", saved)
	}
	m.Update(saved)

	if len(st.inserted) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(st.inserted))
	}
	got := st.inserted[0]
	if got.Errors != 1 || got.Typed != 2 || got.TextLength != 2 {
		t.Fatalf("unexpected stored stats: %+v", got)
	}
	if got.Accuracy != 50 {
		t.Fatalf("expected accuracy 50, got %d", got.Accuracy)
	}
	if !m.hasLast || m.lastAcc != 50 {
		t.Fatalf("expected footer stats to update")
	}
	// error, correct, correct + completion
	if len(player.tones) != 4 {
		t.Fatalf("expected 4 cues, got %d", len(player.tones))
	}
}

func TestStaleResolutionIgnored(t *testing.T) {
	m, _, _ := newTestModel("abc")
	stale := startFirstLesson(t, m)

	m.Update(key(tea.KeyCtrlN))
	if m.snap.Token == stale.res.Token {
		t.Fatalf("expected a new token after ctrl+n")
	}
	m.Update(stale)
	if m.snap.State != session.StateLoading {
		t.Fatalf("stale resolution must not activate the session")
	}
}

func TestTickIgnoresOtherTokens(t *testing.T) {
	m, _, _ := newTestModel("abc")
	m.Update(startFirstLesson(t, m))
	m.Update(typed("a"))

	_, cmd := m.Update(tickMsg{token: m.snap.Token + 1, at: time.Now()})
	if cmd != nil {
		t.Fatalf("expected tick for old token to stop")
	}
	_, cmd = m.Update(tickMsg{token: m.snap.Token, at: m.snap.StartedAt.Add(12 * time.Second)})
	if cmd == nil {
		t.Fatalf("expected tick to reschedule")
	}
	if m.snap.Stats.Elapsed != 12 {
		t.Fatalf("expected elapsed 12, got %d", m.snap.Stats.Elapsed)
	}
}

func TestEscWithoutTypingReturnsToMenu(t *testing.T) {
	m, st, _ := newTestModel("abc")
	m.Update(startFirstLesson(t, m))
	m.Update(key(tea.KeyEsc))
	if m.screen != screenMenu {
		t.Fatalf("expected menu, got %d", m.screen)
	}
	if len(st.inserted) != 0 {
		t.Fatalf("expected nothing stored")
	}
}

func TestEscMidLessonShowsSummary(t *testing.T) {
	m, st, _ := newTestModel("abc")
	m.Update(startFirstLesson(t, m))
	m.Update(typed("a"))
	m.Update(key(tea.KeyEsc))
	if m.screen != screenSummary {
		t.Fatalf("expected summary, got %d", m.screen)
	}
	if !strings.Contains(m.View(), "Lesson stopped") {
		t.Fatalf("expected stopped summary in view")
	}
	if len(st.inserted) != 0 {
		t.Fatalf("partial sessions are not stored")
	}
}

func TestRetryKeepsTarget(t *testing.T) {
	m, _, _ := newTestModel("abc")
	m.Update(startFirstLesson(t, m))
	m.Update(typed("ab"))
	token := m.snap.Token
	m.Update(key(tea.KeyTab))
	if m.snap.Token == token {
		t.Fatalf("expected retry to issue a new token")
	}
	if string(m.snap.Target) != "abc" || len(m.snap.Typed) != 0 {
		t.Fatalf("expected fresh session on same text")
	}
}

func TestEnterOnlyTypesNewlineTargets(t *testing.T) {
	m, _, _ := newTestModel("a\nb")
	m.Update(startFirstLesson(t, m))
	m.Update(key(tea.KeyEnter))
	if len(m.snap.Typed) != 0 {
		t.Fatalf("enter must not type when a letter is expected")
	}
	m.Update(typed("a"))
	m.Update(key(tea.KeyEnter))
	if string(m.snap.Typed) != "a\n" {
		t.Fatalf("expected newline typed, got %q", string(m.snap.Typed))
	}
}

func TestMenuTogglesMute(t *testing.T) {
	m, _, _ := newTestModel("abc")
	m.Update(typed("m"))
	if !m.deps.Feedback.Muted() {
		t.Fatalf("expected muted after m")
	}
	if !strings.Contains(m.renderFooter(), "Sound off") {
		t.Fatalf("expected footer to show muted state: %s", m.renderFooter())
	}
}

func TestRenderHintShowsFinger(t *testing.T) {
	m, _, _ := newTestModel("A")
	m.Update(startFirstLesson(t, m))
	hint := m.renderHint()
	if !strings.Contains(hint, "left pinky + shift") {
		t.Fatalf("expected finger hint, got %q", hint)
	}
}

func TestTopicScreenStartsGeneratedLesson(t *testing.T) {
	m, _, _ := newTestModel("abc")
	for i := range m.lessons {
		if m.lessons[i].Mode == model.ModeGenerated {
			m.menuCursor = i
		}
	}
	m.Update(key(tea.KeyEnter))
	if m.screen != screenTopic {
		t.Fatalf("expected topic screen, got %d", m.screen)
	}
	m.Update(key(tea.KeyTab))
	m.Update(typed("go"))
	m.Update(key(tea.KeyEnter))
	if m.screen != screenPractice {
		t.Fatalf("expected practice screen, got %d", m.screen)
	}
	if m.lesson.Topic != "go" || m.lesson.Format != model.FormatStory {
		t.Fatalf("unexpected lesson: %+v", m.lesson)
	}
}

func TestMissedChars(t *testing.T) {
	got := missedChars([]model.Mistake{{Expected: 'a'}, {Expected: ' '}, {Expected: 'a'}, {Expected: '\n'}})
	if got != "a space enter" {
		t.Fatalf("unexpected missed chars %q", got)
	}
}

func TestRenderHintIncludesKeyboard(t *testing.T) {
	m, _, _ := newTestModel("a b")
	m.Update(startFirstLesson(t, m))
	hint := m.renderHint()
	for _, want := range []string{"left pinky", "q w e r t y", "a s d f g", "[ space ]"} {
		if !strings.Contains(hint, want) {
			t.Fatalf("expected %q in hint:\n%s", want, hint)
		}
	}
}
