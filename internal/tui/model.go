// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/audio"
	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/history"
	"github.com/verte-zerg/typemaster/internal/keymap"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

type screen int

const (
	screenMenu screen = iota
	screenTopic
	screenPractice
	screenSummary
)

// SessionStore persists finished sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
}

// Deps are the collaborators of the typing UI. Store, History and Feedback
// may be nil.
type Deps struct {
	Resolver *content.Resolver
	Store    SessionStore
	History  *history.Service
	Feedback *audio.Feedback
	Keymap   *keymap.Table
	Logger   *zap.SugaredLogger
}

// Options select what the UI starts with.
type Options struct {
	// Start skips the menu and practices this lesson right away.
	Start *model.Lesson
	// Upload adds a fixed-text lesson to the menu.
	Upload *model.Lesson
	Format model.Format
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	deps Deps
	opts Options

	screen screen
	width  int
	height int

	lessons    []model.Lesson
	menuCursor int

	lesson  model.Lesson
	snap    session.Snapshot
	endedAt time.Time

	topicInput   textinput.Model
	formats      []model.Format
	formatIdx    int
	history      []model.HistoryEntry
	historyTable table.Model

	lastWPM int
	lastAcc int
	hasLast bool
	allWPM  float64
	allAcc  float64

	now func() time.Time
}

// NewModel constructs a typing TUI model.
func NewModel(deps Deps, opts Options) *Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Keymap == nil {
		deps.Keymap = keymap.Default()
	}
	m := &Model{
		deps:    deps,
		opts:    opts,
		snap:    session.Idle(),
		formats: model.Formats(),
		now:     time.Now,
	}
	m.lessons = menuLessons(opts.Upload)
	for i, f := range m.formats {
		if f == opts.Format {
			m.formatIdx = i
		}
	}
	m.topicInput = newTopicInput()
	m.historyTable = newHistoryTable()
	return m
}

func menuLessons(upload *model.Lesson) []model.Lesson {
	lessons := content.Catalogue()
	generated := content.GeneratedLesson("", model.FormatParagraph)
	generated.Title = "AI Generator"
	generated.Description = "Generate practice text about any topic."
	lessons = append(lessons, generated)
	if upload != nil {
		lessons = append(lessons, *upload)
	}
	return lessons
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadSessionsCmd()}
	if m.opts.Start != nil {
		lesson := *m.opts.Start
		cmds = append(cmds, m.startLesson(lesson))
		if lesson.Mode.Generative() {
			cmds = append(cmds, m.addHistoryCmd(lesson.Topic, lesson.Format))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topicInput.Width = max(20, m.width/2)
		return m, nil
	case resolvedMsg:
		return m.handleResolved(msg)
	case tickMsg:
		return m.handleTick(msg)
	case historyMsg:
		if msg.err != nil {
			m.deps.Logger.Warnw("history update failed", "error", msg.err)
		}
		if msg.entries != nil || msg.err == nil {
			m.setHistory(msg.entries)
		}
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.deps.Logger.Errorw("failed to save session", "error", msg.err)
			return m, nil
		}
		m.updateFooterStats(msg.sessions)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenTopic:
			return m.updateTopic(msg)
		case screenPractice:
			return m.updatePractice(msg)
		case screenSummary:
			return m.updateSummary(msg)
		}
	}
	return m, nil
}

func (m *Model) handleResolved(msg resolvedMsg) (tea.Model, tea.Cmd) {
	next, err := session.Load(m.snap, msg.res.Token, msg.res.Text)
	if errors.Is(err, session.ErrStale) {
		m.deps.Logger.Debugw("dropping stale content", "token", msg.res.Token, "current", m.snap.Token)
		return m, nil
	}
	m.snap = next
	return m, tickCmd(next.Token)
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.snap.Token || m.snap.State != session.StateActive {
		return m, nil
	}
	m.snap = session.Tick(m.snap, msg.at)
	return m, tickCmd(msg.token)
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.lessons)-1 {
			m.menuCursor++
		}
	case "m":
		if m.deps.Feedback != nil {
			m.deps.Feedback.SetMuted(!m.deps.Feedback.Muted())
		}
	case "enter":
		lesson := m.lessons[m.menuCursor]
		if lesson.Mode == model.ModeGenerated {
			m.screen = screenTopic
			m.topicInput.SetValue("")
			return m, tea.Batch(m.topicInput.Focus(), m.loadHistoryCmd())
		}
		return m, m.startLesson(lesson)
	}
	return m, nil
}

func (m *Model) updateTopic(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.topicInput.Blur()
		m.screen = screenMenu
		return m, nil
	case tea.KeyTab:
		m.formatIdx = (m.formatIdx + 1) % len(m.formats)
		return m, nil
	case tea.KeyShiftTab:
		m.formatIdx = (m.formatIdx + len(m.formats) - 1) % len(m.formats)
		return m, nil
	case tea.KeyUp:
		m.historyTable.MoveUp(1)
		return m, nil
	case tea.KeyDown:
		m.historyTable.MoveDown(1)
		return m, nil
	case tea.KeyCtrlD:
		if entry, ok := m.selectedHistory(); ok {
			return m, m.deleteHistoryCmd(entry.ID)
		}
		return m, nil
	case tea.KeyEnter:
		topic := strings.TrimSpace(m.topicInput.Value())
		format := m.formats[m.formatIdx]
		if topic == "" {
			if entry, ok := m.selectedHistory(); ok {
				topic, format = entry.Topic, entry.Format
			}
		}
		m.topicInput.Blur()
		lesson := content.GeneratedLesson(topic, format)
		return m, tea.Batch(m.startLesson(lesson), m.addHistoryCmd(topic, format))
	}
	var cmd tea.Cmd
	m.topicInput, cmd = m.topicInput.Update(msg)
	return m, cmd
}

func (m *Model) updatePractice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.leave()
	case tea.KeyTab:
		return m, m.retry()
	case tea.KeyCtrlN:
		return m, m.newText()
	}
	if m.snap.State != session.StateActive {
		return m, nil
	}
	for _, ev := range practiceEvents(msg, m.now()) {
		var effects []session.Effect
		m.snap, effects = session.Apply(m.snap, ev)
		if m.deps.Feedback != nil && len(effects) > 0 {
			m.deps.Feedback.Handle(effects)
		}
		if m.snap.Completed() {
			m.endedAt = ev.At
			m.screen = screenSummary
			return m, m.saveSessionCmd(m.snap, m.lesson, m.melodyTitle(), ev.At)
		}
	}
	return m, nil
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.snap, _ = session.Leave(m.snap)
		m.screen = screenMenu
		return m, nil
	case "enter", "tab", "r":
		return m, m.retry()
	case "n", "ctrl+n":
		return m, m.newText()
	}
	return m, nil
}

// leave returns to the menu, passing through the summary when the learner
// had started typing.
func (m *Model) leave() (tea.Model, tea.Cmd) {
	now := m.now()
	next, summary := session.Leave(session.Tick(m.snap, now))
	m.snap = next
	if summary {
		m.endedAt = now
		m.screen = screenSummary
		return m, nil
	}
	m.screen = screenMenu
	return m, nil
}

func (m *Model) startLesson(lesson model.Lesson) tea.Cmd {
	m.lesson = lesson
	m.snap = session.Begin(m.snap)
	m.screen = screenPractice
	return m.resolveCmd(m.snap.Token, lesson)
}

func (m *Model) retry() tea.Cmd {
	if len(m.snap.Target) == 0 {
		return nil
	}
	m.snap = session.Retry(m.snap)
	m.screen = screenPractice
	return tickCmd(m.snap.Token)
}

func (m *Model) newText() tea.Cmd {
	if !content.Regenerates(m.lesson) {
		return m.retry()
	}
	return m.startLesson(m.lesson)
}

func (m *Model) melodyTitle() string {
	if m.deps.Feedback == nil {
		return ""
	}
	if mel := m.deps.Feedback.Melody(); mel != nil {
		return mel.Title
	}
	return ""
}

func (m *Model) selectedHistory() (model.HistoryEntry, bool) {
	idx := m.historyTable.Cursor()
	if idx < 0 || idx >= len(m.history) {
		return model.HistoryEntry{}, false
	}
	return m.history[idx], true
}

func (m *Model) setHistory(entries []model.HistoryEntry) {
	m.history = entries
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.Topic, string(e.Format), e.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	m.historyTable.SetRows(rows)
	if m.historyTable.Cursor() >= len(rows) {
		m.historyTable.SetCursor(max(0, len(rows)-1))
	}
}

func (m *Model) updateFooterStats(sessions []model.SessionAggregate) {
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	var wpm, acc float64
	for _, s := range sessions {
		wpm += float64(s.WPM)
		acc += float64(s.Accuracy)
	}
	m.allWPM = wpm / float64(len(sessions))
	m.allAcc = acc / float64(len(sessions))
}
