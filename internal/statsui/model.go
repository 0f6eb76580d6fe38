// Package statsui is the interactive browser behind `typemaster stats`.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/keymap"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
)

type tab int

const (
	tabOverview tab = iota
	tabChars
	tabFingers
	tabWeak
)

var tabNames = []string{"Overview", "Characters", "Fingers", "Weak Keys"}

const (
	loadTimeout = 5 * time.Second
	dateLayout  = "2006-01-02"
)

var (
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	tabIdleStyle = tabActiveStyle.
			Bold(false).
			Foreground(lipgloss.Color("#B0B0B0")).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

type reportMsg struct {
	seq    int
	report stats.Report
	err    error
}

// Model browses stored sessions. Reports load in the background and only
// the most recent request is applied.
type Model struct {
	src     stats.Source
	cfg     model.StatsConfig
	lessons []string

	seq     int
	loading bool
	report  stats.Report
	err     error

	active   tab
	overview viewport.Model
	weak     viewport.Model
	chars    table.Model
	fingers  table.Model

	width  int
	height int

	editing bool
	fields  []filterField
	focus   int
	formErr string
}

// NewModel builds the browser. Call Init (or run it in a tea.Program) to
// load the first report.
func NewModel(src stats.Source, cfg model.StatsConfig) *Model {
	return &Model{
		src:      src,
		cfg:      cfg,
		lessons:  lessonFilters(),
		overview: viewport.New(0, 0),
		weak:     viewport.New(0, 0),
		chars:    newTable(stats.CharTableHeaders, []int{9, 10, 8, 10, 14}),
		fingers:  newTable(stats.FingerTableHeaders, []int{14, 10, 11, 8, 9}),
		fields:   newFilterFields(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.seq++
	m.loading = true
	seq, src, cfg := m.seq, m.src, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		report, err := stats.BuildReport(ctx, src, cfg)
		return reportMsg{seq: seq, report: report, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.fillTabs()
		return m, nil
	case reportMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.chars.SetRows(tableRows(stats.CharTableRows(msg.report.CharAggsWindow)))
			m.fingers.SetRows(tableRows(stats.FingerTableRows(msg.report.CharAggsWindow)))
		}
		m.fillTabs()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.editing && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "shift+tab":
		m.switchTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.switchTab(1)
		return m, tea.ClearScreen
	case "=", "+":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		return m, m.load()
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		return m, m.load()
	case "]":
		m.cfg.Lesson = m.cycleLesson(1)
		return m, m.load()
	case "[":
		m.cfg.Lesson = m.cycleLesson(-1)
		return m, m.load()
	case "/":
		m.editing = true
		m.formErr = ""
		for i := range m.fields {
			m.fields[i].input.SetValue(m.fields[i].show(m.cfg))
		}
		return m, m.focusField(0)
	}

	var cmd tea.Cmd
	switch m.active {
	case tabOverview:
		m.overview, cmd = m.overview.Update(msg)
	case tabChars:
		m.chars, cmd = m.chars.Update(msg)
	case tabFingers:
		m.fingers, cmd = m.fingers.Update(msg)
	case tabWeak:
		m.weak, cmd = m.weak.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchTab(delta int) {
	count := len(tabNames)
	m.active = tab((int(m.active) + delta + count) % count)
	m.chars.Blur()
	m.fingers.Blur()
	switch m.active {
	case tabChars:
		m.chars.Focus()
	case tabFingers:
		m.fingers.Focus()
	}
}

// cycleLesson steps the lesson filter through "any" and the catalogue.
func (m *Model) cycleLesson(delta int) string {
	idx := 0
	for i, id := range m.lessons {
		if strings.EqualFold(id, m.cfg.Lesson) {
			idx = i
			break
		}
	}
	count := len(m.lessons)
	return m.lessons[(idx+delta+count)%count]
}

func lessonFilters() []string {
	ids := []string{""}
	for _, lesson := range content.Catalogue() {
		ids = append(ids, lesson.ID)
	}
	return append(ids, content.GeneratedLessonID, content.UploadLessonID)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs() + "\n" + m.renderSettings()
	footer := m.renderHelp()
	height := m.bodyHeight()
	body := lipgloss.NewStyle().
		MaxWidth(m.width).
		Height(height).
		MaxHeight(height).
		Render(m.renderBody())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) bodyHeight() int {
	used := lipgloss.Height(m.renderTabs()) + 1 + lipgloss.Height(m.renderHelp())
	return max(1, m.height-used)
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	height := m.bodyHeight()
	for _, vp := range []*viewport.Model{&m.overview, &m.weak} {
		vp.Width = m.width
		vp.Height = height
	}
	for _, t := range []*table.Model{&m.chars, &m.fingers} {
		t.SetWidth(m.width)
		t.SetHeight(max(1, height-1))
	}
	for i := range m.fields {
		in := &m.fields[i].input
		in.Width = max(10, m.width-lipgloss.Width(in.Prompt)-2)
	}
}

func (m *Model) fillTabs() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
	m.weak.SetContent(renderWeak(m.report, m.cfg.WeakTop))
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := tabIdleStyle
		if tab(i) == m.active {
			style = tabActiveStyle
		}
		parts[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSettings() string {
	lesson := "any"
	if m.cfg.Lesson != "" {
		lesson = m.cfg.Lesson
		if l, ok := content.FindLesson(m.cfg.Lesson); ok {
			lesson = l.Title
		}
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	line := fmt.Sprintf("Lesson: %s · Since: %s · Last: %s · Window: %d", lesson, since, last, m.cfg.CurveWindow)
	if m.loading {
		line += " · loading"
	}
	return mutedStyle.Render(runewidth.Truncate(line, m.width, "…"))
}

func (m *Model) renderHelp() string {
	if m.editing {
		return mutedStyle.Render("tab/shift+tab field · enter apply · esc cancel")
	}
	help := mutedStyle.Render("←/→ tabs · ↑/↓ scroll · [/] lesson · -/= window · / filter · q quit")
	if m.err != nil {
		return help + "\n" + errStyle.Render(m.err.Error())
	}
	return help
}

func (m *Model) renderBody() string {
	switch {
	case m.editing:
		return m.renderForm()
	case m.err != nil:
		return "Failed to load stats."
	case m.loading && len(m.report.Sessions) == 0:
		return mutedStyle.Render("Loading sessions...")
	case len(m.report.Sessions) == 0:
		return "No sessions found."
	}
	switch m.active {
	case tabChars, tabFingers:
		if len(m.report.CharAggsWindow) == 0 {
			return "No character stats found."
		}
		if m.active == tabChars {
			return tableTextStyle.Render(m.chars.View())
		}
		return tableTextStyle.Render(m.fingers.View())
	case tabWeak:
		return m.weak.View()
	default:
		return m.overview.View()
	}
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var curves bytes.Buffer
	if err := stats.RenderCurves(&curves, sessions, window, width); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(overviewCards(sessions, width)+"\n\n"+curves.String(), "\n")
}

func overviewCards(sessions []model.SessionAggregate, width int) string {
	var wpm, acc float64
	var mistakes int
	var spent int64
	best := 0
	for _, s := range sessions {
		wpm += float64(s.WPM)
		acc += float64(s.Accuracy)
		mistakes += s.Errors
		spent += s.DurationMs
		best = max(best, s.WPM)
	}
	n := float64(len(sessions))
	practice := (time.Duration(spent) * time.Millisecond).Round(time.Second)
	cards := []string{
		card("Sessions", strconv.Itoa(len(sessions))),
		card("Avg WPM", fmt.Sprintf("%.1f", wpm/n)),
		card("Best WPM", strconv.Itoa(best)),
		card("Avg Accuracy", fmt.Sprintf("%.1f%%", acc/n)),
		card("Errors", strconv.Itoa(mistakes)),
		card("Practice", practice.String()),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...),
	)
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderWeak(report stats.Report, top int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderWeakChars(&buf, report.CharAggsWindow, top); err != nil {
		return fmt.Sprintf("Failed to render weak keys: %v", err)
	}
	lines := []string{
		mutedStyle.Render(fmt.Sprintf("Based on the last %d sessions", len(report.WindowSessionIDs))),
		strings.TrimRight(buf.String(), "\n"),
	}
	layout := keymap.Default()
	for _, ch := range stats.SelectWeakChars(report.CharAggsWindow, top) {
		runes := []rune(ch)
		if len(runes) != 1 {
			continue
		}
		if key, ok := layout.Lookup(runes[0]); ok {
			hint := key.Finger.String()
			if key.Shift {
				hint += " + shift"
			}
			lines = append(lines, fmt.Sprintf("  %-7s %s", key.Label, mutedStyle.Render(hint)))
		}
	}
	return strings.Join(lines, "\n")
}

func newTable(headers []string, widths []int) table.Model {
	columns := make([]table.Column, len(headers))
	for i, title := range headers {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(8))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func tableRows(src [][]string) []table.Row {
	rows := make([]table.Row, len(src))
	for i, r := range src {
		rows[i] = table.Row(r)
	}
	return rows
}

const (
	fieldLesson = iota
	fieldSince
	fieldLast
	fieldWindow
)

// filterField binds one form input to a StatsConfig field.
type filterField struct {
	input textinput.Model
	show  func(model.StatsConfig) string
	apply func(*model.StatsConfig, string) error
}

func newFilterFields() []filterField {
	return []filterField{
		fieldLesson: {
			input: newFieldInput("Lesson: "),
			show:  func(c model.StatsConfig) string { return c.Lesson },
			apply: func(c *model.StatsConfig, v string) error {
				c.Lesson = v
				return nil
			},
		},
		fieldSince: {
			input: newFieldInput("Since (YYYY-MM-DD): "),
			show: func(c model.StatsConfig) string {
				if c.Since == nil {
					return ""
				}
				return c.Since.Format(dateLayout)
			},
			apply: func(c *model.StatsConfig, v string) error {
				c.Since = nil
				if v == "" {
					return nil
				}
				since, err := time.ParseInLocation(dateLayout, v, time.Local)
				if err != nil {
					return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
				}
				c.Since = &since
				return nil
			},
		},
		fieldLast: {
			input: newFieldInput("Last sessions: "),
			show: func(c model.StatsConfig) string {
				if c.Last <= 0 {
					return ""
				}
				return strconv.Itoa(c.Last)
			},
			apply: func(c *model.StatsConfig, v string) error {
				c.Last = 0
				if v == "" {
					return nil
				}
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					return fmt.Errorf("invalid last value (use 0 or a positive integer)")
				}
				c.Last = n
				return nil
			},
		},
		fieldWindow: {
			input: newFieldInput("Curve window: "),
			show:  func(c model.StatsConfig) string { return strconv.Itoa(c.CurveWindow) },
			apply: func(c *model.StatsConfig, v string) error {
				if v == "" {
					return nil
				}
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 {
					return fmt.Errorf("invalid curve window (use an integer >= 1)")
				}
				c.CurveWindow = n
				return nil
			},
		},
	}
}

func newFieldInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.formErr = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseFilter()
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.editing = false
		m.formErr = ""
		m.resize()
		return m, m.load()
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusField(m.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusField(m.focus - 1)
	}
	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m *Model) focusField(idx int) tea.Cmd {
	count := len(m.fields)
	m.focus = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.focus {
			cmd = m.fields[i].input.Focus()
			continue
		}
		m.fields[i].input.Blur()
	}
	return cmd
}

func (m *Model) renderForm() string {
	lines := []string{"Filter sessions"}
	for _, f := range m.fields {
		lines = append(lines, f.input.View())
	}
	if m.formErr != "" {
		lines = append(lines, errStyle.Render(m.formErr))
	}
	return strings.Join(lines, "\n")
}

// parseFilter applies every form field to a copy of the current config.
func (m *Model) parseFilter() (model.StatsConfig, error) {
	cfg := m.cfg
	for _, f := range m.fields {
		if err := f.apply(&cfg, strings.TrimSpace(f.input.Value())); err != nil {
			return m.cfg, err
		}
	}
	return cfg, nil
}

// nextCurveWindow and prevCurveWindow step the window in multiples of five.
func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	switch {
	case n <= 5:
		return 1
	case n%5 == 0:
		return n - 5
	default:
		return n / 5 * 5
	}
}
