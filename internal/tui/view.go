package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/keymap"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	hintKeyStyle     = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

func newTopicInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Topic: "
	input.Placeholder = "space exploration, cooking, golang..."
	input.CharLimit = 120
	return input
}

func newHistoryTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Recent topic", Width: 32},
			{Title: "Format", Width: 16},
			{Title: "Created", Width: 16},
		}),
		table.WithHeight(8),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.NoColor{}).
		Bold(true)
	t.SetStyles(styles)
	return t
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenMenu:
		body = m.renderMenu()
	case screenTopic:
		body = m.renderTopic()
	case screenPractice:
		body = m.renderPractice()
	case screenSummary:
		body = m.renderSummary()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	content := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return content + "\n" + footerLine
}

func (m *Model) renderMenu() string {
	lines := []string{titleStyle.Render("TypeMaster"), ""}
	for i, lesson := range m.lessons {
		marker := "  "
		title := lesson.Title
		if i == m.menuCursor {
			marker = "› "
			title = selectedStyle.Render(title)
		}
		lines = append(lines, marker+title+"  "+footerStyle.Render(lesson.Description))
	}
	lines = append(lines, "", footerStyle.Render("↑/↓ select · enter start · m sound · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderTopic() string {
	format := m.formats[m.formatIdx]
	lines := []string{
		titleStyle.Render("AI Generator"),
		"",
		m.topicInput.View(),
		fmt.Sprintf("Format: ‹ %s ›", selectedStyle.Render(string(format))),
		"",
	}
	if len(m.history) > 0 {
		lines = append(lines, m.historyTable.View(), "")
	}
	lines = append(lines, footerStyle.Render("enter generate · tab format · ↑/↓ recent · ctrl+d delete · esc back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderPractice() string {
	if m.snap.State == session.StateLoading {
		return pendingStyle.Render("Preparing lesson...")
	}
	if len(m.snap.Target) == 0 {
		return ""
	}
	styled := buildStyledRunes(m.snap.Target, m.snap.Typed, m.snap.Cursor())
	text := renderStyledRunes(styled)
	if m.width > 0 {
		contentWidth := max(1, int(float64(m.width)*0.70))
		text = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	}
	parts := []string{renderLiveStats(m.snap.Stats), "", text, ""}
	if hint := m.renderHint(); hint != "" {
		parts = append(parts, hint)
	}
	parts = append(parts, footerStyle.Render("esc menu · tab retry · ctrl+n new text"))
	return strings.Join(parts, "\n")
}

func renderLiveStats(s session.Stats) string {
	return footerStyle.Render(fmt.Sprintf("WPM %d · Accuracy %d%% · Errors %d · Progress %d%% · %ds",
		s.WPM, s.Accuracy, s.Errors, s.Progress, s.Elapsed))
}

// renderHint shows the next key and the finger that should press it.
func (m *Model) renderHint() string {
	r, ok := m.snap.NextRune()
	if !ok {
		return ""
	}
	key, ok := m.deps.Keymap.Lookup(r)
	if !ok {
		return ""
	}
	finger := key.Finger.String()
	if key.Shift {
		finger += " + shift"
	}
	hint := lipgloss.JoinHorizontal(lipgloss.Center, hintKeyStyle.Render(key.Label), " "+footerStyle.Render(finger))
	return hint + "\n" + m.renderKeyboard(key)
}

// renderKeyboard draws the layout rows with the key for next highlighted.
func (m *Model) renderKeyboard(next keymap.Key) string {
	rows := m.deps.Keymap.Rows()
	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		keys := make([]string, 0, len(row))
		for _, def := range row {
			style := pendingStyle
			if def.Code == next.Code {
				style = selectedStyle
			}
			keys = append(keys, style.Render(def.Label))
		}
		lines = append(lines, strings.Repeat(" ", i)+strings.Join(keys, " "))
	}
	space := pendingStyle.Render("[ space ]")
	if next.Code == "Space" {
		space = selectedStyle.Render("[ space ]")
	}
	lines = append(lines, strings.Repeat(" ", len(rows)+4)+space)
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	s := m.snap.Stats
	title := "Lesson complete"
	if len(m.snap.Typed) < len(m.snap.Target) {
		title = "Lesson stopped"
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("WPM", fmt.Sprintf("%d", s.WPM)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", s.Accuracy)),
		metricCard("Errors", fmt.Sprintf("%d", s.Errors)),
		metricCard("Time", fmt.Sprintf("%ds", s.Elapsed)),
	)
	lines := []string{titleStyle.Render(title), "", cards}
	if missed := missedChars(m.snap.Mistakes); missed != "" {
		lines = append(lines, "", footerStyle.Render("Missed: ")+incorrectStyle.Render(missed))
	}
	lines = append(lines, "", footerStyle.Render("enter retry · n new text · esc menu"))
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// missedChars lists the distinct expected characters of mistakes in order of
// first occurrence.
func missedChars(mistakes []model.Mistake) string {
	seen := map[rune]bool{}
	var out []string
	for _, mk := range mistakes {
		if seen[mk.Expected] {
			continue
		}
		seen[mk.Expected] = true
		switch mk.Expected {
		case ' ':
			out = append(out, "space")
		case '\n':
			out = append(out, "enter")
		default:
			out = append(out, string(mk.Expected))
		}
	}
	return strings.Join(out, " ")
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.screen == screenPractice && len(m.snap.Target) > 0 {
		segments = append(segments, m.lesson.Title)
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %d%%", m.lastWPM, m.lastAcc))
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc))
	}
	if m.deps.Feedback != nil {
		sound := "Sound on"
		if m.deps.Feedback.Muted() {
			sound = "Sound off"
		} else if title := m.melodyTitle(); title != "" {
			sound = "♪ " + title
		}
		segments = append(segments, sound)
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
