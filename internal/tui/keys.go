package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/session"
)

// practiceEvents maps a key press to reducer events. Keys the reducer does
// not type with come back as a single KeyOther event.
func practiceEvents(msg tea.KeyMsg, at time.Time) []session.Event {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		return []session.Event{{Kind: session.KeyBackspace, At: at}}
	case tea.KeyEnter:
		return []session.Event{{Kind: session.KeyEnter, Rune: '\n', At: at}}
	case tea.KeySpace:
		return []session.Event{{Kind: session.KeyRune, Rune: ' ', At: at}}
	case tea.KeyRunes:
		if msg.Alt {
			return []session.Event{{Kind: session.KeyModifier, At: at}}
		}
		events := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, session.Event{Kind: session.KeyRune, Rune: r, At: at})
		}
		return events
	default:
		return []session.Event{{Kind: session.KeyOther, At: at}}
	}
}
