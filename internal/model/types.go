// Package model defines shared data structures.
package model

import "time"

// ContentMode selects how a lesson resolves its target text.
type ContentMode string

// Content modes. The drill modes map onto generator categories.
const (
	ModeHomeRow      ContentMode = "HOME_ROW"
	ModeTopRow       ContentMode = "TOP_ROW"
	ModeBottomRow    ContentMode = "BOTTOM_ROW"
	ModeNumbers      ContentMode = "NUMBERS"
	ModeAlphabets    ContentMode = "ALPHABETS"
	ModeAlphanumeric ContentMode = "ALPHANUMERIC"
	ModeSymbols      ContentMode = "SYMBOLS"
	ModeAll          ContentMode = "ALL"
	ModeGenerated    ContentMode = "AI_CUSTOM"
	ModeFixed        ContentMode = "FIXED"
)

// Generative reports whether text must be fetched from the remote service.
func (m ContentMode) Generative() bool {
	return m == ModeGenerated
}

// Format is the requested shape of remotely generated text.
type Format string

// Supported generation formats.
const (
	FormatParagraph      Format = "Paragraph"
	FormatStory          Format = "Story"
	FormatBusinessLetter Format = "Business Letter"
	FormatAbstract       Format = "Abstract"
	FormatCodePython     Format = "Code (Python)"
	FormatCodeJS         Format = "Code (JS)"
)

// Formats lists every generation format in menu order.
func Formats() []Format {
	return []Format{
		FormatParagraph,
		FormatStory,
		FormatBusinessLetter,
		FormatAbstract,
		FormatCodePython,
		FormatCodeJS,
	}
}

// Lesson describes a practice choice. It is immutable once a session starts.
type Lesson struct {
	ID          string
	Title       string
	Description string
	Mode        ContentMode
	// Content is literal text for fixed or uploaded lessons.
	Content string
	// Topic and Format drive generative lessons.
	Topic  string
	Format Format
}

// Config defines practice settings.
type Config struct {
	LessonID string
	Topic    string
	Format   Format
	File     string
	Muted    bool
	Melody   string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lesson      string
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakTop     int
}

// Mistake records one incorrect keystroke.
type Mistake struct {
	Expected rune
	Actual   rune
	Position int
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	StartedAt   time.Time
	EndedAt     time.Time
	LessonID    string
	LessonMode  ContentMode
	TextLength  int
	Typed       int
	Errors      int
	WPM         int
	Accuracy    int
	DurationMs  int64
	MelodyTitle string
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	LessonID   string
	Typed      int
	Errors     int
	WPM        int
	Accuracy   int
	DurationMs int64
}

// HistoryEntry is a remembered topic/format choice.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Format    Format    `json:"format"`
	CreatedAt time.Time `json:"timestamp"`
}
