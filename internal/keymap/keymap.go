// Package keymap maps typeable characters to physical keys and fingers.
package keymap

import "unicode"

// Finger identifies the finger responsible for a key.
type Finger int

// Fingers, left hand first.
const (
	FingerNone Finger = iota
	LeftPinky
	LeftRing
	LeftMiddle
	LeftIndex
	LeftThumb
	RightThumb
	RightIndex
	RightMiddle
	RightRing
	RightPinky
)

var fingerNames = map[Finger]string{
	FingerNone:  "none",
	LeftPinky:   "left pinky",
	LeftRing:    "left ring",
	LeftMiddle:  "left middle",
	LeftIndex:   "left index",
	LeftThumb:   "left thumb",
	RightThumb:  "right thumb",
	RightIndex:  "right index",
	RightMiddle: "right middle",
	RightRing:   "right ring",
	RightPinky:  "right pinky",
}

// String returns a human-readable finger name.
func (f Finger) String() string {
	if name, ok := fingerNames[f]; ok {
		return name
	}
	return "unknown"
}

// Key is the lookup result for a character.
type Key struct {
	Code   string
	Label  string
	Finger Finger
	Shift  bool
}

// KeyDef is one physical key of a layout row.
type KeyDef struct {
	Label   string
	Code    string
	Finger  Finger
	Shifted string
}

// Table is an immutable character lookup built from a layout.
type Table struct {
	rows  [][]KeyDef
	chars map[rune]Key
}

// USRows is the US QWERTY layout without modifier keys.
var USRows = [][]KeyDef{
	{
		{Label: "`", Code: "Backquote", Finger: LeftPinky, Shifted: "~"},
		{Label: "1", Code: "Digit1", Finger: LeftPinky, Shifted: "!"},
		{Label: "2", Code: "Digit2", Finger: LeftRing, Shifted: "@"},
		{Label: "3", Code: "Digit3", Finger: LeftMiddle, Shifted: "#"},
		{Label: "4", Code: "Digit4", Finger: LeftIndex, Shifted: "$"},
		{Label: "5", Code: "Digit5", Finger: LeftIndex, Shifted: "%"},
		{Label: "6", Code: "Digit6", Finger: RightIndex, Shifted: "^"},
		{Label: "7", Code: "Digit7", Finger: RightIndex, Shifted: "&"},
		{Label: "8", Code: "Digit8", Finger: RightMiddle, Shifted: "*"},
		{Label: "9", Code: "Digit9", Finger: RightRing, Shifted: "("},
		{Label: "0", Code: "Digit0", Finger: RightPinky, Shifted: ")"},
		{Label: "-", Code: "Minus", Finger: RightPinky, Shifted: "_"},
		{Label: "=", Code: "Equal", Finger: RightPinky, Shifted: "+"},
	},
	{
		{Label: "q", Code: "KeyQ", Finger: LeftPinky},
		{Label: "w", Code: "KeyW", Finger: LeftRing},
		{Label: "e", Code: "KeyE", Finger: LeftMiddle},
		{Label: "r", Code: "KeyR", Finger: LeftIndex},
		{Label: "t", Code: "KeyT", Finger: LeftIndex},
		{Label: "y", Code: "KeyY", Finger: RightIndex},
		{Label: "u", Code: "KeyU", Finger: RightIndex},
		{Label: "i", Code: "KeyI", Finger: RightMiddle},
		{Label: "o", Code: "KeyO", Finger: RightRing},
		{Label: "p", Code: "KeyP", Finger: RightPinky},
		{Label: "[", Code: "BracketLeft", Finger: RightPinky, Shifted: "{"},
		{Label: "]", Code: "BracketRight", Finger: RightPinky, Shifted: "}"},
		{Label: "\\", Code: "Backslash", Finger: RightPinky, Shifted: "|"},
	},
	{
		{Label: "a", Code: "KeyA", Finger: LeftPinky},
		{Label: "s", Code: "KeyS", Finger: LeftRing},
		{Label: "d", Code: "KeyD", Finger: LeftMiddle},
		{Label: "f", Code: "KeyF", Finger: LeftIndex},
		{Label: "g", Code: "KeyG", Finger: LeftIndex},
		{Label: "h", Code: "KeyH", Finger: RightIndex},
		{Label: "j", Code: "KeyJ", Finger: RightIndex},
		{Label: "k", Code: "KeyK", Finger: RightMiddle},
		{Label: "l", Code: "KeyL", Finger: RightRing},
		{Label: ";", Code: "Semicolon", Finger: RightPinky, Shifted: ":"},
		{Label: "'", Code: "Quote", Finger: RightPinky, Shifted: "\""},
	},
	{
		{Label: "z", Code: "KeyZ", Finger: LeftPinky},
		{Label: "x", Code: "KeyX", Finger: LeftRing},
		{Label: "c", Code: "KeyC", Finger: LeftMiddle},
		{Label: "v", Code: "KeyV", Finger: LeftIndex},
		{Label: "b", Code: "KeyB", Finger: LeftIndex},
		{Label: "n", Code: "KeyN", Finger: RightIndex},
		{Label: "m", Code: "KeyM", Finger: RightIndex},
		{Label: ",", Code: "Comma", Finger: RightMiddle, Shifted: "<"},
		{Label: ".", Code: "Period", Finger: RightRing, Shifted: ">"},
		{Label: "/", Code: "Slash", Finger: RightPinky, Shifted: "?"},
	},
}

var defaultTable = New(USRows)

// Default returns the US layout table.
func Default() *Table {
	return defaultTable
}

// New builds a lookup table from layout rows. Letters are registered in both
// cases; space maps to the left thumb and newline to Enter.
func New(rows [][]KeyDef) *Table {
	t := &Table{rows: rows, chars: map[rune]Key{}}
	for _, row := range rows {
		for _, def := range row {
			runes := []rune(def.Label)
			if len(runes) != 1 {
				continue
			}
			base := runes[0]
			t.chars[base] = Key{Code: def.Code, Label: def.Label, Finger: def.Finger}
			if unicode.IsLetter(base) {
				upper := unicode.ToUpper(base)
				t.chars[upper] = Key{Code: def.Code, Label: def.Label, Finger: def.Finger, Shift: true}
			}
			for _, r := range def.Shifted {
				t.chars[r] = Key{Code: def.Code, Label: def.Label, Finger: def.Finger, Shift: true}
			}
		}
	}
	t.chars[' '] = Key{Code: "Space", Label: "Space", Finger: LeftThumb}
	t.chars['\n'] = Key{Code: "Enter", Label: "Enter", Finger: RightPinky}
	return t
}

// Lookup returns the key for r. Unmapped characters report false.
func (t *Table) Lookup(r rune) (Key, bool) {
	key, ok := t.chars[r]
	return key, ok
}

// FingerFor returns the finger for r or FingerNone when r is unmapped.
func (t *Table) FingerFor(r rune) Finger {
	key, ok := t.chars[r]
	if !ok {
		return FingerNone
	}
	return key.Finger
}

// Rows returns the layout rows the table was built from.
func (t *Table) Rows() [][]KeyDef {
	return t.rows
}

// Lookup uses the default table.
func Lookup(r rune) (Key, bool) {
	return defaultTable.Lookup(r)
}
