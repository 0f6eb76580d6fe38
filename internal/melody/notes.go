// Package melody resolves note names to frequencies and loads tunes that
// can be attached to a practice session.
package melody

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNoNotes is returned when none of the supplied note names resolve.
var ErrNoNotes = errors.New("melody has no playable notes")

// Note is a resolved pitch.
type Note struct {
	Name string
	Freq float64
}

// Melody is an ordered list of notes played one per correct keystroke.
type Melody struct {
	Title string
	Notes []Note
}

// At returns the note for a typed position. The melody loops by position.
func (m *Melody) At(position int) (Note, bool) {
	if m == nil || len(m.Notes) == 0 || position < 0 {
		return Note{}, false
	}
	return m.Notes[position%len(m.Notes)], true
}

var semitones = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3, "E": 4, "FB": 4, "E#": 5,
	"F": 5, "F#": 6, "GB": 6, "G": 7, "G#": 8, "AB": 8, "A": 9, "A#": 10, "BB": 10,
	"B": 11, "CB": -1, "B#": 12,
}

var frequencies = buildFrequencies()

func buildFrequencies() map[string]float64 {
	table := make(map[string]float64, len(semitones)*9)
	for octave := 0; octave <= 8; octave++ {
		for pitch, offset := range semitones {
			midi := (octave+1)*12 + offset
			table[fmt.Sprintf("%s%d", pitch, octave)] = 440 * math.Pow(2, float64(midi-69)/12)
		}
	}
	return table
}

// Frequency resolves a note name in scientific pitch notation ("A4", "C#5",
// "Bb3") to hertz.
func Frequency(name string) (float64, bool) {
	freq, ok := frequencies[strings.ToUpper(strings.TrimSpace(name))]
	return freq, ok
}

// FromNames builds a melody, dropping names that do not resolve.
func FromNames(title string, names []string) (*Melody, error) {
	m := &Melody{Title: strings.TrimSpace(title)}
	for _, name := range names {
		freq, ok := Frequency(name)
		if !ok {
			continue
		}
		m.Notes = append(m.Notes, Note{Name: strings.TrimSpace(name), Freq: freq})
	}
	if len(m.Notes) == 0 {
		return nil, ErrNoNotes
	}
	return m, nil
}
