package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/typemaster/internal/keymap"
	"github.com/verte-zerg/typemaster/internal/model"
)

// FingerTableHeaders are the columns of FingerTableRows.
var FingerTableHeaders = []string{"Finger", "Accuracy", "Keystrokes", "Errors", "Weakest"}

var fingerColumns = []column{
	{title: "Finger"},
	{title: "Accuracy", right: true},
	{title: "Keystrokes", right: true},
	{title: "Errors", right: true},
	{title: "Weakest"},
}

// FingerTotal sums the character aggregates typed by one finger.
type FingerTotal struct {
	Finger    keymap.Finger
	Correct   int
	Incorrect int
	Weakest   string
}

// Accuracy is the share of correct keystrokes in [0,1].
func (f FingerTotal) Accuracy() float64 {
	return accuracy(model.CharAggregate{Correct: f.Correct, Incorrect: f.Incorrect})
}

// FingerTotals groups aggregates by finger using the default layout, weakest
// finger first. Characters the layout does not map are skipped.
func FingerTotals(aggs []model.CharAggregate) []FingerTotal {
	table := keymap.Default()
	byFinger := map[keymap.Finger]*FingerTotal{}
	weakestAcc := map[keymap.Finger]float64{}
	for _, row := range charRows(aggs) {
		runes := []rune(row.char)
		if len(runes) != 1 {
			continue
		}
		finger := table.FingerFor(runes[0])
		if finger == keymap.FingerNone {
			continue
		}
		total, ok := byFinger[finger]
		if !ok {
			total = &FingerTotal{Finger: finger}
			byFinger[finger] = total
		}
		total.Correct += row.correct
		total.Incorrect += row.incorrect
		// charRows is sorted weakest first.
		if _, seen := weakestAcc[finger]; !seen && row.incorrect > 0 {
			weakestAcc[finger] = row.acc
			total.Weakest = row.char
		}
	}

	out := make([]FingerTotal, 0, len(byFinger))
	for _, total := range byFinger {
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Accuracy(), out[j].Accuracy()
		if ai == aj {
			return out[i].Finger < out[j].Finger
		}
		return ai < aj
	})
	return out
}

// FingerTableRows formats FingerTotals for display.
func FingerTableRows(aggs []model.CharAggregate) [][]string {
	totals := FingerTotals(aggs)
	rows := make([][]string, 0, len(totals))
	for _, total := range totals {
		weakest := "-"
		if total.Weakest != "" {
			weakest = charLabel(total.Weakest)
		}
		rows = append(rows, []string{
			total.Finger.String(),
			fmt.Sprintf("%.2f%%", total.Accuracy()*100),
			fmt.Sprintf("%d", total.Correct+total.Incorrect),
			fmt.Sprintf("%d", total.Incorrect),
			weakest,
		})
	}
	return rows
}

// RenderFingerTable prints FingerTableRows as an aligned text table.
func RenderFingerTable(w io.Writer, aggs []model.CharAggregate) error {
	rows := FingerTableRows(aggs)
	if len(rows) == 0 {
		return nil
	}
	return textTable{cols: fingerColumns, rows: rows}.write(w, "Per-Finger")
}
