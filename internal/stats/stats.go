// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/typemaster/internal/keymap"
	"github.com/verte-zerg/typemaster/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics derives CPM and fractional accuracy from raw counts.
func SessionMetrics(typed, errors int, durationMs int64) (cpm, accuracy float64) {
	if typed > 0 {
		accuracy = math.Max(0, float64(typed-errors)/float64(typed))
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	return float64(typed) / minutes, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal-minVal < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	var totalErrors int
	var totalTime int64
	best := 0
	for _, s := range sessions {
		cpm, _ := SessionMetrics(s.Typed, s.Errors, s.DurationMs)
		totalWPM += float64(s.WPM)
		totalCPM += cpm
		totalAcc += float64(s.Accuracy)
		totalErrors += s.Errors
		totalTime += s.DurationMs
		best = max(best, s.WPM)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d", best),
		fmt.Sprintf("Avg CPM: %.1f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count),
		fmt.Sprintf("Total Errors: %d", totalErrors),
		fmt.Sprintf("Practice Time: %s", (time.Duration(totalTime) * time.Millisecond).Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy sparklines smoothed over window and
// fitted to width columns (0 means the terminal width).
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = float64(s.WPM)
		accs[i] = float64(s.Accuracy)
	}
	if width <= 0 {
		width = writerWidth(w)
	}
	width = max(width-len(curveLabel("")), minCurveWidth)
	rows := []struct {
		name   string
		values []float64
	}{
		{"WPM", MovingAverage(wpms, window)},
		{"Accuracy", MovingAverage(accs, window)},
	}
	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	for _, row := range rows {
		values := resample(row.values, width)
		lo, hi := bounds(row.values)
		if _, err := fmt.Fprintf(w, "%s%s  %.0f..%.0f\n", curveLabel(row.name), Sparkline(values), lo, hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func curveLabel(name string) string {
	return fmt.Sprintf("%-9s| ", name)
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

type charRow struct {
	char      string
	acc       float64
	correct   int
	incorrect int
}

func charRows(aggs []model.CharAggregate) []charRow {
	rows := make([]charRow, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, charRow{
			char:      agg.Char,
			acc:       accuracy(agg),
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})
	return rows
}

// CharTableHeaders are the columns of CharTableRows.
var CharTableHeaders = []string{"Char", "Accuracy", "Correct", "Incorrect", "Finger"}

// CharTableRows formats per-character aggregates, weakest first, with the
// finger responsible for each key.
func CharTableRows(aggs []model.CharAggregate) [][]string {
	out := make([][]string, 0, len(aggs))
	for _, r := range charRows(aggs) {
		finger := "-"
		if runes := []rune(r.char); len(runes) == 1 {
			if f := keymap.Default().FingerFor(runes[0]); f != keymap.FingerNone {
				finger = f.String()
			}
		}
		out = append(out, []string{
			charLabel(r.char),
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
			finger,
		})
	}
	return out
}

// RenderCharTable prints CharTableRows as an aligned text table.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	return textTable{cols: charColumns, rows: CharTableRows(aggs)}.write(w, "Per-Character")
}

var charColumns = []column{
	{title: "Char"},
	{title: "Accuracy", right: true},
	{title: "Correct", right: true},
	{title: "Incorrect", right: true},
	{title: "Finger"},
}

func charLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\n":
		return "<enter>"
	default:
		return ch
	}
}
