package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

// SelectWeakChars returns up to top characters with the lowest accuracy,
// weakest first. Characters without mistakes are never weak.
func SelectWeakChars(aggs []model.CharAggregate, top int) []string {
	var out []string
	for _, r := range charRows(aggs) {
		if r.incorrect == 0 {
			break
		}
		if top > 0 && len(out) == top {
			break
		}
		out = append(out, r.char)
	}
	return out
}

// RenderWeakChars prints the characters to focus on.
func RenderWeakChars(w io.Writer, aggs []model.CharAggregate, top int) error {
	weak := SelectWeakChars(aggs, top)
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No weak characters. Keep it up!")
		return err
	}
	labels := make([]string, len(weak))
	for i, ch := range weak {
		labels[i] = charLabel(ch)
	}
	_, err := fmt.Fprintf(w, "Focus keys: %s\n", strings.Join(labels, " "))
	return err
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
