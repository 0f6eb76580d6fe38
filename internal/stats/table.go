package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is one column of a plain text table.
type column struct {
	title string
	right bool
}

// textTable lays rows out under column titles. Widths are measured in
// terminal cells so wide runes stay aligned.
type textTable struct {
	cols []column
	rows [][]string
}

func (t textTable) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	titles := make([]string, len(t.cols))
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		titles[i] = c.title
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i := range widths {
			widths[i] = max(widths[i], runewidth.StringWidth(cellAt(row, i)))
		}
	}
	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.line(titles, widths))
	for _, row := range t.rows {
		out = append(out, t.line(row, widths))
	}
	return out
}

func (t textTable) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		if t.cols[i].right {
			parts[i] = runewidth.FillLeft(cellAt(cells, i), w)
		} else {
			parts[i] = runewidth.FillRight(cellAt(cells, i), w)
		}
	}
	return strings.Join(parts, " ")
}

// write prints an optional heading, the table and a blank separator line.
func (t textTable) write(w io.Writer, heading string) error {
	if heading != "" {
		if _, err := fmt.Fprintln(w, heading); err != nil {
			return err
		}
	}
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
