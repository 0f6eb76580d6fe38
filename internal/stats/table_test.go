package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := textTable{
		cols: []column{{title: "Char"}, {title: "Accuracy", right: true}, {title: "Correct", right: true}},
		rows: [][]string{
			{"a", "97.50%", "12"},
			{"<space>", "8.00%", "3"},
		},
	}

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableWideRunes(t *testing.T) {
	tbl := textTable{
		cols: []column{{title: "Char"}, {title: "N", right: true}},
		rows: [][]string{{"日", "1"}, {"a", "22"}},
	}
	lines := tbl.lines()
	if lines[1] != "日    1" {
		t.Fatalf("wide rune should count as two columns: %q", lines[1])
	}
	if lines[2] != "a    22" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableShortRowsPad(t *testing.T) {
	tbl := textTable{
		cols: []column{{title: "A"}, {title: "B", right: true}},
		rows: [][]string{{"x"}},
	}
	var buf bytes.Buffer
	if err := tbl.write(&buf, "Heading"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "Heading\nA B\nx  \n\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
