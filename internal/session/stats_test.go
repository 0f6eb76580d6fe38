package session

import (
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		typed, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13},
	}
	for _, tc := range cases {
		if got := Progress(tc.typed, tc.total); got != tc.want {
			t.Fatalf("Progress(%d, %d) = %d, want %d", tc.typed, tc.total, got, tc.want)
		}
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		typed, errors, want int
	}{
		{0, 0, 100},
		{3, 0, 100},
		{3, 1, 67},
		{2, 1, 50},
		{1, 3, 0},
	}
	for _, tc := range cases {
		if got := Accuracy(tc.typed, tc.errors); got != tc.want {
			t.Fatalf("Accuracy(%d, %d) = %d, want %d", tc.typed, tc.errors, got, tc.want)
		}
	}
}

func TestWPMGuardsZeroElapsed(t *testing.T) {
	if got := WPM(0, 0); got != 0 {
		t.Fatalf("expected 0 wpm for empty buffer, got %d", got)
	}
	if got := WPM(50, time.Minute); got != 10 {
		t.Fatalf("expected 10 wpm, got %d", got)
	}
	if got := WPM(5, 0); got <= 0 {
		t.Fatalf("expected finite positive wpm, got %d", got)
	}
}
