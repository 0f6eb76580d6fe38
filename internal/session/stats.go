package session

import (
	"math"
	"time"
)

// minElapsedMinutes guards WPM against division by zero right after start.
const minElapsedMinutes = 0.0001

// Stats is derived entirely from the typed buffer and start time.
type Stats struct {
	WPM      int
	Accuracy int
	Errors   int
	Progress int
	Elapsed  int
}

// Progress returns round(100*typed/total). An empty target counts as done.
func Progress(typed, total int) int {
	if total <= 0 {
		return 100
	}
	return roundHalfUp(100 * float64(typed) / float64(total))
}

// Accuracy returns max(0, round(100*(typed-errors)/typed)). Errors are
// cumulative, so corrected mistakes keep lowering the score.
func Accuracy(typed, errors int) int {
	if typed <= 0 {
		return 100
	}
	acc := roundHalfUp(100 * float64(typed-errors) / float64(typed))
	if acc < 0 {
		return 0
	}
	return acc
}

// WPM returns round((typed/5)/minutes) using the buffer length as numerator.
func WPM(typed int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		minutes = minElapsedMinutes
	}
	return roundHalfUp((float64(typed) / 5) / minutes)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
