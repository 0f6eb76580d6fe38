package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	minCurveWidth = 10
	fallbackWidth = 80
)

// writerWidth returns the terminal width behind w, or fallbackWidth when w
// is not a terminal.
func writerWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// resample averages buckets so long series fit in width columns. Short series
// are returned as is.
func resample(values []float64, width int) []float64 {
	if len(values) <= width || width <= 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * float64(len(values)) / float64(width))
		end := int(float64(i+1) * float64(len(values)) / float64(width))
		end = max(end, start+1)
		end = min(end, len(values))
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
