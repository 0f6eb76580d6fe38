// Package audio synthesizes keystroke feedback.
package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// Wave is an oscillator shape.
type Wave int

// Oscillator shapes.
const (
	Sine Wave = iota
	Triangle
	Sawtooth
)

func (w Wave) sample(phase float64) float64 {
	switch w {
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case Sawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Ramp is how frequency moves from From to To.
type Ramp int

// Frequency ramps.
const (
	Linear Ramp = iota
	Exponential
)

// Tone is one synthesized sound. Frequency sweeps from From to To over
// Sweep (or the whole duration when Sweep is zero) while the gain decays
// exponentially from Gain to silence.
type Tone struct {
	Wave     Wave
	From, To float64
	Ramp     Ramp
	Sweep    time.Duration
	Duration time.Duration
	Gain     float64
}

const silence = 0.001

// CorrectCue is the short rising chirp for a matching keystroke.
func CorrectCue() Tone {
	return Tone{Wave: Triangle, From: 800, To: 1200, Ramp: Exponential, Sweep: 50 * time.Millisecond, Duration: 80 * time.Millisecond, Gain: 0.1}
}

// ErrorCue is the low falling thud for a mismatch.
func ErrorCue() Tone {
	return Tone{Wave: Sawtooth, From: 150, To: 100, Ramp: Linear, Duration: 150 * time.Millisecond, Gain: 0.2}
}

// NoteCue plays a melody note.
func NoteCue(freq float64) Tone {
	return Tone{Wave: Sine, From: freq, To: freq, Duration: 250 * time.Millisecond, Gain: 0.15}
}

// FlourishCues are three ascending tones played on completion with a melody.
func FlourishCues() []Tone {
	freqs := []float64{523.25, 659.25, 783.99}
	tones := make([]Tone, 0, len(freqs))
	for _, f := range freqs {
		t := NoteCue(f)
		t.Duration = 180 * time.Millisecond
		tones = append(tones, t)
	}
	return tones
}

func (t Tone) frequencyAt(elapsed time.Duration) float64 {
	sweep := t.Sweep
	if sweep <= 0 || sweep > t.Duration {
		sweep = t.Duration
	}
	p := 1.0
	if sweep > 0 && elapsed < sweep {
		p = float64(elapsed) / float64(sweep)
	}
	if t.Ramp == Exponential && t.From > 0 && t.To > 0 {
		return t.From * math.Pow(t.To/t.From, p)
	}
	return t.From + (t.To-t.From)*p
}

func (t Tone) gainAt(p float64) float64 {
	if t.Gain <= silence {
		return t.Gain
	}
	return t.Gain * math.Pow(silence/t.Gain, p)
}

// Streamer renders the tone at the given sample rate.
func (t Tone) Streamer(sr beep.SampleRate) beep.Streamer {
	total := sr.N(t.Duration)
	phase := 0.0
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= total {
			return 0, false
		}
		n := 0
		for n < len(samples) && i < total {
			elapsed := sr.D(i)
			phase += t.frequencyAt(elapsed) / float64(sr)
			phase -= math.Floor(phase)
			v := t.Wave.sample(phase) * t.gainAt(float64(i)/float64(total))
			samples[n][0], samples[n][1] = v, v
			n++
			i++
		}
		return n, true
	})
}
