package audio

import (
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/melody"
	"github.com/verte-zerg/typemaster/internal/session"
)

// Feedback turns reducer effects into sounds. It is safe for concurrent use.
type Feedback struct {
	player Player
	logger *zap.SugaredLogger

	mu       sync.Mutex
	muted    bool
	melody   *melody.Melody
	disabled bool
}

// NewFeedback creates a sink on player. A nil player produces silence.
func NewFeedback(player Player, logger *zap.SugaredLogger) *Feedback {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Feedback{player: player, logger: logger}
}

// SetMuted toggles all sound.
func (f *Feedback) SetMuted(muted bool) {
	f.mu.Lock()
	f.muted = muted
	f.mu.Unlock()
}

// Muted reports the mute flag.
func (f *Feedback) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

// SetMelody attaches a melody; nil detaches it.
func (f *Feedback) SetMelody(m *melody.Melody) {
	f.mu.Lock()
	f.melody = m
	f.mu.Unlock()
}

// Melody returns the attached melody, if any.
func (f *Feedback) Melody() *melody.Melody {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.melody
}

// Handle plays the cues for effects in order.
func (f *Feedback) Handle(effects []session.Effect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.muted || f.disabled || f.player == nil {
		return
	}
	for _, eff := range effects {
		tones := f.cues(eff)
		if err := f.player.Play(tones...); err != nil {
			f.logger.Warnw("audio disabled", "error", err)
			f.disabled = true
			return
		}
	}
}

func (f *Feedback) cues(eff session.Effect) []Tone {
	switch eff.Kind {
	case session.EffectError:
		return []Tone{ErrorCue()}
	case session.EffectComplete:
		if f.melody != nil {
			return FlourishCues()
		}
		return []Tone{CorrectCue()}
	default:
		if note, ok := f.melody.At(eff.Position); ok {
			return []Tone{NoteCue(note.Freq)}
		}
		return []Tone{CorrectCue()}
	}
}
