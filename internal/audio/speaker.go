package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is used for all synthesized output.
const DefaultSampleRate = beep.SampleRate(44100)

// Player renders a sequence of tones without blocking the caller.
type Player interface {
	Play(tones ...Tone) error
}

// Speaker plays tones on the system audio device.
type Speaker struct {
	rate     beep.SampleRate
	volumeDB float64

	once    sync.Once
	initErr error
}

// NewSpeaker creates a speaker player. volumeDB is relative gain in decibels
// (negative is quieter). The device is opened on first use.
func NewSpeaker(volumeDB float64) *Speaker {
	return &Speaker{rate: DefaultSampleRate, volumeDB: volumeDB}
}

// Play queues tones back to back.
func (s *Speaker) Play(tones ...Tone) error {
	if len(tones) == 0 {
		return nil
	}
	s.once.Do(func() {
		s.initErr = speaker.Init(s.rate, s.rate.N(time.Second/20))
	})
	if s.initErr != nil {
		return fmt.Errorf("failed to init speaker: %w", s.initErr)
	}
	streams := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		streams = append(streams, t.Streamer(s.rate))
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Seq(streams...),
		Base:     2,
		Volume:   s.volumeDB,
	})
	return nil
}
