// Package session implements the typing session as a pure reducer.
//
// A Snapshot is never mutated in place: Apply, Tick and the lifecycle helpers
// return a new Snapshot plus the side effects the caller should perform.
package session

import (
	"errors"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// ErrStale is returned by Load when the resolved text belongs to a session
// that has since been replaced.
var ErrStale = errors.New("stale content resolution")

// State is the lifecycle stage of a session.
type State int

// Lifecycle stages.
const (
	StateIdle State = iota
	StateLoading
	StateActive
	StateCompleted
)

// String returns the stage name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Token identifies one content resolution request.
type Token uint64

// Snapshot is an immutable view of a session.
type Snapshot struct {
	Token     Token
	State     State
	Target    []rune
	Typed     []rune
	StartedAt time.Time
	Mistakes  []model.Mistake
	Stats     Stats
}

// KeyKind classifies keyboard events.
type KeyKind int

// Key kinds understood by Apply.
const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyModifier
	KeyOther
)

// Event is one keystroke.
type Event struct {
	Kind KeyKind
	Rune rune
	At   time.Time
}

// EffectKind names a side effect requested by the reducer.
type EffectKind int

// Effect kinds.
const (
	EffectCorrect EffectKind = iota
	EffectError
	EffectComplete
)

// Effect is a side-effect intent for feedback sinks.
type Effect struct {
	Kind     EffectKind
	Position int
	Expected rune
	Actual   rune
}

// Idle returns the initial snapshot.
func Idle() Snapshot {
	return Snapshot{State: StateIdle, Stats: Stats{Accuracy: 100}}
}

// Begin moves to loading under a fresh token. Any resolution still in flight
// for the previous token becomes stale.
func Begin(s Snapshot) Snapshot {
	return Snapshot{Token: s.Token + 1, State: StateLoading, Stats: Stats{Accuracy: 100}}
}

// Load installs resolved text if token still matches the loading session.
func Load(s Snapshot, token Token, text string) (Snapshot, error) {
	if s.State != StateLoading || s.Token != token {
		return s, ErrStale
	}
	return fresh(s.Token, []rune(text)), nil
}

// Retry restarts with the same target text and a new token.
func Retry(s Snapshot) Snapshot {
	target := s.Target
	return fresh(s.Token+1, target)
}

// Leave handles back-to-menu. An unfinished session with typed input is
// completed first so its summary can be shown; the bool reports that case.
func Leave(s Snapshot) (Snapshot, bool) {
	if s.State == StateActive && len(s.Typed) > 0 {
		next := s
		next.State = StateCompleted
		return next, true
	}
	next := Idle()
	next.Token = s.Token + 1
	return next, false
}

// fresh starts a session on target. There is nothing to type in an empty
// target, so it is completed at once.
func fresh(token Token, target []rune) Snapshot {
	state := StateActive
	if len(target) == 0 {
		state = StateCompleted
	}
	return Snapshot{
		Token:  token,
		State:  state,
		Target: target,
		Stats:  Stats{Accuracy: 100},
	}
}

// Apply feeds one keystroke through the session.
func Apply(s Snapshot, ev Event) (Snapshot, []Effect) {
	if s.State != StateActive {
		return s, nil
	}
	switch ev.Kind {
	case KeyBackspace:
		return backspace(s), nil
	case KeyRune:
		return accept(s, ev.Rune, ev.At)
	case KeyEnter:
		pos := len(s.Typed)
		if pos < len(s.Target) && s.Target[pos] == '\n' {
			return accept(s, '\n', ev.At)
		}
		return s, nil
	default:
		return s, nil
	}
}

func backspace(s Snapshot) Snapshot {
	if len(s.Typed) == 0 {
		return s
	}
	next := s
	next.Typed = s.Typed[:len(s.Typed)-1]
	next.Stats.Progress = Progress(len(next.Typed), len(next.Target))
	return next
}

func accept(s Snapshot, r rune, at time.Time) (Snapshot, []Effect) {
	pos := len(s.Typed)
	if pos >= len(s.Target) {
		return s, nil
	}
	next := s
	if next.StartedAt.IsZero() {
		next.StartedAt = at
	}
	next.Typed = append(s.Typed[:pos:pos], r)

	expected := s.Target[pos]
	effect := Effect{Kind: EffectCorrect, Position: pos, Expected: expected, Actual: r}
	if r != expected {
		effect.Kind = EffectError
		next.Stats.Errors++
		next.Mistakes = append(s.Mistakes[:len(s.Mistakes):len(s.Mistakes)], model.Mistake{
			Expected: expected,
			Actual:   r,
			Position: pos,
		})
	}
	n := len(next.Typed)
	next.Stats.Progress = Progress(n, len(next.Target))
	next.Stats.Accuracy = Accuracy(n, next.Stats.Errors)

	effects := []Effect{effect}
	if n == len(next.Target) {
		next = Tick(next, at)
		next.State = StateCompleted
		effects = append(effects, Effect{Kind: EffectComplete, Position: pos})
	}
	return next, effects
}

// Tick refreshes WPM and elapsed time. It is a no-op until the first
// keystroke and outside the active state.
func Tick(s Snapshot, now time.Time) Snapshot {
	if s.State != StateActive || s.StartedAt.IsZero() {
		return s
	}
	elapsed := now.Sub(s.StartedAt)
	next := s
	next.Stats.WPM = WPM(len(s.Typed), elapsed)
	next.Stats.Elapsed = roundHalfUp(elapsed.Seconds())
	return next
}

// Completed reports whether the session reached its terminal state.
func (s Snapshot) Completed() bool {
	return s.State == StateCompleted
}

// Cursor returns the index of the next expected character, or -1 when done.
func (s Snapshot) Cursor() int {
	if len(s.Typed) >= len(s.Target) {
		return -1
	}
	return len(s.Typed)
}

// NextRune returns the next expected character.
func (s Snapshot) NextRune() (rune, bool) {
	idx := s.Cursor()
	if idx < 0 {
		return 0, false
	}
	return s.Target[idx], true
}

// CharStats folds the session into per-character correct/incorrect counts.
// Correct counts come from the final buffer; incorrect counts come from the
// permanent mistake log.
func CharStats(s Snapshot) []model.CharStats {
	index := map[rune]*model.CharStats{}
	order := []rune{}
	entry := func(r rune) *model.CharStats {
		if cs, ok := index[r]; ok {
			return cs
		}
		cs := &model.CharStats{Char: string(r)}
		index[r] = cs
		order = append(order, r)
		return cs
	}
	for i, r := range s.Typed {
		if i >= len(s.Target) || s.Target[i] == ' ' {
			continue
		}
		if r == s.Target[i] {
			entry(s.Target[i]).Correct++
		}
	}
	for _, m := range s.Mistakes {
		if m.Expected == ' ' {
			continue
		}
		entry(m.Expected).Incorrect++
	}
	out := make([]model.CharStats, 0, len(order))
	for _, r := range order {
		out = append(out, *index[r])
	}
	return out
}
