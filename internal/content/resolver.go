package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

// DefaultTopic is used when a generative lesson has no topic.
const DefaultTopic = "technology"

// LoadFailedText replaces content when resolution cannot produce any text.
const LoadFailedText = "Error loading content. Please try again."

// DrillSource produces local drill text.
type DrillSource interface {
	Drill(mode model.ContentMode) string
}

// TextSource produces remote text. Implementations return placeholder text
// instead of errors.
type TextSource interface {
	Write(ctx context.Context, topic string, format model.Format) string
}

// Resolution is resolved target text tagged with the session token that
// requested it.
type Resolution struct {
	Token session.Token
	Text  string
}

// Resolver turns a lesson into sanitized target text.
type Resolver struct {
	drills DrillSource
	remote TextSource
	logger *zap.SugaredLogger
}

// NewResolver constructs a Resolver. remote may be nil when no generation
// backend is configured.
func NewResolver(drills DrillSource, remote TextSource, logger *zap.SugaredLogger) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{drills: drills, remote: remote, logger: logger}
}

// Resolve produces text for lesson. It never fails: missing backends and
// empty results degrade to placeholder text.
func (r *Resolver) Resolve(ctx context.Context, token session.Token, lesson model.Lesson) Resolution {
	text := r.resolve(ctx, lesson)
	if text == "" {
		text = LoadFailedText
	}
	return Resolution{Token: token, Text: Sanitize(text)}
}

func (r *Resolver) resolve(ctx context.Context, lesson model.Lesson) string {
	switch {
	case lesson.Mode == model.ModeFixed:
		return lesson.Content
	case lesson.Mode.Generative():
		if r.remote == nil {
			r.logger.Warnw("generation requested without a configured backend", "lesson", lesson.ID)
			return LoadFailedText
		}
		topic := lesson.Topic
		if topic == "" {
			topic = DefaultTopic
		}
		return r.remote.Write(ctx, topic, lesson.Format)
	default:
		text := r.drills.Drill(lesson.Mode)
		if text == "" && lesson.Content != "" {
			return lesson.Content
		}
		return text
	}
}

// Regenerates reports whether "new text" should resolve content again. Fixed
// text has nothing to regenerate, so new degrades to retry.
func Regenerates(lesson model.Lesson) bool {
	return lesson.Mode != model.ModeFixed
}
