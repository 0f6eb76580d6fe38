package melody

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/ai"
)

const payloadSchema = `{
  "type": "object",
  "required": ["title", "notes"],
  "properties": {
    "title": {"type": "string"},
    "notes": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string"}
    }
  }
}`

const replyFormat = `Respond with JSON only, no markdown, in the form {"title": "...", "notes": ["C4", "D4", ...}.
Use scientific pitch notation for every note (for example C4, F#4, Bb3).
Return between 16 and 48 notes.`

var schema = jsonschema.MustCompileString("melody.json", payloadSchema)

type payload struct {
	Title string   `json:"title"`
	Notes []string `json:"notes"`
}

// Extractor asks the remote backend for melodies. A malformed reply is
// treated as no melody, never as an error.
type Extractor struct {
	client ai.Client
	logger *zap.SugaredLogger
}

// NewExtractor wraps client.
func NewExtractor(client ai.Client, logger *zap.SugaredLogger) *Extractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Extractor{client: client, logger: logger}
}

// FromDescription generates a melody matching a free-text description such
// as a song title or mood.
func (e *Extractor) FromDescription(ctx context.Context, description string) (*Melody, error) {
	prompt := fmt.Sprintf("Task: Write the main melody of %q as a sequence of notes.\n%s", strings.TrimSpace(description), replyFormat)
	reply, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate melody: %w", err)
	}
	return e.parse(reply), nil
}

// FromAudio extracts the leading melody from an audio clip.
func (e *Extractor) FromAudio(ctx context.Context, data []byte, mimeType string) (*Melody, error) {
	prompt := "Task: Listen to this audio and transcribe its main melody as a sequence of notes.\n" + replyFormat
	reply, err := e.client.Transcribe(ctx, data, mimeType, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to extract melody: %w", err)
	}
	return e.parse(reply), nil
}

func (e *Extractor) parse(reply string) *Melody {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var doc interface{}
	if err := json.Unmarshal([]byte(reply), &doc); err != nil {
		e.logger.Warnw("melody reply is not json", "error", err)
		return nil
	}
	if err := schema.Validate(doc); err != nil {
		e.logger.Warnw("melody reply does not match schema", "error", err)
		return nil
	}
	var p payload
	if err := json.Unmarshal([]byte(reply), &p); err != nil {
		e.logger.Warnw("melody reply could not be decoded", "error", err)
		return nil
	}
	m, err := FromNames(p.Title, p.Notes)
	if errors.Is(err, ErrNoNotes) {
		e.logger.Warnw("melody reply has no playable notes", "title", p.Title)
		return nil
	}
	return m
}
