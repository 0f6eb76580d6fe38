package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Placeholder texts returned instead of errors.
const (
	GenerateFailedText   = "Failed to generate lesson content. Please check your internet connection or API key configuration."
	TranscribeFailedText = "Error processing file. Please ensure it is a valid Image or PDF."
)

const transcribePrompt = `Task: Transcribe the content of this file exactly as it appears.
Requirements:
- If it is a document, return the text content.
- If it is code (screenshot or text), return the code preserving indentation.
- If it is a mix, transcribe all visible text.
- Do not add any conversational filler like "Here is the text".
- Return ONLY the raw content.`

var formatInstructions = map[model.Format]string{
	model.FormatStory:          "Write a short, engaging creative story. Use paragraphs.",
	model.FormatBusinessLetter: "Write a professional formal letter structure (skip address blocks, just body). Preserve standard letter spacing.",
	model.FormatAbstract:       "Write a dense, academic abstract style paragraph.",
	model.FormatCodePython:     "Write valid Python code snippet with comments. Preserve indentation and newlines. Do not use markdown backticks.",
	model.FormatCodeJS:         "Write valid JavaScript code snippet with comments. Preserve indentation and newlines. Do not use markdown backticks.",
}

const dataURLPayload = "base64,"

var (
	fenceOpen     = regexp.MustCompile("```[a-z]*\n?")
	leadingFence  = regexp.MustCompile("^```[a-z]*\n?")
	trailingFence = regexp.MustCompile("```$")
)

// LessonWriter produces practice text through a Client. It never returns an
// error: failures are logged and replaced by placeholder text.
type LessonWriter struct {
	client Client
	logger *zap.SugaredLogger
}

// NewLessonWriter wraps client.
func NewLessonWriter(client Client, logger *zap.SugaredLogger) *LessonWriter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LessonWriter{client: client, logger: logger}
}

// Prompt builds the generation prompt for topic and format.
func Prompt(topic string, format model.Format) string {
	instruction, ok := formatInstructions[format]
	if !ok {
		instruction = "Generate a plain text paragraph."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", instruction)
	fmt.Fprintf(&b, "Topic: %s.\n", topic)
	b.WriteString("Difficulty: Intermediate.\n")
	b.WriteString("Length: About 40-60 words (or lines for code).\n")
	b.WriteString("Requirements:\n")
	b.WriteString("- Use proper punctuation and capitalization.\n")
	b.WriteString("- No markdown formatting (no bold, no italics, no code blocks/backticks).\n")
	b.WriteString("- Just raw text that is ready to be typed.\n")
	return b.String()
}

// Write asks the backend for a lesson about topic in the given format.
func (w *LessonWriter) Write(ctx context.Context, topic string, format model.Format) string {
	text, err := w.client.Generate(ctx, Prompt(topic, format))
	if err != nil {
		w.logger.Errorw("lesson generation failed", "topic", topic, "format", format, "error", err)
		return GenerateFailedText
	}
	text = strings.TrimSpace(text)
	text = fenceOpen.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Transcribe returns the text content of a binary file. data may be raw bytes
// or a base64 data URL.
func (w *LessonWriter) Transcribe(ctx context.Context, data []byte, mimeType string) string {
	payload, err := decodeDataURL(data)
	if err != nil {
		w.logger.Errorw("invalid data url", "mime", mimeType, "error", err)
		return TranscribeFailedText
	}
	text, err := w.client.Transcribe(ctx, payload, mimeType, transcribePrompt)
	if err != nil {
		w.logger.Errorw("file transcription failed", "mime", mimeType, "error", err)
		return TranscribeFailedText
	}
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func decodeDataURL(data []byte) ([]byte, error) {
	s := string(data)
	if !strings.HasPrefix(s, "data:") {
		return data, nil
	}
	idx := strings.Index(s, dataURLPayload)
	if idx < 0 {
		return nil, fmt.Errorf("data url without base64 payload")
	}
	out, err := base64.StdEncoding.DecodeString(s[idx+len(dataURLPayload):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode data url: %w", err)
	}
	return out, nil
}
