package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestWriteStripsCodeFences(t *testing.T) {
	stub := NewStubClient("```python\nprint('hi')\n```\n")
	w := NewLessonWriter(stub, nil)
	got := w.Write(context.Background(), "loops", model.FormatCodePython)
	if got != "print('hi')" {
		t.Fatalf("unexpected text: %q", got)
	}
	if !strings.Contains(stub.LastPrompt, "Topic: loops.") {
		t.Fatalf("prompt missing topic: %q", stub.LastPrompt)
	}
	if !strings.Contains(stub.LastPrompt, "Python code snippet") {
		t.Fatalf("prompt missing format instruction: %q", stub.LastPrompt)
	}
}

func TestWriteFallsBackOnError(t *testing.T) {
	stub := &StubClient{Err: errors.New("network down")}
	w := NewLessonWriter(stub, nil)
	if got := w.Write(context.Background(), "space", model.FormatStory); got != GenerateFailedText {
		t.Fatalf("expected fallback text, got %q", got)
	}
	if stub.Calls != 1 {
		t.Fatalf("expected a single attempt, got %d", stub.Calls)
	}
}

func TestPromptDefaultsToParagraph(t *testing.T) {
	for _, format := range []model.Format{model.FormatParagraph, "Poem"} {
		if !strings.Contains(Prompt("cats", format), "Generate a plain text paragraph.") {
			t.Fatalf("format %q should use the paragraph instruction", format)
		}
	}
}

func TestTranscribeDecodesDataURL(t *testing.T) {
	stub := NewStubClient("```\nhello world\n```")
	w := NewLessonWriter(stub, nil)
	raw := []byte("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")))
	if got := w.Transcribe(context.Background(), raw, "image/png"); got != "hello world" {
		t.Fatalf("unexpected transcription: %q", got)
	}
	if stub.LastMIME != "image/png" {
		t.Fatalf("mime not forwarded: %q", stub.LastMIME)
	}
}

func TestTranscribeFallbacks(t *testing.T) {
	w := NewLessonWriter(NewStubClient("text"), nil)
	if got := w.Transcribe(context.Background(), []byte("data:image/png;base64,***"), "image/png"); got != TranscribeFailedText {
		t.Fatalf("expected fallback for bad payload, got %q", got)
	}

	w = NewLessonWriter(&StubClient{Err: errors.New("boom")}, nil)
	if got := w.Transcribe(context.Background(), []byte("%PDF"), "application/pdf"); got != TranscribeFailedText {
		t.Fatalf("expected fallback for client error, got %q", got)
	}
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(Options{APIKey: "  "}); err == nil {
		t.Fatalf("expected error for empty api key")
	}
	c, err := NewOpenAIClient(Options{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}
	if c.model != DefaultModel {
		t.Fatalf("expected default model, got %q", c.model)
	}
}
