package content

import (
	"context"
	"testing"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

type fakeDrills struct {
	text  string
	modes []model.ContentMode
}

func (f *fakeDrills) Drill(mode model.ContentMode) string {
	f.modes = append(f.modes, mode)
	return f.text
}

type fakeWriter struct {
	text   string
	topic  string
	format model.Format
}

func (f *fakeWriter) Write(_ context.Context, topic string, format model.Format) string {
	f.topic = topic
	f.format = format
	return f.text
}

func TestResolveDrillCarriesToken(t *testing.T) {
	drills := &fakeDrills{text: "asdf jkl;"}
	r := NewResolver(drills, nil, nil)
	lesson, _ := FindLesson("1")

	res := r.Resolve(context.Background(), session.Token(7), lesson)
	if res.Token != 7 {
		t.Fatalf("expected token 7, got %d", res.Token)
	}
	if res.Text != "asdf jkl;" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if len(drills.modes) != 1 || drills.modes[0] != model.ModeHomeRow {
		t.Fatalf("unexpected drill calls %v", drills.modes)
	}
}

func TestResolveGeneratedSanitizes(t *testing.T) {
	writer := &fakeWriter{text: "It’s “fine”\r\nreally…"}
	r := NewResolver(&fakeDrills{}, writer, nil)

	res := r.Resolve(context.Background(), 1, GeneratedLesson("", model.FormatStory))
	if res.Text != "It's \"fine\"\nreally..." {
		t.Fatalf("text not sanitized: %q", res.Text)
	}
	if writer.topic != DefaultTopic {
		t.Fatalf("expected default topic, got %q", writer.topic)
	}
	if writer.format != model.FormatStory {
		t.Fatalf("expected story format, got %q", writer.format)
	}
}

func TestResolveGeneratedWithoutBackend(t *testing.T) {
	r := NewResolver(&fakeDrills{}, nil, nil)
	res := r.Resolve(context.Background(), 1, GeneratedLesson("cats", ""))
	if res.Text != LoadFailedText {
		t.Fatalf("expected load failure text, got %q", res.Text)
	}
}

func TestResolveFixedUsesContent(t *testing.T) {
	drills := &fakeDrills{text: "unused"}
	r := NewResolver(drills, &fakeWriter{text: "unused"}, nil)
	res := r.Resolve(context.Background(), 3, FixedLesson("notes.txt", "line one\tend"))
	if res.Text != "line one  end" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if len(drills.modes) != 0 {
		t.Fatalf("fixed lessons must not call the generator")
	}
}

func TestResolveEmptyFallsBack(t *testing.T) {
	r := NewResolver(&fakeDrills{}, &fakeWriter{}, nil)
	if res := r.Resolve(context.Background(), 1, model.Lesson{Mode: model.ModeAll}); res.Text != LoadFailedText {
		t.Fatalf("expected load failure text, got %q", res.Text)
	}
	if res := r.Resolve(context.Background(), 1, model.Lesson{Mode: model.ModeAll, Content: "backup"}); res.Text != "backup" {
		t.Fatalf("expected lesson content fallback, got %q", res.Text)
	}
}

func TestRegenerates(t *testing.T) {
	if Regenerates(FixedLesson("a", "b")) {
		t.Fatalf("fixed lessons should not regenerate")
	}
	if !Regenerates(GeneratedLesson("x", "")) {
		t.Fatalf("generated lessons should regenerate")
	}
}
