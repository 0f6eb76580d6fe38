package content

import (
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Lesson identifiers that are not part of the preset catalogue.
const (
	GeneratedLessonID = "custom"
	UploadLessonID    = "upload"
)

var catalogue = []model.Lesson{
	{ID: "1", Title: "Home Row (a-k)", Description: "Master the home row: a, s, d, f, g, h, j, k, l, ;", Mode: model.ModeHomeRow},
	{ID: "2", Title: "Numbers & Letters", Description: "Mixed practice: alphabets and numbers.", Mode: model.ModeAlphanumeric},
	{ID: "3", Title: "Top Row", Description: "Q, W, E, R, T, Y, U, I, O, P", Mode: model.ModeTopRow},
	{ID: "4", Title: "Bottom Row", Description: "Z, X, C, V, B, N, M", Mode: model.ModeBottomRow},
	{ID: "5", Title: "Numbers & Symbols", Description: "Advanced: !, @, #, $, %, etc.", Mode: model.ModeSymbols},
	{ID: "6", Title: "Full Practice", Description: "Real world sentences with everything.", Mode: model.ModeAll},
}

// Catalogue returns the preset lessons in menu order.
func Catalogue() []model.Lesson {
	out := make([]model.Lesson, len(catalogue))
	copy(out, catalogue)
	return out
}

// FindLesson looks up a preset lesson by id or case-insensitive title.
func FindLesson(key string) (model.Lesson, bool) {
	key = strings.TrimSpace(key)
	for _, lesson := range catalogue {
		if lesson.ID == key || strings.EqualFold(lesson.Title, key) {
			return lesson, true
		}
	}
	return model.Lesson{}, false
}

// GeneratedLesson builds a lesson whose text comes from the remote service.
func GeneratedLesson(topic string, format model.Format) model.Lesson {
	if format == "" {
		format = model.FormatParagraph
	}
	return model.Lesson{
		ID:          GeneratedLessonID,
		Title:       "AI Custom",
		Description: "Generated lesson: " + strings.TrimSpace(topic),
		Mode:        model.ModeGenerated,
		Topic:       strings.TrimSpace(topic),
		Format:      format,
	}
}

// FixedLesson wraps literal text such as an uploaded file.
func FixedLesson(title, text string) model.Lesson {
	return model.Lesson{
		ID:          UploadLessonID,
		Title:       title,
		Description: "Practice your own text.",
		Mode:        model.ModeFixed,
		Content:     text,
	}
}

// ParseFormat resolves a format by name, ignoring case.
func ParseFormat(name string) (model.Format, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.FormatParagraph, true
	}
	for _, f := range model.Formats() {
		if strings.EqualFold(string(f), name) {
			return f, true
		}
	}
	return "", false
}
