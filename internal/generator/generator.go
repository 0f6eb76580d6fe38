// Package generator builds drill text for keyboard regions.
package generator

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Fallback is returned for categories without a drill definition.
const Fallback = "The quick brown fox jumps over the lazy dog."

// Generator produces randomized drill text.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// rowDrill is a category built from key patterns mixed with words.
type rowDrill struct {
	keys       string
	words      []string
	patterns   []patternSpec
	wordsCount int
}

type patternSpec struct {
	count     int
	groupSize int
}

var rowDrills = map[model.ContentMode]rowDrill{
	model.ModeHomeRow: {
		keys:       "asdfghjkl;",
		words:      HomeRowWords,
		patterns:   []patternSpec{{count: 3, groupSize: 4}, {count: 3, groupSize: 3}},
		wordsCount: 8,
	},
	model.ModeTopRow: {
		keys:       "qwertyuiop",
		words:      TopRowWords,
		patterns:   []patternSpec{{count: 3, groupSize: 5}},
		wordsCount: 8,
	},
	model.ModeBottomRow: {
		keys:       "zxcvbnm,.",
		words:      BottomRowWords,
		patterns:   []patternSpec{{count: 3, groupSize: 4}},
		wordsCount: 8,
	},
}

// Categories lists every drill category the generator understands.
func Categories() []model.ContentMode {
	return []model.ContentMode{
		model.ModeHomeRow,
		model.ModeTopRow,
		model.ModeBottomRow,
		model.ModeNumbers,
		model.ModeAlphanumeric,
		model.ModeSymbols,
		model.ModeAlphabets,
		model.ModeAll,
	}
}

// Drill returns a fresh random text for the category. Output is never
// reproducible across calls; only its character shape is stable.
func (g *Generator) Drill(mode model.ContentMode) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if drill, ok := rowDrills[mode]; ok {
		return g.rowDrill(drill)
	}
	switch mode {
	case model.ModeNumbers:
		return g.pattern(digits, 10, 5)
	case model.ModeAlphanumeric:
		combined := letters + digits
		chunks := []string{
			g.pattern(combined, 4, 4),
			g.pattern(digits, 2, 5),
			g.pattern(letters, 2, 5),
			g.pattern(combined, 3, 6),
		}
		return g.shuffleJoin(strings.Fields(strings.Join(chunks, " ")))
	case model.ModeSymbols:
		return g.pattern(symbols+digits, 10, 5) + " " + g.pattern(symbols, 5, 3)
	case model.ModeAll, model.ModeAlphabets:
		return g.mixed()
	default:
		return Fallback
	}
}

func (g *Generator) rowDrill(drill rowDrill) string {
	chunks := make([]string, 0, drill.wordsCount+len(drill.patterns))
	if len(drill.patterns) > 0 {
		first := drill.patterns[0]
		chunks = append(chunks, g.pattern(drill.keys, first.count, first.groupSize))
	}
	for i := 0; i < drill.wordsCount; i++ {
		chunks = append(chunks, g.pick(drill.words))
	}
	for _, spec := range drill.patterns[1:] {
		chunks = append(chunks, g.pattern(drill.keys, spec.count, spec.groupSize))
	}
	return g.shuffleJoin(chunks)
}

func (g *Generator) mixed() string {
	roll := g.rnd.Float64()
	if roll > 0.6 || roll <= 0.3 {
		return g.pick(Sentences) + " " + g.pick(Sentences)
	}
	words := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		words = append(words, g.pick(CommonWords))
	}
	return strings.Join(words, " ")
}

// pattern builds count groups of groupSize random characters from chars.
func (g *Generator) pattern(chars string, count, groupSize int) string {
	runes := []rune(chars)
	groups := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var b strings.Builder
		for j := 0; j < groupSize; j++ {
			b.WriteRune(runes[g.rnd.Intn(len(runes))])
		}
		groups = append(groups, b.String())
	}
	return strings.Join(groups, " ")
}

func (g *Generator) pick(items []string) string {
	return items[g.rnd.Intn(len(items))]
}

func (g *Generator) shuffleJoin(chunks []string) string {
	g.rnd.Shuffle(len(chunks), func(i, j int) {
		chunks[i], chunks[j] = chunks[j], chunks[i]
	})
	return strings.Join(chunks, " ")
}
