package melody

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named tune as written in a presets file.
type Preset struct {
	Name  string   `yaml:"name"`
	Title string   `yaml:"title"`
	Notes []string `yaml:"notes"`
}

type presetFile struct {
	Melodies []Preset `yaml:"melodies"`
}

// Presets returns the built-in tunes sorted by name.
func Presets() ([]Preset, error) {
	return LoadPresets(bytes.NewReader(presetsYAML))
}

// LoadPresets parses a presets file.
func LoadPresets(r io.Reader) ([]Preset, error) {
	var file presetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode melody presets: %w", err)
	}
	sort.Slice(file.Melodies, func(i, j int) bool {
		return file.Melodies[i].Name < file.Melodies[j].Name
	})
	return file.Melodies, nil
}

// FindPreset resolves a built-in tune by name.
func FindPreset(name string) (*Melody, error) {
	presets, err := Presets()
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return FromNames(p.Title, p.Notes)
		}
	}
	return nil, fmt.Errorf("unknown melody %q", name)
}
