package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	AI       AIConfig       `toml:"ai"`
	Cloud    CloudConfig    `toml:"cloud"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lesson *string  `toml:"lesson"`
	Topic  *string  `toml:"topic"`
	Format *string  `toml:"format"`
	Mute   *bool    `toml:"mute"`
	Melody *string  `toml:"melody"`
	Volume *float64 `toml:"volume"`
}

// AIConfig maps the generation backend settings. The API key is read from
// the environment only.
type AIConfig struct {
	Model   *string `toml:"model"`
	BaseURL *string `toml:"base-url"`
	Timeout *string `toml:"timeout"`
}

// CloudConfig maps the history mirror settings.
type CloudConfig struct {
	User    *string `toml:"user"`
	Backend *string `toml:"backend"`
	DSN     *string `toml:"dsn"`
	Delay   *bool   `toml:"delay"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `typemaster config` when no file exists.
const Template = `# typemaster configuration
# Flags passed on the command line override values here.

[practice]
# lesson = "1"            # preset id or title, "custom" for generated text
# topic = "technology"    # topic for generated lessons
# format = "Paragraph"    # Paragraph, Story, Business Letter, Abstract, Code (Python), Code (JS)
# mute = false
# melody = "twinkle"      # see: typemaster melody list
# volume = 0.0            # relative gain in dB

[ai]
# model = "gpt-4o-mini"
# base-url = ""
# timeout = "30s"
# The API key is read from OPENAI_API_KEY or the .env file next to this config.

[cloud]
# user = ""
# backend = "simulated"   # simulated or postgres
# dsn = ""                # postgres DSN, or TYPEMASTER_CLOUD_DSN
# delay = true            # simulated network latency
`
