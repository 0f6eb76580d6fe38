package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.Lesson != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
lesson = "3"
mute = true

[ai]
model = "gpt-4o"

[cloud]
user = "alice"
delay = false
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.Lesson == nil || *cfg.Practice.Lesson != "3" {
		t.Fatalf("lesson not decoded")
	}
	if cfg.Practice.Mute == nil || !*cfg.Practice.Mute {
		t.Fatalf("mute not decoded")
	}
	if cfg.Practice.Topic != nil {
		t.Fatalf("unset keys must stay nil")
	}
	if cfg.AI.Model == nil || *cfg.AI.Model != "gpt-4o" {
		t.Fatalf("model not decoded")
	}
	if cfg.Cloud.Delay == nil || *cfg.Cloud.Delay {
		t.Fatalf("delay not decoded")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestLoadSecretsEnvWinsOverDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OPENAI_API_KEY=from-file\nTYPEMASTER_CLOUD_DSN=postgres://x\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("TYPEMASTER_CLOUD_DSN", "")
	if err := os.Unsetenv("TYPEMASTER_CLOUD_DSN"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	s, err := LoadSecrets(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadSecrets: %v", err)
	}
	if s.OpenAIKey != "from-env" {
		t.Fatalf("environment should win, got %q", s.OpenAIKey)
	}
	if s.CloudDSN != "postgres://x" {
		t.Fatalf("dotenv value not loaded, got %q", s.CloudDSN)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "typemaster", "typemaster.log") {
		t.Fatalf("unexpected log path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "typemaster", "typemaster.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
