package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Secrets are values read from the environment and an optional .env file.
type Secrets struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	Model         string `env:"TYPEMASTER_AI_MODEL"`
	CloudDSN      string `env:"TYPEMASTER_CLOUD_DSN"`
	CloudUser     string `env:"TYPEMASTER_CLOUD_USER"`
}

// LoadSecrets loads dotenv files (existing variables win) and parses the
// environment. Missing dotenv files are ignored.
func LoadSecrets(dotenvPaths ...string) (Secrets, error) {
	for _, path := range dotenvPaths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return s, nil
}
