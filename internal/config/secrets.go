package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets are the credentials and DSNs supplied through the environment.
// They never appear in config files; the CLI loads a .env file first when
// one exists.
type Secrets struct {
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
}

// LoadSecrets parses the process environment.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("parse secrets: %w", err)
	}
	return s, nil
}
