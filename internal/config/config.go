// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	appErrors "github.com/unclebandit/workflow-summary/internal/errors"
	"github.com/unclebandit/workflow-summary/internal/llm"
)

type Config struct {
	APIKey          string
	Model           string
	Port            string
	AMQPURL         string
	SessionCapacity int
}

// Load reads .env (if present) and the process environment. A missing
// API key is returned as appErrors.ErrMissingCredential.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		APIKey:          getenv("API_KEY"),
		Model:           getenv("GEMINI_MODEL"),
		Port:            getenv("PORT"),
		AMQPURL:         getenv("AMQP_URL"),
		SessionCapacity: 1024,
	}

	if cfg.APIKey == "" {
		cfg.APIKey = getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, appErrors.ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if v := getenv("SESSION_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionCapacity = n
		}
	}

	log.Println("GEMINI_MODEL:", cfg.Model)
	log.Println("PORT:", cfg.Port)

	return cfg, nil
}
