package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// LoadConfig loads the application configuration from environment variables.
// A .env file next to the project root, or in the working directory, is
// applied first; variables already set in the environment win.
func LoadConfig() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv() {
	if execPath, err := os.Executable(); err == nil {
		projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
		envPath := filepath.Join(projectRoot, ".env")
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("loaded .env", slog.String("path", envPath))
			return
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}
}
