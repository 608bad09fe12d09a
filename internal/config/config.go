package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath        string     `env:"DB_PATH" envDefault:"data/qrseekers.db"`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SeedDemo      bool       `env:"SEED_DEMO" envDefault:"true"`
	SessionUserID string     `env:"SESSION_USER_ID"`
	QRSize        int        `env:"QR_SIZE" envDefault:"256"`
}

// Load reads an optional .env file and then parses the environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
