package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage is the database part of the configuration. Maintenance commands
// load it on its own since they never talk to Telegram.
type Storage struct {
	DBPath string `env:"DB_PATH" envDefault:"trustsphere.db"`
}

type Config struct {
	Storage

	BotToken    string        `env:"BOT_TOKEN,required,notEmpty"`
	AdminID     int64         `env:"ADMIN_ID,required"`
	SendRetries int           `env:"SEND_RETRIES" envDefault:"2"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads the configuration from the environment. A .env file is picked up
// by the godotenv autoload import in main.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadStorage() (Storage, error) {
	var cfg Storage
	if err := env.Parse(&cfg); err != nil {
		return Storage{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.AdminID == 0 {
		return errors.New("ADMIN_ID must be a non-zero Telegram user id")
	}
	if c.SendRetries < 1 {
		return fmt.Errorf("SEND_RETRIES must be at least 1, got %d", c.SendRetries)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// DSN is the sqlite connection string for DBPath.
func (s Storage) DSN() string {
	return s.DBPath + "?_journal_mode=WAL&_busy_timeout=5000"
}
