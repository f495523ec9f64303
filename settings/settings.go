// Package settings loads process configuration from the environment.
//
// Values come from a .env file when one exists, then from the real
// environment, which wins. Command-line flags are applied on top by main.
package settings

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds everything the server reads from the environment.
type Settings struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"8080"`
	BoardsDir    string `env:"BOARDS_DIR" envDefault:"boards"`
	DefaultBoard string `env:"DEFAULT_BOARD" envDefault:"standard"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"static"`
	Debug        bool   `env:"DEBUG"`
	LogFile      string `env:"LOG_FILE"`

	// DiceSeed fixes the dice sequence. Zero draws a seed from crypto/rand.
	DiceSeed uint64 `env:"DICE_SEED"`

	Ngrok Ngrok `envPrefix:"NGROK_"`
}

// Ngrok configures the optional public tunnel.
type Ngrok struct {
	Enabled   bool   `env:"ENABLED"`
	AuthToken string `env:"AUTHTOKEN"`
	Domain    string `env:"DOMAIN"`
}

// Load reads the given dotenv files (".env" when none are named) and parses
// the environment. Missing dotenv files are not an error.
func Load(files ...string) (*Settings, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values env.Parse cannot.
func (s *Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("settings: port must be between 0 and 65535, got %d", s.Port)
	}
	if s.Host == "" {
		return fmt.Errorf("settings: host is required")
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
