// Package config loads process-level settings and upload credentials once at
// startup. Pipeline code never reads the environment itself; credentials are
// handed to it as an explicit value on the remote upload target.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/kburki/broadcast-youtube-downloader/internal/logs"
)

// Credentials authenticates against the remote upload endpoint.
type Credentials struct {
	Host     string `env:"UPLOAD_HOST"`
	Username string `env:"UPLOAD_USER"`
	Password string `env:"UPLOAD_PASS"`
}

func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.Username) != ""
}

// Settings are environment-driven defaults; command-line flags override them
// per invocation.
type Settings struct {
	Logs   logs.Config
	Upload Credentials

	LedgerDir    string `env:"BYD_LEDGER_DIR" env-default:"runs"`
	PauseSeconds int    `env:"BYD_ITEM_PAUSE_SECONDS" env-default:"5"`
}

// Load reads an optional .env file and then the environment. A missing .env
// file is only an error when a path was given explicitly.
func Load(envFile string) (Settings, error) {
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Settings{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Settings{}, fmt.Errorf("load .env: %w", err)
		}
	}

	var s Settings
	if err := cleanenv.ReadEnv(&s); err != nil {
		return Settings{}, fmt.Errorf("read environment: %w", err)
	}
	if s.PauseSeconds < 0 {
		s.PauseSeconds = 0
	}
	return s, nil
}
