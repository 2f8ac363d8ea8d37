// Package config loads runtime settings from an optional config file plus
// environment variables. Env always wins so deployments can override the
// file without editing it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort   = 3009
	DefaultDbPath = "allogator.db"
)

type Config struct {
	Port   int    `json:"port"`
	DbPath string `json:"dbPath"`

	// comma-separated finnhub keys; empty means yahoo quotes only
	FinnhubApiKeys string `json:"finnhubApiKeys"`
}

func (c Config) FinnhubKeys() []string {
	keys := []string{}
	for _, key := range strings.Split(c.FinnhubApiKeys, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

// Load reads config.json (path varies by ALLOGATOR_ENV) and then applies
// env overrides. A missing file is fine - defaults plus env are enough to
// run.
func Load() (*Config, error) {
	// .env is optional, used for local development
	_ = godotenv.Load()

	cfg := Config{
		Port:   DefaultPort,
		DbPath: DefaultDbPath,
	}

	path := "config.json"
	if env := os.Getenv("ALLOGATOR_ENV"); env != "" {
		path = fmt.Sprintf("config-%s.json", strings.ToLower(env))
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = parsed
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DbPath = dbPath
	}
	if keys := os.Getenv("FINNHUB_API_KEYS"); keys != "" {
		cfg.FinnhubApiKeys = keys
	}

	return &cfg, nil
}
