// README: Config loader with env defaults for logging, rule file, timezone and input settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string
	Log struct {
		Level string
	}
	Rules struct {
		File     string
		Timezone string
	}
	Input struct {
		File  string
		Daily bool
	}
}

// Load reads an optional .env file from the working directory, then the
// process environment. A missing .env is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	cfg.Env = envOrDefault("TOLL_ENV", "development")
	cfg.Log.Level = envOrDefault("TOLL_LOG_LEVEL", "info")
	cfg.Rules.File = envOrDefault("TOLL_RULES_FILE", "")
	cfg.Rules.Timezone = envOrDefault("TOLL_TIMEZONE", "Europe/Stockholm")
	cfg.Input.File = envOrDefault("TOLL_INPUT_FILE", "toll_data.json")
	cfg.Input.Daily = envOrDefaultBool("TOLL_DAILY", false)
	return cfg, nil
}

// Location resolves Rules.Timezone. An empty name means UTC.
func (c Config) Location() (*time.Location, error) {
	return LoadLocation(c.Rules.Timezone)
}

func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
