// Package config loads pravka settings from an optional YAML file and
// PRAVKA_* environment variables via viper. Flags defined in cmd/ take
// precedence over everything here.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	MaxTextLen      int           `mapstructure:"max_text_len"`
	DefaultMode     string        `mapstructure:"default_mode"`
	LanguageToolURL string        `mapstructure:"languagetool_url"`
	CheckerTimeout  time.Duration `mapstructure:"checker_timeout"`
	OllamaURL       string        `mapstructure:"ollama_url"`
	OllamaModel     string        `mapstructure:"ollama_model"`
	DBPath          string        `mapstructure:"db_path"`
	HTTPAddr        string        `mapstructure:"http_addr"`
	Abbreviations   []string      `mapstructure:"abbreviations"`
	LogLevel        string        `mapstructure:"log_level"`
}

// Load reads pravka.yaml (from the working directory or
// ~/.config/pravka) when present, overlays PRAVKA_* environment
// variables, and fills in defaults. A missing config file is not an
// error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("max_text_len", 15000)
	v.SetDefault("default_mode", "legal")
	v.SetDefault("languagetool_url", "https://api.languagetool.org")
	v.SetDefault("checker_timeout", 10*time.Second)
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("ollama_model", "llama3.2")
	v.SetDefault("db_path", "./data/pravka.db")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("log_level", "info")

	v.SetConfigName("pravka")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/pravka")

	v.SetEnvPrefix("PRAVKA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
