/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/valpere/pravka/internal/checker"
	"github.com/valpere/pravka/internal/config"
	"github.com/valpere/pravka/internal/rules"
	"github.com/valpere/pravka/internal/store"
)

// buildChecker constructs the checker adapter from CLI parameters.
// "none" disables the checker entirely; several names compose into a
// concurrent multi-checker.
func buildChecker(names []string, cfg *config.Config) (checker.Checker, error) {
	var list []checker.Checker

	for _, name := range names {
		switch name {
		case "languagetool":
			list = append(list, checker.NewLanguageTool(cfg.LanguageToolURL, cfg.CheckerTimeout))
		case "ollama":
			list = append(list, checker.NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.CheckerTimeout))
		case "none":
			return nil, nil
		default:
			fmt.Fprintf(os.Stderr, "Unknown checker: %s, skipping\n", name)
		}
	}

	switch len(list) {
	case 0:
		return nil, fmt.Errorf("no valid checkers configured")
	case 1:
		return list[0], nil
	default:
		return checker.NewMulti(list, cfg.CheckerTimeout), nil
	}
}

// buildRules merges the configured abbreviation set with the
// user-defined tokens from the store (when one is open).
func buildRules(ctx context.Context, cfg *config.Config, db *store.Store) *rules.Set {
	abbr := cfg.Abbreviations
	if len(abbr) == 0 {
		abbr = rules.DefaultAbbreviations
	}
	if db != nil {
		extra, err := db.AbbreviationTokens(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load abbreviations from store: %v\n", err)
		} else {
			abbr = append(append([]string{}, abbr...), extra...)
		}
	}
	return rules.New(abbr)
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
