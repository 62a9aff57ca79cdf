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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal/config"
	"github.com/valpere/pravka/internal/detector"
	"github.com/valpere/pravka/internal/diffview"
	"github.com/valpere/pravka/internal/engine"
	"github.com/valpere/pravka/internal/rules"
	"github.com/valpere/pravka/internal/store"
)

var (
	correctInput    string
	correctOutput   string
	correctMode     string
	correctCheckers []string
	correctEdits    bool
	correctDiff     string
	correctNoCache  bool
)

var correctCmd = &cobra.Command{
	Use:   "correct [text]",
	Short: "Correct Russian text",
	Long: `Correct Russian text with the configured checker and rule set.

Text is taken from the positional argument, the --input file, or stdin,
in that order. The corrected text goes to stdout or the --output file.`,
	Example: `  pravka correct "Договор заключен с ООО "Ромашка""
  pravka correct -i draft.txt -o fixed.txt --mode strict
  cat draft.txt | pravka correct --edits
  pravka correct -i contract.txt --diff review.html`,
	RunE: runCorrect,
}

func init() {
	rootCmd.AddCommand(correctCmd)

	correctCmd.Flags().StringVarP(&correctInput, "input", "i", "", "input file (default: stdin)")
	correctCmd.Flags().StringVarP(&correctOutput, "output", "o", "", "output file (default: stdout)")
	correctCmd.Flags().StringVarP(&correctMode, "mode", "m", "", "correction mode: base, legal, strict")
	correctCmd.Flags().StringSliceVar(&correctCheckers, "checker", []string{"languagetool"}, "checkers to use: languagetool, ollama, none")
	correctCmd.Flags().BoolVar(&correctEdits, "edits", false, "print applied edits as JSON to stderr")
	correctCmd.Flags().StringVar(&correctDiff, "diff", "", "write an HTML diff of the changes to this file")
	correctCmd.Flags().BoolVar(&correctNoCache, "no-cache", false, "bypass the correction memory")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	text, err := readInput(args)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no input text provided")
	}

	modeName := correctMode
	if modeName == "" {
		modeName = cfg.DefaultMode
	}
	mode, err := rules.ParseMode(modeName)
	if err != nil {
		return err
	}

	if russian, detected := detector.New().IsRussian(text); !russian {
		fmt.Fprintf(os.Stderr, "Warning: input looks like %s, not Russian; results may be poor\n", detected)
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: correction memory unavailable: %v\n", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	if db != nil && !correctNoCache {
		cached, ok, err := db.GetCached(ctx, text, string(mode))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: memory lookup failed: %v\n", err)
		} else if ok {
			logger.Debug("correction served from memory", "mode", mode)
			if correctEdits && cached.EditsJSON != "" {
				fmt.Fprintln(os.Stderr, cached.EditsJSON)
			}
			return writeOutput(cached.ResultText)
		}
	}

	chk, err := buildChecker(correctCheckers, cfg)
	if err != nil {
		return err
	}

	eng := engine.New(chk, engine.Options{
		MaxTextLen: cfg.MaxTextLen,
		Rules:      buildRules(ctx, cfg, db),
		Logger:     logger,
	})

	result, err := eng.Correct(ctx, engine.Request{
		Text:        text,
		Mode:        mode,
		ReturnEdits: correctEdits || correctDiff != "" || db != nil,
	})
	if err != nil {
		return err
	}
	if result.CheckerDegraded {
		fmt.Fprintln(os.Stderr, "Warning: checker unavailable, applied rule corrections only")
	}

	editsJSON := ""
	if len(result.Edits) > 0 {
		raw, err := json.Marshal(result.Edits)
		if err == nil {
			editsJSON = string(raw)
		}
	}

	if db != nil {
		requestID := uuid.New().String()
		if err := db.SaveRequest(ctx, requestID, text, string(mode)); err == nil {
			_ = db.SaveResult(ctx, requestID, result.Text, result.Stats.EditsCount,
				result.Stats.ProcessingTimeMS, result.CheckerDegraded)
		}
		if !correctNoCache && !result.CheckerDegraded {
			if err := db.SaveToMemory(ctx, text, string(mode), result.Text, editsJSON, result.Stats.EditsCount); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save to memory: %v\n", err)
			}
		}
	}

	if correctEdits {
		fmt.Fprintln(os.Stderr, editsJSON)
	}

	if correctDiff != "" {
		fragment := diffview.Render(engine.Normalize(text), result.Edits)
		page := diffview.Page("pravka diff", fragment)
		if err := os.WriteFile(correctDiff, []byte(page), 0644); err != nil {
			return fmt.Errorf("failed to write diff file: %w", err)
		}
	}

	return writeOutput(result.Text)
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if correctInput != "" {
		data, err := os.ReadFile(correctInput)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeOutput(text string) error {
	if correctOutput != "" {
		if err := os.WriteFile(correctOutput, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Println(text)
	return nil
}
