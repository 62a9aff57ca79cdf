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
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal/config"
	"github.com/valpere/pravka/internal/engine"
	"github.com/valpere/pravka/internal/rules"
	"github.com/valpere/pravka/internal/store"
)

var (
	csvInput    string
	csvOutput   string
	csvColumns  []int
	csvMode     string
	csvCheckers []string
	csvResume   string
	csvNoHeader bool
)

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Correct text columns of a CSV file",
	Long: `Correct selected columns of a CSV file cell by cell.

Progress is checkpointed in the store, so an interrupted run can be
resumed with --resume without re-correcting finished cells.`,
	Example: `  pravka csv -i reviews.csv -o fixed.csv --columns 2
  pravka csv -i reviews.csv -o fixed.csv --columns 1,2 --mode base
  pravka csv -i reviews.csv -o fixed.csv --columns 2 --resume cp_1712345678901234567`,
	RunE: runCSV,
}

func init() {
	rootCmd.AddCommand(csvCmd)

	csvCmd.Flags().StringVarP(&csvInput, "input", "i", "", "input CSV file (required)")
	csvCmd.Flags().StringVarP(&csvOutput, "output", "o", "", "output CSV file (required)")
	csvCmd.Flags().IntSliceVar(&csvColumns, "columns", nil, "zero-based column indexes to correct (required)")
	csvCmd.Flags().StringVarP(&csvMode, "mode", "m", "", "correction mode: base, legal, strict")
	csvCmd.Flags().StringSliceVar(&csvCheckers, "checker", []string{"languagetool"}, "checkers to use: languagetool, ollama, none")
	csvCmd.Flags().StringVar(&csvResume, "resume", "", "resume from an existing checkpoint ID")
	csvCmd.Flags().BoolVar(&csvNoHeader, "no-header", false, "treat the first row as data, not a header")

	_ = csvCmd.MarkFlagRequired("input")
	_ = csvCmd.MarkFlagRequired("output")
	_ = csvCmd.MarkFlagRequired("columns")
}

func runCSV(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	modeName := csvMode
	if modeName == "" {
		modeName = cfg.DefaultMode
	}
	mode, err := rules.ParseMode(modeName)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	chk, err := buildChecker(csvCheckers, cfg)
	if err != nil {
		return err
	}
	eng := engine.New(chk, engine.Options{
		MaxTextLen: cfg.MaxTextLen,
		Rules:      buildRules(ctx, cfg, db),
		Logger:     logger,
	})

	records, err := readCSVFile(csvInput)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("input CSV is empty")
	}

	checkpointID := csvResume
	done := map[string]string{}
	if checkpointID != "" {
		cp, err := db.GetCSVCheckpoint(ctx, checkpointID)
		if err != nil {
			return err
		}
		if cp.Status == "completed" {
			return fmt.Errorf("checkpoint %s is already completed", checkpointID)
		}
		done, err = db.GetCSVCells(ctx, checkpointID)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Resuming checkpoint %s: %d cells already done\n", checkpointID, len(done))
	} else {
		checkpointID, err = db.CreateCSVCheckpoint(ctx, csvInput, csvOutput, string(mode))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Checkpoint: %s\n", checkpointID)
	}

	firstDataRow := 1
	if csvNoHeader {
		firstDataRow = 0
	}

	for rowIdx := firstDataRow; rowIdx < len(records); rowIdx++ {
		for _, colIdx := range csvColumns {
			if colIdx < 0 || colIdx >= len(records[rowIdx]) {
				continue
			}
			key := fmt.Sprintf("%d:%d", rowIdx, colIdx)
			if cached, ok := done[key]; ok {
				records[rowIdx][colIdx] = cached
				continue
			}
			cell := records[rowIdx][colIdx]
			if strings.TrimSpace(cell) == "" {
				continue
			}

			result, err := eng.Correct(ctx, engine.Request{Text: cell, Mode: mode})
			if err != nil {
				return fmt.Errorf("row %d column %d: %w (resume with --resume %s)",
					rowIdx, colIdx, err, checkpointID)
			}
			records[rowIdx][colIdx] = result.Text
			if err := db.SaveCSVCell(ctx, checkpointID, rowIdx, colIdx, result.Text); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint cell %s: %v\n", key, err)
			}
		}
		if (rowIdx-firstDataRow+1)%50 == 0 {
			fmt.Fprintf(os.Stderr, "Processed %d rows\n", rowIdx-firstDataRow+1)
		}
	}

	if err := writeCSVFile(csvOutput, records); err != nil {
		return err
	}
	if err := db.CompleteCSVCheckpoint(ctx, checkpointID); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to complete checkpoint: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "Done: %d rows written to %s\n", len(records)-firstDataRow, csvOutput)
	return nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse input CSV: %w", err)
	}
	return records, nil
}

func writeCSVFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write output CSV: %w", err)
	}
	return nil
}
