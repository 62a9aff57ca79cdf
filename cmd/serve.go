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
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal/config"
	"github.com/valpere/pravka/internal/engine"
	"github.com/valpere/pravka/internal/httpapi"
	"github.com/valpere/pravka/internal/store"
)

var (
	serveAddr     string
	serveCheckers []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP correction API",
	Long: `Run the HTTP correction API.

Exposes POST /correct, GET /health, and a usage page at /.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringSliceVar(&serveCheckers, "checker", []string{"languagetool"}, "checkers to use: languagetool, ollama, none")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	chk, err := buildChecker(serveCheckers, cfg)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: correction memory unavailable: %v\n", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	eng := engine.New(chk, engine.Options{
		MaxTextLen: cfg.MaxTextLen,
		Rules:      buildRules(ctx, cfg, db),
		Logger:     logger,
	})

	addr := serveAddr
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	return httpapi.New(eng, logger).ListenAndServe(addr)
}
