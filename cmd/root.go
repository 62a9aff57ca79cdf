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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "pravka",
	Short: "Russian text corrector",
	Long: `A CLI application that corrects Russian text: spelling and grammar
suggestions from an external checker, Russian typography (guillemets,
em-dashes, non-breaking spaces) and legal document formatting, composed
into one final text plus an audit trail of applied edits.

Modes: base (checker only), legal (default), strict (aggressive).

Use "pravka correct --help" for correction options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
