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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal/rules"
)

var rulesMode string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule functions active in a mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := rules.ParseMode(rulesMode)
		if err != nil {
			return err
		}

		set := rules.New(nil)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "RULE\tSOURCE")
		for _, r := range set.ForMode(mode) {
			fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Source)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVarP(&rulesMode, "mode", "m", "legal", "correction mode: base, legal, strict")
}
