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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal/rules"
	"github.com/valpere/pravka/internal/store"
)

var abbrCmd = &cobra.Command{
	Use:   "abbr",
	Short: "Manage preserved abbreviations",
	Long: `Manage the abbreviation tokens whose quotes the legal rules leave alone.

Built-in tokens cover common legal forms (ООО, ЗАО, АО, ...); entries
added here extend that set.`,
}

var abbrAddCmd = &cobra.Command{
	Use:   "add <token>",
	Short: "Add an abbreviation token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, db *store.Store) error {
			if err := db.AddAbbreviation(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Added abbreviation: %s\n", args[0])
			return nil
		})
	},
}

var abbrListCmd = &cobra.Command{
	Use:   "list",
	Short: "List abbreviation tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, db *store.Store) error {
			entries, err := db.ListAbbreviations(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTOKEN\tORIGIN")
			for _, t := range rules.DefaultAbbreviations {
				fmt.Fprintf(w, "-\t%s\tbuilt-in\n", t)
			}
			for _, a := range entries {
				fmt.Fprintf(w, "%s\t%s\tuser\n", a.ID, a.Token)
			}
			return w.Flush()
		})
	},
}

var abbrDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user-defined abbreviation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, db *store.Store) error {
			if err := db.DeleteAbbreviation(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(abbrCmd)
	abbrCmd.AddCommand(abbrAddCmd)
	abbrCmd.AddCommand(abbrListCmd)
	abbrCmd.AddCommand(abbrDeleteCmd)
}
