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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/revsense/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the rows of the results workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := results.NewLogger(cfg.ResultsPath).Rows(context.Background())
		if err != nil {
			return fmt.Errorf("failed to read results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(rows) <= 1 {
			fmt.Fprintf(out, "No results in %s.\n", cfg.ResultsPath)
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, row := range rows {
			cells := make([]string, len(results.Header))
			for i := range cells {
				if i < len(row) {
					cells[i] = snippet(row[i], 60)
				}
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		return w.Flush()
	},
}

// snippet shortens s to at most n runes.
func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}
