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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/revsense/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the review history database",
	Long: `List and summarise reviews recorded in the SQLite history database.
The database is written only when --history-db is set.`,
}

func openHistory() (*store.Store, error) {
	if cfg.HistoryDB == "" {
		return nil, fmt.Errorf("no history database configured (use --history-db)")
	}
	db, err := store.New(cfg.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded reviews, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListReviews(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No reviews in history.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tLANG\tSCORE\tSENTIMENT\tREVIEW")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%s\t%s\n",
				e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Language,
				e.Score, e.Sentiment, snippet(e.Review, 40))
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total reviews:  %d\n", stats.Total)
		fmt.Fprintf(out, "Average score:  %.4f\n", stats.AverageScore)
		printCounts(cmd, "By sentiment:", stats.BySentiment)
		printCounts(cmd, "By language:", stats.ByLanguage)
		return nil
	},
}

func printCounts(cmd *cobra.Command, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-14s %d\n", k, counts[k])
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of reviews to list (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
}
