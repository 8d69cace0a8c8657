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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/revsense/internal/pipeline"
)

var analyzeInputFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [review]",
	Short: "Analyze a single review from the command line",
	Long: `Run one review through the same pipeline as the web form and append the
result to the workbook. The review is taken from the argument or, with -i,
from a file.

Example:
  revsense analyze "Este producto es terrible"
  revsense analyze -i review.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var review string
		switch {
		case analyzeInputFile != "" && len(args) > 0:
			return fmt.Errorf("pass either a review argument or --input, not both")
		case analyzeInputFile != "":
			data, err := os.ReadFile(analyzeInputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			review = strings.TrimSpace(string(data))
		case len(args) == 1:
			review = args[0]
		}

		p, closeFn, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		res, err := p.Process(context.Background(), review)
		var logErr *pipeline.LoggingError
		switch {
		case errors.Is(err, pipeline.ErrEmptyReview):
			return fmt.Errorf("a non-empty review is required")
		case errors.As(err, &logErr):
			return fmt.Errorf("error saving to Excel: %w", logErr.Err)
		case err != nil:
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Review:            %s\n", res.Review)
		fmt.Fprintf(out, "Sentiment:         %s\n", res.Sentiment)
		fmt.Fprintf(out, "Detected Language: %s\n", res.DetectedLanguage)
		fmt.Fprintf(out, "Compound score:    %.4f\n", res.Score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "input", "i", "", "File containing the review text")
}
