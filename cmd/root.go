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
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/revsense/internal/config"
	"github.com/valpere/revsense/internal/logging"
)

var version = "0.1.0"

var (
	envFile string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "revsense",
	Short: "Multilingual review sentiment analyzer",
	Long: `A service that detects the language of a product review, translates it
to English when needed, classifies its sentiment as Positive, Negative or
Neutral, and appends the result to an Excel workbook.

Language detection: lingua (offline) or google
Translation:        mymemory or google

Use "revsense serve" to start the web form.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.Init(cfg.Log)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading configuration")
	flags.String("results", "", "Path of the results workbook (default sentiment_analysis_results.xlsx)")
	flags.String("history-db", "", "SQLite review history database (disabled when empty)")
	flags.String("detector", "", "Language detector: lingua or google")
	flags.String("translator", "", "Translation service: mymemory or google")
	flags.StringP("credentials", "c", "", "Path to Google Cloud credentials")
	flags.StringP("project", "p", "", "Google Cloud Project ID")
	flags.String("mymemory-email", "", "MyMemory email (for higher limits)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")

	bindFlag("results_path", "results")
	bindFlag("history_db", "history-db")
	bindFlag("detector", "detector")
	bindFlag("translator", "translator")
	bindFlag("google.credentials", "credentials")
	bindFlag("google.project", "project")
	bindFlag("mymemory.email", "mymemory-email")
	bindFlag("log.level", "log-level")
	bindFlag("log.format", "log-format")
}

// bindFlag lets an explicitly set persistent flag override the config key.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}
