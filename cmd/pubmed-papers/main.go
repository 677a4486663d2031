// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-papers CLI. It searches
// PubMed for a query, fetches the matching papers, optionally picks out
// industry affiliations, and writes the result as CSV.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-papers/internal/pubmed"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs a single search-fetch-export pass.
var rootCmd = &cobra.Command{
	Use:   "pubmed-papers <query>",
	Short: "Fetch PubMed papers and export author affiliations as CSV",
	Long: `pubmed-papers searches PubMed for the given query, fetches the matching
papers, and writes one CSV row per paper with its title, date, authors,
affiliations and corresponding email.

The query accepts the full PubMed syntax, including boolean operators and
field tags. With --filter-company, affiliations that do not look academic
are listed in the company_affiliations column.

Output goes to stdout unless --file is given. Logs go to stderr.

A query that is exactly the name of a subcommand (version, help,
completion) must follow "--" to be searched.`,
	Example: `  pubmed-papers "cancer treatment" --max-results 25 --filter-company
  pubmed-papers "crispr[Title] AND 2023[dp]" -f crispr.csv -d
  pubmed-papers -- version`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), viper.GetViper(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-papers.yaml or ~/.config/pubmed-papers/pubmed-papers.yaml)")

	f := rootCmd.Flags()
	f.StringP("file", "f", "", "write CSV to this file instead of stdout")
	f.BoolP("debug", "d", false, "print debug information to stderr")
	f.Int("max-results", pubmed.DefaultMaxResults, "maximum number of papers to fetch")
	f.Bool("filter-company", false, "list non-academic affiliations in company_affiliations")
	f.String("keywords", "", "YAML file overriding the affiliation keyword table")
	f.Duration("timeout", 10*time.Second, "per-request timeout")
	f.Int("retries", 3, "attempts per request before giving up")
	f.Int("batch-size", 200, "PMIDs per efetch request")
	f.String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	f.String("email", "", "contact email sent to NCBI (default: .secrets/ncbi-email)")

	if err := viper.BindPFlags(f); err != nil {
		panic(err)
	}
	setDefaults(viper.GetViper())
}

// setDefaults registers config keys that have no flag.
func setDefaults(v *viper.Viper) {
	v.SetDefault("retry-delay", 2*time.Second)
	v.SetDefault("base-url", pubmed.DefaultBaseURL)
	v.SetDefault("requests-per-second", 0.0)
	v.SetDefault("max-results", pubmed.DefaultMaxResults)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("retries", 3)
	v.SetDefault("batch-size", 200)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-papers")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-papers"))
		}
	}

	viper.SetEnvPrefix("PUBMED_PAPERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
