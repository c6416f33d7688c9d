// Package main provides the refscreen CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refscreen",
	Short: "Reference reconciliation for systematic-review screening",
	Long: `refscreen reconciles bibliographic reference exports (RIS) from
different literature-search tools: it detects which references are the
same publication despite missing DOIs, differing years, or minor title
variants, compares two exports, deduplicates many at once with
provenance tracking, and searches collections with Boolean queries.

All commands output JSON by default for easy scripting; pass --human
for readable tables and prose.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
