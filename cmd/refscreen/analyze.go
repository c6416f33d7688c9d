package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/refscreen/refscreen/internal/analysis"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.ris>",
	Short: "Summarize one RIS export",
	Long: `Summarize one RIS export: total references, publication-year
distribution, and the most frequent authors and journals.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	report := analysis.Analyze(records)

	if !humanOutput {
		return outputJSON(report)
	}

	outputHuman("References: %d\n\n", report.TotalReferences)

	years := make([]string, 0, len(report.YearsDistribution))
	for y := range report.YearsDistribution {
		years = append(years, y)
	}
	sort.Strings(years)
	outputHuman("Years:\n")
	for _, y := range years {
		outputHuman("  %s: %d\n", y, report.YearsDistribution[y])
	}

	outputHuman("\nTop authors:\n")
	for _, c := range report.TopAuthors {
		outputHuman("  %4d  %s\n", c.Count, c.Name)
	}
	outputHuman("\nTop journals:\n")
	for _, c := range report.TopJournals {
		outputHuman("  %4d  %s\n", c.Count, c.Name)
	}
	return nil
}
