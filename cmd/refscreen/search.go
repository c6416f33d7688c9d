package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refscreen/refscreen/internal/config"
	"github.com/refscreen/refscreen/internal/query"
	"github.com/refscreen/refscreen/internal/record"
	"github.com/refscreen/refscreen/internal/search"
)

var searchFields string

func init() {
	searchCmd.Flags().StringVar(&searchFields, "fields", "", "Comma-separated fields to search (title,abstract,keywords,journal,authors)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query> <file.ris>...",
	Short: "Search references with a Boolean query",
	Long: `Search references with a Boolean query. Queries support AND/OR,
parentheses, quoted phrases, and * wildcards:

  refscreen search 'LLM OR GPT' refs.ris
  refscreen search '("Large Language Model*" OR LLM) AND "risk of bias"' a.ris b.ris`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	fields := cfg.SearchFields
	if searchFields != "" {
		fields = nil
		for _, f := range strings.Split(searchFields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	var records []record.Record
	for _, path := range args[1:] {
		recs, err := loadRecords(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		records = append(records, recs...)
	}

	result, err := search.Search(records, args[0], fields)
	if err != nil {
		var syntaxErr *query.SyntaxError
		if errors.As(err, &syntaxErr) {
			exitWithError(ExitDataError, "query syntax: %v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(result)
	}

	outputHuman("Query: %s\nFields: %s\n", result.Stats.Query, strings.Join(result.Stats.Fields, ", "))
	outputHuman("Matched %d of %d (%.1f%%)\n\n", result.Stats.MatchedCount, result.Stats.TotalRefs, result.Stats.MatchPercentage)
	for i, m := range result.Matched {
		outputHuman("%d. %s (%s)\n", i+1, truncateString(m.Title, listTitleMaxLen), m.YearToken())
		if len(m.Authors) > 0 {
			outputHuman("   %s\n", formatAuthorsShort(m.Authors, 3))
		}
		outputHuman("   matched: %s\n\n", strings.Join(m.MatchedTerms, ", "))
	}
	return nil
}
