package main

import (
	"github.com/spf13/cobra"

	"github.com/refscreen/refscreen/internal/config"
	"github.com/refscreen/refscreen/internal/dedupe"
	"github.com/refscreen/refscreen/internal/record"
)

var (
	compareNoFuzzy       bool
	compareThreshold     float64
	compareYearTolerance int
	compareScores        bool
)

func init() {
	compareCmd.Flags().BoolVar(&compareNoFuzzy, "no-fuzzy", false, "Disable the fuzzy similarity pass")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 0, "Fuzzy similarity threshold (0-1, default from config)")
	compareCmd.Flags().IntVar(&compareYearTolerance, "year-tolerance", -1, "Max year difference for high-similarity matches (default from config)")
	compareCmd.Flags().BoolVar(&compareScores, "scores", false, "Attach confidence scores to overlap entries")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <a.ris> <b.ris>",
	Short: "Compare two RIS exports",
	Long: `Compare two RIS exports and report which references appear in both
(matching on DOI or normalized title+year, with a fuzzy fallback for
typos and year drift) and which are unique to each file.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

// ScoredOverlapEntry decorates an overlap entry with match confidence.
type ScoredOverlapEntry struct {
	dedupe.OverlapEntry
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// CompareResponse is the compare command output.
type CompareResponse struct {
	Overlap       []dedupe.OverlapEntry `json:"overlap,omitempty"`
	ScoredOverlap []ScoredOverlapEntry  `json:"overlap_scored,omitempty"`
	UniqueA       []record.Record       `json:"unique_a"`
	UniqueB       []record.Record       `json:"unique_b"`
	OverlapCount  int                   `json:"overlap_count"`
	UniqueACount  int                   `json:"unique_a_count"`
	UniqueBCount  int                   `json:"unique_b_count"`
	TotalA        int                   `json:"total_a"`
	TotalB        int                   `json:"total_b"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	recordsA, err := loadRecords(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	recordsB, err := loadRecords(args[1])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	opts := dedupe.Options{
		UseFuzzy:      !compareNoFuzzy,
		Threshold:     cfg.Threshold,
		YearTolerance: cfg.YearTolerance,
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = compareThreshold
	}
	if cmd.Flags().Changed("year-tolerance") {
		opts.YearTolerance = compareYearTolerance
	}

	result := dedupe.Compare(recordsA, recordsB, opts)

	resp := CompareResponse{
		UniqueA:      result.UniqueA,
		UniqueB:      result.UniqueB,
		OverlapCount: len(result.Overlap),
		UniqueACount: len(result.UniqueA),
		UniqueBCount: len(result.UniqueB),
		TotalA:       len(recordsA),
		TotalB:       len(recordsB),
	}

	if compareScores {
		resp.ScoredOverlap = scoreOverlap(result.Overlap, recordsB)
	} else {
		resp.Overlap = result.Overlap
	}

	if !humanOutput {
		return outputJSON(resp)
	}

	outputHuman("%s: %d references, %s: %d references\n", args[0], resp.TotalA, args[1], resp.TotalB)
	outputHuman("Overlap: %d  Unique to A: %d  Unique to B: %d\n\n", resp.OverlapCount, resp.UniqueACount, resp.UniqueBCount)
	for _, e := range result.Overlap {
		marker := " "
		if e.FuzzyMatch {
			marker = "~"
		}
		outputHuman("%s %s (%s)\n", marker, truncateString(e.Title, listTitleMaxLen), e.YearToken())
	}
	return nil
}

// scoreOverlap attaches confidence to each overlap entry by scoring it
// against its best counterpart in B (the record B-side sharing a key,
// or failing that the most similar title).
func scoreOverlap(overlap []dedupe.OverlapEntry, recordsB []record.Record) []ScoredOverlapEntry {
	scored := make([]ScoredOverlapEntry, 0, len(overlap))
	for _, entry := range overlap {
		best, bestScore, bestRationale := -1, -1.0, ""
		for j, rb := range recordsB {
			score, rationale := dedupe.Score(entry.Record, rb)
			if score > bestScore {
				best, bestScore, bestRationale = j, score, rationale
			}
		}
		if best < 0 {
			bestScore, bestRationale = 0.50, "Low confidence match"
		}
		scored = append(scored, ScoredOverlapEntry{
			OverlapEntry: entry,
			Confidence:   bestScore,
			Rationale:    bestRationale,
		})
	}
	return scored
}
