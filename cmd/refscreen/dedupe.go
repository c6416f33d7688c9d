package main

import (
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/refscreen/refscreen/internal/config"
	"github.com/refscreen/refscreen/internal/dedupe"
	"github.com/refscreen/refscreen/internal/record"
	"github.com/refscreen/refscreen/internal/ris"
	"github.com/refscreen/refscreen/internal/storage"
)

var (
	dedupeOut  string
	dedupeSave bool
)

func init() {
	dedupeCmd.Flags().StringVar(&dedupeOut, "out", "", "Write the deduplicated reference set to this RIS file")
	dedupeCmd.Flags().BoolVar(&dedupeSave, "save", false, "Persist this run as a session")
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <file.ris>...",
	Short: "Deduplicate references across RIS exports",
	Long: `Deduplicate references across any number of RIS exports. Records are
grouped by DOI when present, else by normalized title+year; the first
occurrence becomes the master and later ones are reported as duplicates
with full provenance (which files each reference appeared in).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedupe,
}

// DedupeResponse is the dedupe command output.
type DedupeResponse struct {
	UniqueRefs []dedupe.UniqueRef `json:"unique_refs"`
	Duplicates []dedupe.Duplicate `json:"duplicates"`
	Stats      dedupe.Stats       `json:"stats"`
	SessionID  string             `json:"session_id,omitempty"`
}

func runDedupe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	sources, err := loadSources(args)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	uniques, duplicates := dedupe.Deduplicate(sources)
	stats := dedupe.ComputeStats(uniques, duplicates, sources)

	resp := DedupeResponse{UniqueRefs: uniques, Duplicates: duplicates, Stats: stats}

	if dedupeOut != "" {
		records := make([]record.Record, len(uniques))
		for i, u := range uniques {
			records[i] = u.Record
		}
		if err := writeRIS(dedupeOut, records); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if dedupeSave {
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = s.Name
		}
		db, err := storage.Open(cfg.ResolveDBPath())
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		defer db.Close()

		id, err := db.SaveSession(names, uniques, duplicates, stats)
		if err != nil {
			exitWithError(ExitError, "saving session: %v", err)
		}
		resp.SessionID = id
	}

	if !humanOutput {
		return outputJSON(resp)
	}

	printStatsTable(stats)
	if resp.SessionID != "" {
		outputHuman("\nSaved session %s\n", resp.SessionID)
	}
	return nil
}

func writeRIS(path string, records []record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ris.Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStatsTable(stats dedupe.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "References", "Duplicates removed"})

	files := make([]string, 0, len(stats.FileCounts))
	for name := range stats.FileCounts {
		files = append(files, name)
	}
	sort.Strings(files)
	for _, name := range files {
		t.AppendRow(table.Row{name, stats.FileCounts[name], stats.DuplicatesByFile[name]})
	}
	t.AppendFooter(table.Row{"Total", stats.TotalOriginal, stats.TotalDuplicates})
	t.Render()

	outputHuman("\nUnique references: %d (%.1f%% reduction across %d files)\n",
		stats.TotalUnique, stats.ReductionPercent, stats.NumFiles)
}
