package main

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/refscreen/refscreen/internal/config"
	"github.com/refscreen/refscreen/internal/dedupe"
	"github.com/refscreen/refscreen/internal/storage"
)

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved deduplication sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved session with its references",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

func openSessionDB() *storage.DB {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	db, err := storage.Open(cfg.ResolveDBPath())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return db
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	db := openSessionDB()
	defer db.Close()

	sessions, err := db.ListSessions()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(sessions)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Created", "Files", "Unique", "Duplicates"})
	for _, s := range sessions {
		t.AppendRow(table.Row{
			s.ID,
			s.CreatedAt.Format(time.RFC3339),
			s.Stats.NumFiles,
			s.Stats.TotalUnique,
			s.Stats.TotalDuplicates,
		})
	}
	t.Render()
	return nil
}

// SessionDetail is the sessions show output.
type SessionDetail struct {
	Session    storage.Session    `json:"session"`
	UniqueRefs []dedupe.UniqueRef `json:"unique_refs"`
	Duplicates []dedupe.Duplicate `json:"duplicates"`
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	db := openSessionDB()
	defer db.Close()

	session, uniques, duplicates, err := db.GetSession(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	detail := SessionDetail{Session: *session, UniqueRefs: uniques, Duplicates: duplicates}
	if !humanOutput {
		return outputJSON(detail)
	}

	outputHuman("Session %s (%s)\n", session.ID, session.CreatedAt.Format(time.RFC3339))
	printStatsTable(session.Stats)
	return nil
}
