package main

import (
	"github.com/spf13/cobra"

	"github.com/refscreen/refscreen/internal/pdf"
	"github.com/refscreen/refscreen/internal/record"
)

func init() {
	rootCmd.AddCommand(pdfdoiCmd)
}

var pdfdoiCmd = &cobra.Command{
	Use:   "pdfdoi <file.pdf> [refs.ris...]",
	Short: "Extract a DOI from a PDF and match it against RIS exports",
	Long: `Extract a DOI from the first pages of a PDF. When RIS files are
given, the DOI is matched against them to find the corresponding
reference record.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPDFDOI,
}

// PDFDOIResponse is the pdfdoi command output.
type PDFDOIResponse struct {
	DOI     string         `json:"doi"`
	Matched *record.Record `json:"matched,omitempty"`
	Source  string         `json:"source,omitempty"`
}

func runPDFDOI(cmd *cobra.Command, args []string) error {
	doi, err := pdf.ExtractDOI(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	resp := PDFDOIResponse{DOI: doi}

	if doi != "" && len(args) > 1 {
		sources, err := loadSources(args[1:])
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		for _, src := range sources {
			if i := pdf.MatchRecord(doi, src.Records); i >= 0 {
				matched := src.Records[i]
				resp.Matched = &matched
				resp.Source = src.Name
				break
			}
		}
	}

	if !humanOutput {
		return outputJSON(resp)
	}

	if resp.DOI == "" {
		outputHuman("No DOI found in %s\n", args[0])
		return nil
	}
	outputHuman("DOI: %s\n", resp.DOI)
	if resp.Matched != nil {
		outputHuman("Matched in %s: %s (%s)\n", resp.Source,
			truncateString(resp.Matched.Title, listTitleMaxLen), resp.Matched.YearToken())
	} else if len(args) > 1 {
		outputHuman("No matching reference found\n")
	}
	return nil
}
