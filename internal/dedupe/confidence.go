package dedupe

import (
	"fmt"
	"strings"

	"github.com/refscreen/refscreen/internal/record"
)

// Score rates how confident we are that two records, already believed
// to be the same publication, really are. It returns a score in [0,1]
// and a short rationale for display. Scoring is diagnostic only and
// never gates whether a match is accepted.
func Score(a, b record.Record) (float64, string) {
	doiA := strings.TrimSpace(a.DOI)
	doiB := strings.TrimSpace(b.DOI)
	if doiA != "" && doiB != "" && strings.EqualFold(doiA, doiB) {
		return 1.0, "DOI match"
	}

	titleA := NormalizeTitle(a.Title)
	titleB := NormalizeTitle(b.Title)
	yearA := a.YearToken()
	yearB := b.YearToken()

	if titleA == titleB && yearA == yearB && yearA != "" {
		return 0.95, "Exact title+year match"
	}

	if titleA != "" && titleB != "" {
		similarity := TitleSimilarity(titleA, titleB)
		switch {
		case similarity >= 0.95 && yearA == yearB:
			return 0.90, fmt.Sprintf("High similarity (%.2f)", similarity)
		case similarity >= 0.90 && yearA == yearB:
			return 0.85, fmt.Sprintf("Good similarity (%.2f)", similarity)
		case similarity >= 0.85 && yearA == yearB:
			return 0.75, fmt.Sprintf("Fair similarity (%.2f)", similarity)
		}
	}

	return 0.50, "Low confidence match"
}
