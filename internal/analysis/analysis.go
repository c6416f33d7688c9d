// Package analysis computes summary statistics for a reference collection.
package analysis

import (
	"sort"

	"github.com/refscreen/refscreen/internal/record"
)

// topN bounds the author and journal rankings.
const topN = 10

// Count pairs a name with how often it occurs.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report summarizes one collection.
type Report struct {
	TotalReferences   int            `json:"total_references"`
	YearsDistribution map[string]int `json:"years_distribution"`
	TopAuthors        []Count        `json:"top_authors"`
	TopJournals       []Count        `json:"top_journals"`
}

// Analyze computes the report for a collection. Records without a year
// land in the "Unknown" bucket. Author and journal rankings are sorted
// by count descending, then name, so output is deterministic.
func Analyze(records []record.Record) Report {
	report := Report{
		TotalReferences:   len(records),
		YearsDistribution: make(map[string]int),
	}

	authorCounts := make(map[string]int)
	journalCounts := make(map[string]int)

	for _, rec := range records {
		year := rec.YearToken()
		if year == "" {
			year = "Unknown"
		}
		report.YearsDistribution[year]++

		for _, author := range rec.Authors {
			if author != "" {
				authorCounts[author]++
			}
		}
		if rec.Journal != "" {
			journalCounts[rec.Journal]++
		}
	}

	report.TopAuthors = topCounts(authorCounts, topN)
	report.TopJournals = topCounts(journalCounts, topN)
	return report
}

func topCounts(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for name, count := range counts {
		out = append(out, Count{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
