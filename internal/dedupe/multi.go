package dedupe

import (
	"sort"

	"github.com/refscreen/refscreen/internal/record"
)

// Source pairs a source identifier (typically a file name) with the
// ordered records it contributed.
type Source struct {
	Name    string
	Records []record.Record
}

// UniqueRef is the master record for one identity group across all
// sources, with provenance metadata.
type UniqueRef struct {
	record.Record
	Source          string   `json:"source_file"`
	AppearsIn       []string `json:"appears_in"`
	OccurrenceCount int      `json:"occurrence_count"`
}

// Duplicate is a non-master member of a multi-occurrence group.
type Duplicate struct {
	record.Record
	Source      string   `json:"source_file"`
	DuplicateOf string   `json:"duplicate_of"` // source of the master record
	AllSources  []string `json:"all_sources"`
}

// Deduplicate folds N source collections into unique references and
// duplicates. Each record is grouped by its collapsed key (identifier
// when present, else title+year); the first member of a group in
// flattened input order becomes the master. Unlike Compare, this path
// applies no either-component widening and no fuzzy pass, so a pair
// the pairwise comparator would merge fuzzily can survive here as two
// uniques.
//
// Every input record lands in exactly one output list, so
// len(uniques) + len(duplicates) equals the total input count.
func Deduplicate(sources []Source) (uniques []UniqueRef, duplicates []Duplicate) {
	type tagged struct {
		rec    record.Record
		source string
	}

	var all []tagged
	for _, src := range sources {
		for _, r := range src.Records {
			all = append(all, tagged{rec: r, source: src.Name})
		}
	}
	if len(all) == 0 {
		return nil, nil
	}

	groups := make(map[string][]tagged)
	var order []string
	for _, t := range all {
		key := GenerateKey(t.rec).Collapsed()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	for _, key := range order {
		members := groups[key]

		// Distinct source names in first-seen order; a source that
		// contributes the same record twice is listed once.
		appears := make([]string, 0, len(members))
		seenSource := make(map[string]bool, len(members))
		for _, m := range members {
			if !seenSource[m.source] {
				seenSource[m.source] = true
				appears = append(appears, m.source)
			}
		}

		master := members[0]
		uniques = append(uniques, UniqueRef{
			Record:          master.rec,
			Source:          master.source,
			AppearsIn:       appears,
			OccurrenceCount: len(members),
		})

		for _, m := range members[1:] {
			duplicates = append(duplicates, Duplicate{
				Record:      m.rec,
				Source:      m.source,
				DuplicateOf: master.source,
				AllSources:  appears,
			})
		}
	}

	// Display ordering only; group membership is key-based and does
	// not depend on it. Stable sorts keep reruns byte-identical.
	sort.SliceStable(uniques, func(i, j int) bool {
		yi, yj := sortYear(uniques[i].Record), sortYear(uniques[j].Record)
		if yi != yj {
			return yi > yj
		}
		return uniques[i].Title > uniques[j].Title
	})
	sort.SliceStable(duplicates, func(i, j int) bool {
		return duplicates[i].Source < duplicates[j].Source
	})

	return uniques, duplicates
}

func sortYear(r record.Record) string {
	if y := r.YearToken(); y != "" {
		return y
	}
	return "0000"
}

// Stats summarizes a deduplication run.
type Stats struct {
	TotalOriginal    int            `json:"total_original"`
	TotalUnique      int            `json:"total_unique"`
	TotalDuplicates  int            `json:"total_duplicates"`
	ReductionPercent float64        `json:"reduction_percent"`
	FileCounts       map[string]int `json:"file_counts"`
	DuplicatesByFile map[string]int `json:"duplicates_by_file"`
	NumFiles         int            `json:"num_files"`
}

// ComputeStats derives summary statistics for a Deduplicate run.
func ComputeStats(uniques []UniqueRef, duplicates []Duplicate, sources []Source) Stats {
	stats := Stats{
		TotalUnique:      len(uniques),
		TotalDuplicates:  len(duplicates),
		FileCounts:       make(map[string]int, len(sources)),
		DuplicatesByFile: make(map[string]int),
		NumFiles:         len(sources),
	}

	for _, src := range sources {
		stats.FileCounts[src.Name] = len(src.Records)
		stats.TotalOriginal += len(src.Records)
	}
	for _, dup := range duplicates {
		stats.DuplicatesByFile[dup.Source]++
	}
	if stats.TotalOriginal > 0 {
		stats.ReductionPercent = float64(stats.TotalDuplicates) / float64(stats.TotalOriginal) * 100
	}

	return stats
}
