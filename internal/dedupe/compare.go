package dedupe

import (
	"github.com/refscreen/refscreen/internal/record"
)

// OverlapEntry is a record from collection A that matched a record in
// collection B. FuzzyMatch marks entries produced by the similarity
// pass rather than an exact key collision.
type OverlapEntry struct {
	record.Record
	FuzzyMatch bool `json:"fuzzy_match,omitempty"`
}

// CompareResult partitions two collections into overlap and residuals.
// Overlap takes its representative from collection A, in A's input
// order; matched counterparts in B are consumed, not re-listed.
type CompareResult struct {
	Overlap []OverlapEntry  `json:"overlap"`
	UniqueA []record.Record `json:"unique_a"`
	UniqueB []record.Record `json:"unique_b"`
}

// Options control the fuzzy pass of Compare.
type Options struct {
	UseFuzzy      bool
	Threshold     float64 // similarity floor, default 0.90
	YearTolerance int     // max year difference at >=0.95 similarity, default 1
}

// DefaultOptions returns the matching defaults: fuzzy pass enabled,
// 0.90 similarity threshold, one year of tolerance.
func DefaultOptions() Options {
	return Options{UseFuzzy: true, Threshold: 0.90, YearTolerance: 1}
}

// Compare partitions collections a and b into overlap and unique
// residuals using hybrid exact matching followed by an optional fuzzy
// pass. A record matches when EITHER of its key components (identifier
// or title+year) appears anywhere in the other collection's index;
// identifier agreement is sufficient even when years differ, and vice
// versa. Inputs are never mutated and the result is deterministic for
// a given input order.
func Compare(a, b []record.Record, opts Options) CompareResult {
	if len(a) == 0 {
		return CompareResult{UniqueB: append([]record.Record(nil), b...)}
	}
	if len(b) == 0 {
		return CompareResult{UniqueA: append([]record.Record(nil), a...)}
	}

	keysA := make([]Key, len(a))
	for i, r := range a {
		keysA[i] = GenerateKey(r)
	}
	keysB := make([]Key, len(b))
	for i, r := range b {
		keysB[i] = GenerateKey(r)
	}

	indexA := buildKeyIndex(keysA)
	indexB := buildKeyIndex(keysB)

	matchedA := make(map[int]bool)
	matchedB := make(map[int]bool)

	// A key value shared by both sides matches every record producing
	// it on either side. This is the "either component suffices" rule:
	// high recall, at the cost of merging records that share only one
	// coincidental key value.
	for key, idxsA := range indexA {
		idxsB, ok := indexB[key]
		if !ok {
			continue
		}
		for _, i := range idxsA {
			matchedA[i] = true
		}
		for _, j := range idxsB {
			matchedB[j] = true
		}
	}

	var result CompareResult
	for i, r := range a {
		if matchedA[i] {
			result.Overlap = append(result.Overlap, OverlapEntry{Record: r})
		} else {
			result.UniqueA = append(result.UniqueA, r)
		}
	}
	for j, r := range b {
		if !matchedB[j] {
			result.UniqueB = append(result.UniqueB, r)
		}
	}

	if opts.UseFuzzy && len(result.UniqueA) > 0 && len(result.UniqueB) > 0 {
		matches, remainingA, remainingB := FuzzyMatchPass(result.UniqueA, result.UniqueB, opts.Threshold, opts.YearTolerance)
		for _, m := range matches {
			result.Overlap = append(result.Overlap, OverlapEntry{Record: m.A, FuzzyMatch: true})
		}
		result.UniqueA = remainingA
		result.UniqueB = remainingB
	}

	return result
}

// buildKeyIndex maps each non-empty key component value to the indices
// of the records that produced it.
func buildKeyIndex(keys []Key) map[string][]int {
	index := make(map[string][]int, len(keys)*2)
	for i, k := range keys {
		if k.Identifier != "" {
			index[k.Identifier] = append(index[k.Identifier], i)
		}
		index[k.TitleYear] = append(index[k.TitleYear], i)
	}
	return index
}
