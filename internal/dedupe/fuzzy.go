package dedupe

import (
	"strconv"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/refscreen/refscreen/internal/record"
)

// Similarity bars for the year-tolerance tiers of the fuzzy pass.
const (
	// highSimilarity allows a year difference within tolerance.
	highSimilarity = 0.95
	// missingYearSimilarity is the stricter bar when one or both years
	// are absent and cannot corroborate the match.
	missingYearSimilarity = 0.98
)

// FuzzyMatch pairs a record from A with the record from B it bound to.
type FuzzyMatch struct {
	A record.Record
	B record.Record
}

// FuzzyMatchPass matches residual records left over by the exact pass
// using title similarity with tiered year rules. Matching is greedy
// first-fit in input order: each A record binds to the first B record
// that satisfies the policy, even if a better-scoring candidate exists
// later in B. Reordering inputs can therefore change which pairs bind,
// which is why callers must preserve input order end to end.
//
// Cost is O(|uniqueA| x |uniqueB|) string comparisons; residuals after
// the exact pass are expected to be small.
func FuzzyMatchPass(uniqueA, uniqueB []record.Record, threshold float64, yearTolerance int) (matches []FuzzyMatch, remainingA, remainingB []record.Record) {
	matchedA := make(map[int]bool)
	matchedB := make(map[int]bool)

	for i, itemA := range uniqueA {
		titleA := NormalizeTitle(itemA.Title)
		if titleA == "" {
			continue
		}

		for j, itemB := range uniqueB {
			if matchedB[j] {
				continue
			}
			titleB := NormalizeTitle(itemB.Title)
			if titleB == "" {
				continue
			}

			similarity := TitleSimilarity(titleA, titleB)
			if similarity < threshold {
				continue
			}

			if !yearsCompatible(itemA.YearToken(), itemB.YearToken(), similarity, yearTolerance) {
				continue
			}

			matches = append(matches, FuzzyMatch{A: itemA, B: itemB})
			matchedA[i] = true
			matchedB[j] = true
			break
		}
	}

	for i, item := range uniqueA {
		if !matchedA[i] {
			remainingA = append(remainingA, item)
		}
	}
	for j, item := range uniqueB {
		if !matchedB[j] {
			remainingB = append(remainingB, item)
		}
	}

	return matches, remainingA, remainingB
}

// yearsCompatible applies the tiered year policy for a candidate pair
// whose titles already met the similarity threshold.
func yearsCompatible(yearA, yearB string, similarity float64, tolerance int) bool {
	switch {
	case yearA != "" && yearB != "":
		a, errA := strconv.Atoi(yearA)
		b, errB := strconv.Atoi(yearB)
		if errA != nil || errB != nil {
			// Unparseable years fall back to exact string comparison.
			return yearA == yearB
		}
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		if similarity >= highSimilarity {
			return diff <= tolerance
		}
		return diff == 0
	case yearA == yearB:
		// Both absent: the titles alone must carry the match.
		return similarity >= missingYearSimilarity
	default:
		// One side missing a year: same stricter bar.
		return similarity >= missingYearSimilarity
	}
}

// TitleSimilarity computes the Ratcliff/Obershelp sequence similarity
// of two normalized titles, in [0,1].
func TitleSimilarity(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
