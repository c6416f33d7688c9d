package dedupe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/refscreen/refscreen/internal/record"
)

// Key is the hybrid identity key pair for one record. Identifier is ""
// when the record carries no usable DOI; TitleYear is always present.
// Two records are key-equivalent when they share at least one non-empty
// component value.
type Key struct {
	Identifier string // "DOI:<lowercased trimmed doi>", or ""
	TitleYear  string // "TY:<normalized title>_<year token>"
}

// GenerateKey derives the hybrid key pair for a record. Missing fields
// degrade to empty strings and never fail. When the year is absent the
// title+year key falls back to a token derived from the normalized
// title's length, a weak discriminator that keeps year-less records
// from colliding unless their titles are also the same length.
func GenerateKey(r record.Record) Key {
	var k Key

	if doi := strings.TrimSpace(r.DOI); doi != "" {
		k.Identifier = "DOI:" + strings.ToLower(doi)
	}

	titleNorm := NormalizeTitle(r.Title)
	yearToken := r.YearToken()
	if yearToken == "" {
		yearToken = fmt.Sprintf("NOYEAR_%d", utf8.RuneCountInString(titleNorm))
	}
	k.TitleYear = "TY:" + titleNorm + "_" + yearToken

	return k
}

// Collapsed returns the single best matching key for the record:
// the identifier key when present, else the title+year key. This is
// the grouping key used by the multi-file path, which does not apply
// the pairwise matcher's either-component widening.
func (k Key) Collapsed() string {
	if k.Identifier != "" {
		return k.Identifier
	}
	return k.TitleYear
}
