// Package record defines the core domain type for bibliographic references.
package record

import "strings"

// Record represents one bibliographic reference as exported by a
// literature-search tool. Canonical fields are mapped during parsing;
// every raw tag is preserved untouched in Tags so nothing a source
// emitted is lost through a compare or dedupe round trip.
type Record struct {
	Title    string   `json:"title,omitempty"`
	Year     string   `json:"year,omitempty"` // Kept as string: sources emit "2025", "2025///", or nothing
	DOI      string   `json:"doi,omitempty"`
	Journal  string   `json:"journal,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// Tags holds every raw tag from the source file, lowercased,
	// in input order. Multi-occurrence tags accumulate values.
	Tags map[string][]string `json:"tags,omitempty"`
}

// YearToken returns the first four characters of the trimmed year field,
// or "" when the year is absent. Trailing separators like "2025///" are
// cut by the four-character slice. Slicing is rune-based so a year
// holding multibyte text never yields an invalid token.
func (r Record) YearToken() string {
	y := []rune(strings.TrimSpace(r.Year))
	if len(y) > 4 {
		y = y[:4]
	}
	return string(y)
}
