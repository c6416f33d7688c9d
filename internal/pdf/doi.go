// Package pdf extracts DOIs from PDF files for matching against
// reference collections.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/refscreen/refscreen/internal/record"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI extracts a DOI from a PDF file, searching the first few
// pages (the DOI is usually on the first). Absence of a DOI is not an
// error; it returns "".
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindDOI returns the first DOI-looking token in text, with trailing
// punctuation that PDF extraction tends to glue on trimmed off.
func FindDOI(text string) string {
	match := doiPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, ".,;)")
}

// MatchRecord finds the first record whose DOI equals doi,
// case-insensitively. It returns the index or -1.
func MatchRecord(doi string, records []record.Record) int {
	if strings.TrimSpace(doi) == "" {
		return -1
	}
	for i, rec := range records {
		if strings.EqualFold(strings.TrimSpace(rec.DOI), strings.TrimSpace(doi)) {
			return i
		}
	}
	return -1
}
