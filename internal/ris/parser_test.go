package ris

import (
	"bytes"
	"strings"
	"testing"
)

const sampleRIS = `TY  - JOUR
TI  - Large Language Models for Systematic Review Screening
AU  - Smith, J.
AU  - Doe, A.
PY  - 2024
JO  - Journal of Evidence Synthesis
DO  - 10.1234/jes.2024.001
AB  - We evaluate LLM-based screening.
KW  - machine learning
KW  - screening
ER  -

TY  - JOUR
TI  - A Second Paper
PY  - 2023///
ER  -
`

func TestParse_Sample(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleRIS))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "Large Language Models for Systematic Review Screening" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Year != "2024" {
		t.Errorf("year = %q", first.Year)
	}
	if first.DOI != "10.1234/jes.2024.001" {
		t.Errorf("doi = %q", first.DOI)
	}
	if first.Journal != "Journal of Evidence Synthesis" {
		t.Errorf("journal = %q", first.Journal)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Smith, J." {
		t.Errorf("authors = %v", first.Authors)
	}
	if len(first.Keywords) != 2 {
		t.Errorf("keywords = %v", first.Keywords)
	}
	if got := first.Tags["au"]; len(got) != 2 {
		t.Errorf("raw au tags = %v", got)
	}

	second := records[1]
	if second.Year != "2023///" {
		t.Errorf("raw year should be preserved, got %q", second.Year)
	}
	if second.YearToken() != "2023" {
		t.Errorf("year token = %q", second.YearToken())
	}
}

func TestParse_AlternateTags(t *testing.T) {
	input := "T1  - Alt Title\nY1  - 2020\nA1  - Lee, K.\nT2  - Some Journal\nN2  - Alt abstract.\nER  - \n"

	records, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Title != "Alt Title" || rec.Year != "2020" || rec.Journal != "Some Journal" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Abstract != "Alt abstract." {
		t.Errorf("abstract = %q", rec.Abstract)
	}
	if len(rec.Authors) != 1 {
		t.Errorf("authors = %v", rec.Authors)
	}
}

func TestParse_ContinuationLines(t *testing.T) {
	input := "TI  - A Title Split\nAcross Two Lines\nPY  - 2021\nER  - \n"

	records, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "A Title Split Across Two Lines" {
		t.Errorf("title = %q", records[0].Title)
	}
}

func TestParse_UnterminatedFinalRecord(t *testing.T) {
	input := "TI  - No Terminator\nPY  - 2022\n"

	records, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "No Terminator" {
		t.Errorf("title = %q", records[0].Title)
	}
}

func TestParse_MalformedLinesIgnored(t *testing.T) {
	// Garbage before the first tag has no tag to continue and is dropped.
	input := "garbage line\nTI  - Real Title\nER  - \n"

	records, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Real Title" {
		t.Fatalf("records = %+v", records)
	}
}

func TestParse_Empty(t *testing.T) {
	records, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleRIS))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}

	reparsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(reparsed) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(reparsed))
	}

	for i := range records {
		a, b := records[i], reparsed[i]
		if a.Title != b.Title || a.Year != b.Year || a.DOI != b.DOI || a.Journal != b.Journal {
			t.Errorf("record %d changed: %+v vs %+v", i, a, b)
		}
		if len(a.Authors) != len(b.Authors) {
			t.Errorf("record %d authors changed: %v vs %v", i, a.Authors, b.Authors)
		}
		if len(a.Tags) != len(b.Tags) {
			t.Errorf("record %d tags changed: %v vs %v", i, a.Tags, b.Tags)
		}
	}
}
