package search

import (
	"strings"
	"testing"

	"github.com/refscreen/refscreen/internal/record"
)

func testRecords() []record.Record {
	return []record.Record{
		{
			Title:    "Large Language Models for Medical Diagnosis",
			Abstract: "We present a study on GPT-4 for risk assessment in clinical trials.",
			Year:     "2024",
			Authors:  []string{"Smith, J.", "Doe, A."},
		},
		{
			Title:    "Transformer Architecture Review",
			Abstract: "A comprehensive review of transformer models and their applications.",
			Year:     "2023",
			Authors:  []string{"Johnson, M."},
		},
		{
			Title:    "Traditional Machine Learning Methods",
			Abstract: "Classical approaches to classification and regression.",
			Year:     "2020",
			Authors:  []string{"Lee, K."},
		},
	}
}

func TestSearch_SimpleTerm(t *testing.T) {
	result, err := Search(testRecords(), "transformer", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 1 {
		t.Fatalf("expected 1 match, got %d", result.Stats.MatchedCount)
	}
	if result.Matched[0].Title != "Transformer Architecture Review" {
		t.Errorf("matched %q", result.Matched[0].Title)
	}
}

func TestSearch_BooleanAnd(t *testing.T) {
	result, err := Search(testRecords(), `GPT* AND "risk assessment"`, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 1 {
		t.Fatalf("expected 1 match, got %d", result.Stats.MatchedCount)
	}
	m := result.Matched[0]
	if m.Title != "Large Language Models for Medical Diagnosis" {
		t.Errorf("matched %q", m.Title)
	}
	if m.MatchCount == 0 || len(m.MatchedTerms) == 0 {
		t.Errorf("matched terms missing: %+v", m)
	}
}

func TestSearch_BooleanOr(t *testing.T) {
	result, err := Search(testRecords(), "transformer OR classification", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Stats.MatchedCount)
	}
	if result.Stats.UnmatchedCount != 1 {
		t.Errorf("expected 1 unmatched, got %d", result.Stats.UnmatchedCount)
	}
}

func TestSearch_WildcardWordBoundary(t *testing.T) {
	// "transform*" matches Transformer; bare "transform" must not.
	result, err := Search(testRecords(), "transform*", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 1 {
		t.Fatalf("wildcard: expected 1 match, got %d", result.Stats.MatchedCount)
	}

	result, err = Search(testRecords(), "transform", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 0 {
		t.Fatalf("bare term: expected 0 matches, got %d", result.Stats.MatchedCount)
	}
}

func TestSearch_FieldSelection(t *testing.T) {
	// "classification" appears only in an abstract.
	result, err := Search(testRecords(), "classification", []string{"title"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 0 {
		t.Fatalf("title-only: expected 0 matches, got %d", result.Stats.MatchedCount)
	}

	result, err = Search(testRecords(), "classification", []string{"abstract"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 1 {
		t.Fatalf("abstract: expected 1 match, got %d", result.Stats.MatchedCount)
	}
}

func TestSearch_AuthorField(t *testing.T) {
	result, err := Search(testRecords(), `"Johnson, M."`, []string{"authors"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.MatchedCount != 1 {
		t.Fatalf("expected 1 match, got %d", result.Stats.MatchedCount)
	}
}

func TestSearch_InvalidField(t *testing.T) {
	if _, err := Search(testRecords(), "x", []string{"venue"}); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestSearch_SyntaxErrorPropagates(t *testing.T) {
	if _, err := Search(testRecords(), "(A OR", nil); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestSearch_HighlightsMatches(t *testing.T) {
	result, err := Search(testRecords(), "transformer", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	m := result.Matched[0]
	if !strings.Contains(m.TitleHighlighted, "<mark>Transformer</mark>") {
		t.Errorf("title_highlighted = %q", m.TitleHighlighted)
	}
	if !strings.Contains(m.AbstractHighlighted, "<mark>transformer</mark>") {
		t.Errorf("abstract_highlighted = %q", m.AbstractHighlighted)
	}
}

func TestSearch_EmptyCollection(t *testing.T) {
	result, err := Search(nil, "anything", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Stats.TotalRefs != 0 || result.Stats.MatchedCount != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestHighlight_PreservesOriginalCase(t *testing.T) {
	got := Highlight("Machine learning and MACHINE vision", []string{"machine"})
	want := "<mark>Machine</mark> learning and <mark>MACHINE</mark> vision"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHighlight_OverlappingTermsMaximizeCount(t *testing.T) {
	// With an overlapping longer term available, the shorter one at the
	// same start wins, leaving room for further highlights.
	got := Highlight("risk of bias", []string{"risk", "risk of bias", "bias"})
	want := "<mark>risk</mark> of <mark>bias</mark>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHighlight_NoTerms(t *testing.T) {
	if got := Highlight("unchanged text", nil); got != "unchanged text" {
		t.Errorf("got %q", got)
	}
}
