package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/refscreen/refscreen/internal/dedupe"
	"github.com/refscreen/refscreen/internal/record"
	"github.com/refscreen/refscreen/internal/ris"
)

// loadRecords parses one RIS file.
func loadRecords(path string) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := ris.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// loadSources parses multiple RIS files into named sources, keyed by
// base file name, preserving argument order.
func loadSources(paths []string) ([]dedupe.Source, error) {
	sources := make([]dedupe.Source, 0, len(paths))
	for _, path := range paths {
		records, err := loadRecords(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, dedupe.Source{Name: filepath.Base(path), Records: records})
	}
	return sources, nil
}
