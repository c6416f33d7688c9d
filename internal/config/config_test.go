package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points XDG_CONFIG_HOME at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("REFSCREEN_THRESHOLD", "")
	t.Setenv("REFSCREEN_YEAR_TOLERANCE", "")
	t.Setenv("REFSCREEN_SEARCH_FIELDS", "")
	t.Setenv("REFSCREEN_DB", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Threshold != 0.90 {
		t.Errorf("threshold = %v", cfg.Threshold)
	}
	if cfg.YearTolerance != 1 {
		t.Errorf("year_tolerance = %d", cfg.YearTolerance)
	}
	if len(cfg.SearchFields) != 2 || cfg.SearchFields[0] != "title" {
		t.Errorf("search_fields = %v", cfg.SearchFields)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := isolate(t)

	cfgDir := filepath.Join(dir, "refscreen")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "threshold: 0.85\nyear_tolerance: 2\nsearch_fields: [title]\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Threshold != 0.85 {
		t.Errorf("threshold = %v", cfg.Threshold)
	}
	if cfg.YearTolerance != 2 {
		t.Errorf("year_tolerance = %d", cfg.YearTolerance)
	}
	if len(cfg.SearchFields) != 1 {
		t.Errorf("search_fields = %v", cfg.SearchFields)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("REFSCREEN_THRESHOLD", "0.95")
	t.Setenv("REFSCREEN_SEARCH_FIELDS", "title, keywords")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Threshold != 0.95 {
		t.Errorf("threshold = %v", cfg.Threshold)
	}
	if len(cfg.SearchFields) != 2 || cfg.SearchFields[1] != "keywords" {
		t.Errorf("search_fields = %v", cfg.SearchFields)
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	isolate(t)
	t.Setenv("REFSCREEN_THRESHOLD", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestResolveDBPath(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	got := cfg.ResolveDBPath()
	want := filepath.Join(dir, "refscreen", "sessions.db")
	if got != want {
		t.Errorf("db path = %q, want %q", got, want)
	}

	cfg.DBPath = "/tmp/custom.db"
	if got := cfg.ResolveDBPath(); got != "/tmp/custom.db" {
		t.Errorf("db path = %q", got)
	}
}
