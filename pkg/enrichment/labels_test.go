package enrichment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLabelsDefaults(t *testing.T) {
	cfg, err := LoadLabels("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := cfg.Names()
	if len(names) != 3 || names[0] != "technical" || names[1] != "billing" || names[2] != "other" {
		t.Fatalf("unexpected default labels: %v", names)
	}
}

func TestLoadLabelsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	content := `labels:
  - name: " Delivery "
    hints: ["courier", "parcel"]
  - name: refunds
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(cfg.Labels))
	}
	if cfg.Labels[0].Name != "delivery" {
		t.Fatalf("expected normalised name, got %q", cfg.Labels[0].Name)
	}
}

func TestLoadLabelsMissingFileFallsBack(t *testing.T) {
	cfg, err := LoadLabels(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if len(cfg.Labels) == 0 {
		t.Fatal("expected default labels alongside the error")
	}
}

func TestLoadLabelsEmptyConfigFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	if err := os.WriteFile(path, []byte("labels: []\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadLabels(path)
	if err == nil {
		t.Fatal("expected an error for an empty label set")
	}
	if len(cfg.Labels) == 0 {
		t.Fatal("expected default labels alongside the error")
	}
}

func TestLoadLabelsMalformedYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	if err := os.WriteFile(path, []byte("labels: [not: {closed"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadLabels(path)
	if err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
	names := cfg.Names()
	if len(names) != 3 || names[0] != "technical" {
		t.Fatalf("expected default labels alongside the error, got %v", names)
	}
}
