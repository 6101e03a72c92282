package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Contour.Level != 0.9 || cfg.Contour.MinArea != 100 {
		t.Errorf("contour defaults: %+v", cfg.Contour)
	}
	if cfg.Cell.Threshold != 80 || cfg.Cell.BlurSize != 31 {
		t.Errorf("cell defaults: %+v", cfg.Cell)
	}
	if p := cfg.CentrosomeParams(); p.MaxSigma != 1 || p.NumSigma != 10 {
		t.Errorf("centrosome params: %+v", p)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	data := []byte(`
contour:
  minArea: 250
centrosome:
  maxSigma: 2.5
validate:
  requireUniqueCell: true
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.ContourOptions(); got.MinArea != 250 || got.Level != 0.9 {
		t.Errorf("contour options: %+v", got)
	}
	if got := cfg.CentrosomeParams(); got.MaxSigma != 2.5 || got.MinSigma != 0.05 {
		t.Errorf("centrosome params: %+v", got)
	}
	if got := cfg.ValidateOptions(); !got.RequireUniqueCell || got.MaxCentrosomes != 2 {
		t.Errorf("validate options: %+v", got)
	}
	if got := cfg.NucleiParams(); got.MinObjectArea != 64 {
		t.Errorf("nuclei params: %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("contour: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cell.Threshold = 95
	path := filepath.Join(t.TempDir(), "sub", "pipeline.yaml")

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.CellParams().Threshold != 95 {
		t.Errorf("threshold: got %v, want 95", got.CellParams().Threshold)
	}
}
