package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "deadair.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Video.FPS != 30 {
		t.Errorf("FPS=%d, want default 30", cfg.Video.FPS)
	}
	if cfg.Scheduler.LayerBudget != 3 {
		t.Errorf("LayerBudget=%v, want default 3", cfg.Scheduler.LayerBudget)
	}
	if cfg.Palette.BlendWeight != 0.3 {
		t.Errorf("BlendWeight=%v, want default 0.3", cfg.Palette.BlendWeight)
	}
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadair.yaml")
	contents := `
video:
  fps: 24
scheduler:
  window_seconds: 4
  layer_budgets:
    7: 1
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Video.FPS != 24 {
		t.Errorf("FPS=%d, want 24", cfg.Video.FPS)
	}
	if cfg.Scheduler.WindowSeconds != 4 {
		t.Errorf("WindowSeconds=%v, want 4", cfg.Scheduler.WindowSeconds)
	}
	if cfg.Scheduler.LayerBudgets[7] != 1 {
		t.Errorf("LayerBudgets[7]=%v, want 1", cfg.Scheduler.LayerBudgets[7])
	}
	// Omitted sections keep defaults.
	if cfg.Audio.RollingRadiusFrames != 75 {
		t.Errorf("RollingRadiusFrames=%d, want default 75", cfg.Audio.RollingRadiusFrames)
	}
	if cfg.Files.Catalog != "catalog.yaml" {
		t.Errorf("Files.Catalog=%q, want default", cfg.Files.Catalog)
	}
}

func TestWindowFrames(t *testing.T) {
	cfg := Default()
	if got := cfg.WindowFrames(); got != 240 {
		t.Errorf("WindowFrames=%d, want 240 (8s at 30fps)", got)
	}

	cfg.Scheduler.WindowSeconds = 0
	if got := cfg.WindowFrames(); got != 1 {
		t.Errorf("degenerate window should clamp to 1 frame, got %d", got)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "deadair.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Video.FPS != cfg.Video.FPS || loaded.Scheduler.WindowSeconds != cfg.Scheduler.WindowSeconds {
		t.Errorf("round trip changed config: %+v vs %+v", loaded, cfg)
	}
}
