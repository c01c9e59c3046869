package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
)

func validEntry(id string, layer int) Descriptor {
	return Descriptor{
		ID:         id,
		Layer:      layer,
		Category:   CategoryAtmospheric,
		EnergyBand: BandAny,
		Weight:     1,
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New([]Descriptor{{ID: "fireflies", Layer: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := c.ByID("fireflies")
	if !ok {
		t.Fatal("entry not found by id")
	}
	if d.Weight != 1 {
		t.Errorf("Weight=%v, want default 1", d.Weight)
	}
	if d.EnergyBand != BandAny {
		t.Errorf("EnergyBand=%q, want any", d.EnergyBand)
	}
	if d.Category != CategoryOther {
		t.Errorf("Category=%q, want other", d.Category)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Descriptor
		wantErr string
	}{
		{
			name:    "empty catalog",
			entries: nil,
			wantErr: "no overlays",
		},
		{
			name:    "missing id",
			entries: []Descriptor{{Layer: 1}},
			wantErr: "id is required",
		},
		{
			name: "duplicate id",
			entries: []Descriptor{
				validEntry("dup", 1),
				validEntry("dup", 2),
			},
			wantErr: "duplicate",
		},
		{
			name:    "layer too low",
			entries: []Descriptor{validEntry("x", 0)},
			wantErr: "layer",
		},
		{
			name:    "layer too high",
			entries: []Descriptor{validEntry("x", 11)},
			wantErr: "layer",
		},
		{
			name: "negative weight",
			entries: []Descriptor{
				{ID: "x", Layer: 1, Weight: -2},
			},
			wantErr: "weight",
		},
		{
			name: "unknown category",
			entries: []Descriptor{
				{ID: "x", Layer: 1, Category: "cosmic"},
			},
			wantErr: "category",
		},
		{
			name: "unknown energy band",
			entries: []Descriptor{
				{ID: "x", Layer: 1, EnergyBand: "loud"},
			},
			wantErr: "energy band",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.entries)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q should contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestNewAccumulatesErrors(t *testing.T) {
	_, err := New([]Descriptor{
		{Layer: 0},                                // missing id + bad layer
		{ID: "x", Layer: 1, EnergyBand: "loud"},   // bad band
		{ID: "y", Layer: 2, Category: "cosmic"},   // bad category
	})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) < 4 {
		t.Fatalf("expected all problems reported together, got %d: %v", len(verrs), verrs)
	}
}

func TestEntrySeed(t *testing.T) {
	a := validEntry("fireflies", 1)
	b := validEntry("fireflies", 1)
	if a.EntrySeed() != b.EntrySeed() {
		t.Error("seed derived from id should be stable")
	}

	explicit := uint32(777)
	c := validEntry("fireflies", 1)
	c.Seed = &explicit
	if c.EntrySeed() != 777 {
		t.Errorf("explicit seed ignored: got %d", c.EntrySeed())
	}
}

func TestEnergyBandMatches(t *testing.T) {
	tests := []struct {
		band EnergyBand
		win  audiofeat.Band
		want bool
	}{
		{BandAny, audiofeat.BandLow, true},
		{BandAny, audiofeat.BandMid, true},
		{BandAny, audiofeat.BandHigh, true},
		{BandLow, audiofeat.BandLow, true},
		{BandLow, audiofeat.BandHigh, false},
		{BandMid, audiofeat.BandMid, true},
		{BandMid, audiofeat.BandLow, false},
		{BandHigh, audiofeat.BandHigh, true},
		{BandHigh, audiofeat.BandLow, false},
	}
	for _, tc := range tests {
		if got := tc.band.Matches(tc.win); got != tc.want {
			t.Errorf("%q.Matches(%v)=%v, want %v", tc.band, tc.win, got, tc.want)
		}
	}
}

func TestLayerHelpers(t *testing.T) {
	c, err := New([]Descriptor{
		validEntry("a", 2),
		validEntry("b", 5),
		validEntry("c", 2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layer2 := c.Layer(2)
	if len(layer2) != 2 || layer2[0].ID != "a" || layer2[1].ID != "c" {
		t.Errorf("Layer(2)=%v, want [a c] in authored order", layer2)
	}
	layers := c.Layers()
	if len(layers) != 2 || layers[0] != 2 || layers[1] != 5 {
		t.Errorf("Layers()=%v, want [2 5]", layers)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	contents := `overlays:
  - id: fireflies
    layer: 2
    category: atmospheric
    tags: [nature, drifting]
    energy_band: low
    weight: 1
    envelope:
      cycle_frames: 600
      visible_frames: 240
      fade_in_frames: 30
      fade_out_frames: 30
  - id: laser-fan
    layer: 7
    category: reactive
    energy_band: high
    weight: 3
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len=%d, want 2", c.Len())
	}
	d, _ := c.ByID("fireflies")
	if !d.HasTag("nature") || d.HasTag("lasers") {
		t.Error("tags not loaded")
	}
	if d.Envelope.CycleFrames != 600 {
		t.Errorf("envelope not loaded: %+v", d.Envelope)
	}
	laser, _ := c.ByID("laser-fan")
	if laser.Weight != 3 || laser.EnergyBand != BandHigh {
		t.Errorf("laser-fan fields wrong: %+v", laser)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("overlays: [}{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
