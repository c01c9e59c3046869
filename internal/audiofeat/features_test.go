package audiofeat

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func flatFrames(n int, energy float64) []Frame {
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{EnergyInstant: energy}
	}
	return frames
}

func TestNewProviderEmpty(t *testing.T) {
	if _, err := NewProvider(nil, 0, DefaultThresholds()); err == nil {
		t.Fatal("expected error for empty frame array")
	}
}

func TestRollingEnergyFlatSignal(t *testing.T) {
	// On a flat signal the edge-truncated average must equal the signal
	// everywhere, including the first and last frames. Zero-padding would
	// show a dip here.
	p, err := NewProvider(flatFrames(500, 0.6), 75, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, idx := range []int{0, 1, 74, 75, 250, 499} {
		got := p.Frame(idx).EnergyRolling
		if math.Abs(got-0.6) > 1e-9 {
			t.Errorf("frame %d: rolling=%v, want 0.6", idx, got)
		}
	}
}

func TestRollingEnergyWindowAverage(t *testing.T) {
	// Impulse at frame 10 with radius 2: frames 8-12 see 1/5 of it.
	frames := flatFrames(21, 0)
	frames[10].EnergyInstant = 1
	p, err := NewProvider(frames, 2, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for idx := 0; idx < 21; idx++ {
		want := 0.0
		if idx >= 8 && idx <= 12 {
			want = 0.2
		}
		if got := p.Frame(idx).EnergyRolling; math.Abs(got-want) > 1e-9 {
			t.Errorf("frame %d: rolling=%v, want %v", idx, got, want)
		}
	}
}

func TestFrameClamping(t *testing.T) {
	frames := flatFrames(10, 0.5)
	frames[0].OnsetStrength = 0.9
	frames[9].OnsetStrength = 0.1
	p, err := NewProvider(frames, 3, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.Frame(-100); got != p.Frame(0) {
		t.Error("negative index should clamp to frame 0")
	}
	if got := p.Frame(10_000); got != p.Frame(9) {
		t.Error("past-the-end index should clamp to last frame")
	}
}

func TestFrameSharedByReference(t *testing.T) {
	p, err := NewProvider(flatFrames(5, 0.5), 1, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Frame(2) != p.Frame(2) {
		t.Error("repeated lookups should return the same snapshot pointer")
	}
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		energy float64
		want   Band
	}{
		{0.0, BandLow},
		{0.34, BandLow},
		{0.35, BandMid},
		{0.5, BandMid},
		{0.64, BandMid},
		{0.65, BandHigh},
		{1.0, BandHigh},
	}
	for _, tc := range tests {
		if got := th.Classify(tc.energy); got != tc.want {
			t.Errorf("Classify(%v)=%v, want %v", tc.energy, got, tc.want)
		}
	}
}

func TestWindowSummaryMedian(t *testing.T) {
	frames := flatFrames(10, 0)
	// Rolling with radius 0 is disallowed, so use radius 1 over a step signal
	// and check the median lands in the right band.
	for i := 5; i < 10; i++ {
		frames[i].EnergyInstant = 0.9
	}
	p, err := NewProvider(frames, 1, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	low := p.WindowSummary(0, 4)
	if low.Band != BandLow {
		t.Errorf("low window band=%v, want low", low.Band)
	}
	high := p.WindowSummary(6, 10)
	if high.Band != BandHigh {
		t.Errorf("high window band=%v, want high", high.Band)
	}
}

func TestWindowSummaryDegenerateRange(t *testing.T) {
	p, err := NewProvider(flatFrames(10, 0.5), 1, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := p.WindowSummary(400, 500)
	if s.Band != BandMid {
		t.Errorf("out-of-range window band=%v, want mid (held last frame)", s.Band)
	}
}

func TestLoadFrames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.json")
	contents := `{
		"fps": 30,
		"frames": [
			{"rms": 0.5, "onset": 0.1, "beat": true, "centroid": 0.4, "chroma": [1,0,0,0,0,0,0,0,0,0,0,0]},
			{"rms": 1.5, "onset": -0.2, "beat": false, "centroid": 0.6, "chroma": [0,0,0,0,0,0,0,0,0,0,0,1]}
		]
	}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	frames, err := LoadFrames(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("len=%d, want 2", len(frames))
	}
	if !frames[0].Beat {
		t.Error("frame 0 beat flag lost")
	}
	// Out-of-range analyzer values are folded back into [0,1].
	if frames[1].EnergyInstant != 1 {
		t.Errorf("rms 1.5 should clamp to 1, got %v", frames[1].EnergyInstant)
	}
	if frames[1].OnsetStrength != 0 {
		t.Errorf("onset -0.2 should clamp to 0, got %v", frames[1].OnsetStrength)
	}
}

func TestLoadFramesBadChroma(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.json")
	contents := `{"frames": [{"rms": 0.5, "chroma": [1,2,3]}]}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrames(path)
	if err == nil {
		t.Fatal("expected error for 3-bin chroma")
	}
	if !strings.Contains(err.Error(), "chroma") {
		t.Fatalf("error should mention chroma: %v", err)
	}
}

func TestLoadFramesEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.json")
	if err := os.WriteFile(path, []byte(`{"frames": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrames(path); err == nil {
		t.Fatal("expected error for empty frame list")
	}
}
