package palette

import (
	"math"
	"testing"
)

func TestNormalizeHue(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{725, 5},
		{-10, 350},
		{-720, 0},
	}
	for _, tc := range tests {
		if got := NormalizeHue(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NormalizeHue(%v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBlendWraparound(t *testing.T) {
	// Blending 350 toward 10 must cross 0: halfway lands at 0, not 180.
	got := Blend(350, Palette{PrimaryHue: 10}, 0.5)
	if math.Abs(got) > 1e-9 && math.Abs(got-360) > 1e-9 {
		t.Errorf("Blend(350, primary=10, 0.5)=%v, want 0", got)
	}

	// And the mirror case.
	got = Blend(10, Palette{PrimaryHue: 350}, 0.5)
	if math.Abs(got) > 1e-9 && math.Abs(got-360) > 1e-9 {
		t.Errorf("Blend(10, primary=350, 0.5)=%v, want 0", got)
	}
}

func TestBlendWeightExtremes(t *testing.T) {
	p := Palette{PrimaryHue: 120}
	for _, hue := range []float64{0, 45, 119, 240, 359} {
		if got := Blend(hue, p, 0); got != hue {
			t.Errorf("Blend(%v, _, 0)=%v, want unchanged", hue, got)
		}
		if got := Blend(hue, p, 1); math.Abs(got-120) > 1e-9 {
			t.Errorf("Blend(%v, _, 1)=%v, want 120", hue, got)
		}
	}
}

func TestBlendWeightSaturates(t *testing.T) {
	p := Palette{PrimaryHue: 200}
	if got := Blend(100, p, 5); math.Abs(got-200) > 1e-9 {
		t.Errorf("weight > 1 should saturate to the primary, got %v", got)
	}
	if got := Blend(100, p, -2); got != 100 {
		t.Errorf("weight < 0 should leave the hue unchanged, got %v", got)
	}
}

func TestBlendStaysInRange(t *testing.T) {
	p := Palette{PrimaryHue: 37}
	for hue := -400.0; hue < 800; hue += 13 {
		for _, w := range []float64{0, 0.1, 0.3, 0.7, 1} {
			got := Blend(hue, p, w)
			if got < 0 || got >= 360 {
				t.Fatalf("Blend(%v, _, %v)=%v out of [0,360)", hue, w, got)
			}
		}
	}
}

func TestNeutralAlwaysValid(t *testing.T) {
	n := Neutral()
	if n.SaturationScale == 0 || n.BrightnessScale == 0 {
		t.Fatal("neutral palette must carry usable scales")
	}
}

func TestNormalized(t *testing.T) {
	p := Palette{PrimaryHue: 370, SecondaryHue: -20}.Normalized()
	if p.PrimaryHue != 10 {
		t.Errorf("PrimaryHue=%v, want 10", p.PrimaryHue)
	}
	if p.SecondaryHue != 340 {
		t.Errorf("SecondaryHue=%v, want 340", p.SecondaryHue)
	}
	if p.SaturationScale != 1 || p.BrightnessScale != 1 {
		t.Error("zero scales should default to 1")
	}
}

func TestRGBClamped(t *testing.T) {
	p := Palette{PrimaryHue: 0, SaturationScale: 4, BrightnessScale: 4}
	r, g, b := RGB(0, p, 1, 1)
	for _, v := range []float64{r, g, b} {
		if v < 0 || v > 1 {
			t.Fatalf("channel out of range: %v %v %v", r, g, b)
		}
	}
	// Pure red at full saturation and value.
	if r != 1 || g != 0 || b != 0 {
		t.Errorf("hue 0 full SV should be red, got %v %v %v", r, g, b)
	}
}
