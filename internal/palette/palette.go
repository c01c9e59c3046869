// Package palette keeps hundreds of independently authored overlays visually
// coherent with the currently playing song. Each song carries a two-hue
// identity; overlays declare their own raw hue and get pulled part of the way
// toward the song's primary before drawing.
package palette

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultBlendWeight is how far an overlay's raw hue moves toward the song's
// primary hue when the caller does not override it.
const DefaultBlendWeight = 0.3

// Palette is the color identity of a song. Hues are degrees in [0, 360);
// the scales multiply an overlay's declared saturation and brightness.
type Palette struct {
	PrimaryHue      float64 `json:"primary_hue" yaml:"primary_hue"`
	SecondaryHue    float64 `json:"secondary_hue" yaml:"secondary_hue"`
	SaturationScale float64 `json:"saturation_scale" yaml:"saturation_scale"`
	BrightnessScale float64 `json:"brightness_scale" yaml:"brightness_scale"`
}

// Neutral returns the palette used when no song context is available, so
// consumers never have to null-check.
func Neutral() Palette {
	return Palette{
		PrimaryHue:      220,
		SecondaryHue:    40,
		SaturationScale: 1,
		BrightnessScale: 1,
	}
}

// Normalized returns a copy with hues folded into [0, 360) and zero scales
// replaced by 1. Out-of-range hues are data, not errors.
func (p Palette) Normalized() Palette {
	p.PrimaryHue = NormalizeHue(p.PrimaryHue)
	p.SecondaryHue = NormalizeHue(p.SecondaryHue)
	if p.SaturationScale == 0 {
		p.SaturationScale = 1
	}
	if p.BrightnessScale == 0 {
		p.BrightnessScale = 1
	}
	return p
}

// NormalizeHue folds a hue in degrees into [0, 360).
func NormalizeHue(hue float64) float64 {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	return hue
}

// Blend moves rawHue toward the palette's primary hue by weight and returns a
// hue in [0, 360). The pull always takes the shortest angular path, so
// blending 10 toward 350 crosses 0 instead of sweeping across the wheel.
// weight saturates to [0, 1]: 0 returns rawHue unchanged, 1 returns the
// primary exactly.
func Blend(rawHue float64, p Palette, weight float64) float64 {
	if weight <= 0 {
		return NormalizeHue(rawHue)
	}
	if weight > 1 {
		weight = 1
	}
	raw := NormalizeHue(rawHue)
	target := NormalizeHue(p.PrimaryHue)

	delta := math.Mod(target-raw+540, 360) - 180
	return NormalizeHue(raw + delta*weight)
}

// RGB converts a blended hue into the sRGB color a leaf renderer draws with,
// applying the palette's saturation and brightness scales. Base saturation
// and value describe the overlay's declared look before the song identity is
// applied; both products are clamped to [0, 1].
func RGB(hue float64, p Palette, saturation, value float64) (r, g, b float64) {
	s := clamp01(saturation * nonZero(p.SaturationScale))
	v := clamp01(value * nonZero(p.BrightnessScale))
	c := colorful.Hsv(NormalizeHue(hue), s, v)
	return c.R, c.G, c.B
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
