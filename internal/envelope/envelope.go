// Package envelope implements the shared visibility and opacity contract every
// overlay instance follows. An overlay cycles visible/hidden on its own period
// with linear fades at both ends, scaled by the current rolling audio energy.
// Opacity is a pure function of the frame index, which is what makes seeking
// to an arbitrary frame reproduce a sequential render exactly.
package envelope

// EnergyRange maps a pair of rolling-energy thresholds onto a pair of opacity
// bounds. Energy at or below In.Energy yields In.Opacity; at or above
// Out.Energy yields Out.Opacity; between them opacity interpolates linearly.
type EnergyRange struct {
	In  Point `yaml:"in" json:"in"`
	Out Point `yaml:"out" json:"out"`
}

// Point is one end of an energy-to-opacity mapping.
type Point struct {
	Energy  float64 `yaml:"energy" json:"energy"`
	Opacity float64 `yaml:"opacity" json:"opacity"`
}

// FullRange maps all energies to full opacity, for overlays that do not react
// to loudness.
func FullRange() EnergyRange {
	return EnergyRange{
		In:  Point{Energy: 0, Opacity: 1},
		Out: Point{Energy: 1, Opacity: 1},
	}
}

// Params declares an overlay instance's timing. All values are frame counts.
type Params struct {
	CycleFrames   int         `yaml:"cycle_frames" json:"cycle_frames"`
	VisibleFrames int         `yaml:"visible_frames" json:"visible_frames"`
	FadeInFrames  int         `yaml:"fade_in_frames" json:"fade_in_frames"`
	FadeOutFrames int         `yaml:"fade_out_frames" json:"fade_out_frames"`
	Energy        EnergyRange `yaml:"energy" json:"energy"`
}

// normalized folds degenerate parameter values into something total. The
// per-frame path must never fail, so bad declarations degrade to an
// always-visible envelope rather than erroring.
func (p Params) normalized() Params {
	if p.CycleFrames <= 0 {
		p.CycleFrames = 1
	}
	if p.VisibleFrames <= 0 || p.VisibleFrames > p.CycleFrames {
		p.VisibleFrames = p.CycleFrames
	}
	if p.FadeInFrames < 0 {
		p.FadeInFrames = 0
	}
	if p.FadeOutFrames < 0 {
		p.FadeOutFrames = 0
	}
	zero := EnergyRange{}
	if p.Energy == zero {
		p.Energy = FullRange()
	}
	return p
}

// Opacity returns the overlay's opacity at the given frame under the given
// rolling energy. The result is always in [0, 1]. Negative frame indices
// evaluate as frame 0.
func (p Params) Opacity(frame int, energyRolling float64) float64 {
	p = p.normalized()
	if frame < 0 {
		frame = 0
	}

	phase := frame % p.CycleFrames
	if phase >= p.VisibleFrames {
		return 0
	}

	fade := p.fadeAt(phase)
	return clamp01(fade * p.energyFactor(energyRolling))
}

// Visible reports whether the overlay is in the visible part of its cycle at
// the given frame, ignoring fades and energy.
func (p Params) Visible(frame int) bool {
	p = p.normalized()
	if frame < 0 {
		frame = 0
	}
	return frame%p.CycleFrames < p.VisibleFrames
}

// fadeAt computes the fade ramp for a phase inside the visible span: ramp up
// over FadeInFrames, hold at 1, ramp down over the final FadeOutFrames. When
// the declared fades overlap mid-span the lower of the two ramps wins, so the
// result never exceeds 1.
func (p Params) fadeAt(phase int) float64 {
	in := 1.0
	if p.FadeInFrames > 0 {
		in = clamp01(float64(phase) / float64(p.FadeInFrames))
	}
	out := 1.0
	if p.FadeOutFrames > 0 {
		remaining := p.VisibleFrames - phase
		out = clamp01(float64(remaining) / float64(p.FadeOutFrames))
	}
	if out < in {
		return out
	}
	return in
}

// energyFactor interpolates rolling energy into opacity. Saturating at both
// ends is deliberate: audio energy is unbounded in loud or clipped passages
// and the visual side must settle at "fully on" rather than extrapolate.
func (p Params) energyFactor(energy float64) float64 {
	in, out := p.Energy.In, p.Energy.Out
	if in.Energy == out.Energy {
		if energy < in.Energy {
			return clamp01(in.Opacity)
		}
		return clamp01(out.Opacity)
	}
	// Allow descending declarations (high energy -> low opacity).
	lo, hi := in, out
	if lo.Energy > hi.Energy {
		lo, hi = hi, lo
	}
	if energy <= lo.Energy {
		return clamp01(lo.Opacity)
	}
	if energy >= hi.Energy {
		return clamp01(hi.Opacity)
	}
	t := (energy - lo.Energy) / (hi.Energy - lo.Energy)
	return clamp01(lo.Opacity + t*(hi.Opacity-lo.Opacity))
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
