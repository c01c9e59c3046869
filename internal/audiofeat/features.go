// Package audiofeat exposes the precomputed per-frame audio feature stream to
// every overlay consumer. Features are produced upstream (the analysis
// pipeline writes features.json); this package only indexes, smooths, and
// classifies them. A typical frame activates 5-15 overlays at once, so the
// snapshot for a frame is computed once and handed out by reference.
package audiofeat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ChromaBins is the number of pitch-class bins in a chroma vector.
const ChromaBins = 12

// DefaultRollingRadius is the half-width, in frames, of the symmetric moving
// average applied to instantaneous energy.
const DefaultRollingRadius = 75

// Frame is the immutable audio feature snapshot for one output frame.
// EnergyRolling is filled in by the Provider; everything else comes straight
// from the analysis pipeline.
type Frame struct {
	EnergyInstant    float64             `json:"rms"`
	EnergyRolling    float64             `json:"-"`
	OnsetStrength    float64             `json:"onset"`
	Beat             bool                `json:"beat"`
	SpectralCentroid float64             `json:"centroid"`
	Chroma           [ChromaBins]float64 `json:"chroma"`
}

// Band is a coarse classification of rolling energy used to gate overlay
// eligibility.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// String returns the band's catalog spelling.
func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

// Thresholds partitions rolling energy into the three bands. Rolling energy
// below LowMax is low, below MidMax is mid, anything else is high.
type Thresholds struct {
	LowMax float64
	MidMax float64
}

// DefaultThresholds returns the stock band boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{LowMax: 0.35, MidMax: 0.65}
}

// Classify maps a rolling energy value to its band.
func (t Thresholds) Classify(energy float64) Band {
	switch {
	case energy < t.LowMax:
		return BandLow
	case energy < t.MidMax:
		return BandMid
	default:
		return BandHigh
	}
}

// Summary describes a scheduling window's representative energy.
type Summary struct {
	Energy float64 // median rolling energy across the window
	Band   Band
}

// Provider owns the frame array and answers per-frame lookups. Construct once
// per render; the frames slice is never mutated afterwards.
type Provider struct {
	frames     []Frame
	thresholds Thresholds
}

// NewProvider precomputes rolling energy over the given frames and returns a
// provider. rollingRadius <= 0 falls back to DefaultRollingRadius. The moving
// average truncates at array bounds rather than padding with zeros, so the
// first and last frames do not show artificial energy dips.
func NewProvider(frames []Frame, rollingRadius int, thresholds Thresholds) (*Provider, error) {
	if len(frames) == 0 {
		return nil, errors.New("feature array is empty")
	}
	if rollingRadius <= 0 {
		rollingRadius = DefaultRollingRadius
	}
	if thresholds.LowMax <= 0 || thresholds.MidMax <= thresholds.LowMax {
		thresholds = DefaultThresholds()
	}

	// Prefix sums keep the rolling pass O(n) regardless of radius.
	prefix := make([]float64, len(frames)+1)
	for i, f := range frames {
		prefix[i+1] = prefix[i] + f.EnergyInstant
	}
	for i := range frames {
		lo := i - rollingRadius
		if lo < 0 {
			lo = 0
		}
		hi := i + rollingRadius
		if hi >= len(frames) {
			hi = len(frames) - 1
		}
		frames[i].EnergyRolling = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}

	return &Provider{frames: frames, thresholds: thresholds}, nil
}

// Len returns the number of frames in the stream.
func (p *Provider) Len() int {
	return len(p.frames)
}

// Frame returns the snapshot for the given frame index. Out-of-range indices
// clamp to the nearest valid frame: seeking and encoder probes routinely hit
// clip boundaries, and holding the last valid audio state is always preferable
// to aborting a render. The returned pointer aliases the provider's array and
// must be treated as read-only.
func (p *Provider) Frame(index int) *Frame {
	if index < 0 {
		index = 0
	}
	if index >= len(p.frames) {
		index = len(p.frames) - 1
	}
	return &p.frames[index]
}

// Band classifies the rolling energy at a frame index.
func (p *Provider) Band(index int) Band {
	return p.thresholds.Classify(p.Frame(index).EnergyRolling)
}

// WindowSummary returns the representative energy for frames [start, end).
// The representative is the median of rolling energy, which is stable against
// a single transient inside the window. Degenerate ranges clamp like Frame.
func (p *Provider) WindowSummary(start, end int) Summary {
	if start < 0 {
		start = 0
	}
	if end > len(p.frames) {
		end = len(p.frames)
	}
	if end <= start {
		f := p.Frame(start)
		return Summary{Energy: f.EnergyRolling, Band: p.thresholds.Classify(f.EnergyRolling)}
	}

	values := make([]float64, 0, end-start)
	for i := start; i < end; i++ {
		values = append(values, p.frames[i].EnergyRolling)
	}
	sort.Float64s(values)
	median := values[len(values)/2]
	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}
	return Summary{Energy: median, Band: p.thresholds.Classify(median)}
}

// featureFile is the on-disk shape of features.json.
type featureFile struct {
	FPS    int        `json:"fps"`
	Frames []rawFrame `json:"frames"`
}

type rawFrame struct {
	RMS      float64   `json:"rms"`
	Onset    float64   `json:"onset"`
	Beat     bool      `json:"beat"`
	Centroid float64   `json:"centroid"`
	Chroma   []float64 `json:"chroma"`
}

// LoadFrames reads a features.json file and validates its shape. A malformed
// feature stream fails here, before any frame is rendered.
func LoadFrames(path string) ([]Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read features: %w", err)
	}

	var file featureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse features: %w", err)
	}
	if len(file.Frames) == 0 {
		return nil, errors.New("features file contains no frames")
	}

	frames := make([]Frame, len(file.Frames))
	for i, raw := range file.Frames {
		if len(raw.Chroma) != 0 && len(raw.Chroma) != ChromaBins {
			return nil, fmt.Errorf("frame %d: chroma has %d bins, want %d", i, len(raw.Chroma), ChromaBins)
		}
		f := Frame{
			EnergyInstant:    clamp01(raw.RMS),
			OnsetStrength:    clamp01(raw.Onset),
			Beat:             raw.Beat,
			SpectralCentroid: clamp01(raw.Centroid),
		}
		for j, v := range raw.Chroma {
			if v < 0 {
				return nil, fmt.Errorf("frame %d: chroma bin %d is negative", i, j)
			}
			f.Chroma[j] = v
		}
		frames[i] = f
	}
	return frames, nil
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
