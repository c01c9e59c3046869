// Package catalog holds the static registry of overlay descriptors. The
// catalog is hand-authored YAML, loaded once at startup and immutable
// afterwards. A malformed entry silently skews selection probabilities for an
// entire render, so loading is the one place this system fails loudly.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
	"github.com/JackStrawNYC/dead-air-sub002/internal/envelope"
	"github.com/JackStrawNYC/dead-air-sub002/internal/prng"
)

// Layer bounds for descriptors. Layer doubles as z-order and as the
// mutual-exclusivity group the scheduler budgets against.
const (
	MinLayer = 1
	MaxLayer = 10
)

// Category groups overlays thematically.
type Category string

const (
	CategoryAtmospheric Category = "atmospheric"
	CategorySacred      Category = "sacred"
	CategoryReactive    Category = "reactive"
	CategoryCharacter   Category = "character"
	CategoryArtifact    Category = "artifact"
	CategoryOther       Category = "other"
)

var validCategories = map[Category]bool{
	CategoryAtmospheric: true,
	CategorySacred:      true,
	CategoryReactive:    true,
	CategoryCharacter:   true,
	CategoryArtifact:    true,
	CategoryOther:       true,
}

// EnergyBand is the audio-energy regime an overlay is eligible in.
type EnergyBand string

const (
	BandAny  EnergyBand = "any"
	BandLow  EnergyBand = "low"
	BandMid  EnergyBand = "mid"
	BandHigh EnergyBand = "high"
)

var validBands = map[EnergyBand]bool{
	BandAny:  true,
	BandLow:  true,
	BandMid:  true,
	BandHigh: true,
}

// Matches reports whether the band admits a window classified as b.
func (e EnergyBand) Matches(b audiofeat.Band) bool {
	switch e {
	case BandAny:
		return true
	case BandLow:
		return b == audiofeat.BandLow
	case BandMid:
		return b == audiofeat.BandMid
	case BandHigh:
		return b == audiofeat.BandHigh
	}
	return false
}

// Descriptor is one catalog entry. Weight defaults to 1; heavier entries
// consume proportionally more of their layer's selection budget, so a
// weight-3 entry alone fills a budget-3 layer.
type Descriptor struct {
	ID         string          `yaml:"id"`
	Layer      int             `yaml:"layer"`
	Category   Category        `yaml:"category"`
	Tags       []string        `yaml:"tags"`
	EnergyBand EnergyBand      `yaml:"energy_band"`
	Weight     float64         `yaml:"weight"`
	Seed       *uint32         `yaml:"seed,omitempty"`
	Envelope   envelope.Params `yaml:"envelope"`
}

// EntrySeed returns the descriptor's own seed: the explicit value when one is
// authored, otherwise a hash of the id. Combined with the show seed at render
// time via prng.Combine.
func (d Descriptor) EntrySeed() uint32 {
	if d.Seed != nil {
		return *d.Seed
	}
	return prng.SeedString(d.ID)
}

// HasTag reports whether the descriptor carries the given tag.
func (d Descriptor) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog is the immutable set of descriptors, in authored order.
type Catalog struct {
	entries []Descriptor
	byID    map[string]int
}

// Entries returns the descriptors in authored order. Callers must not mutate
// the returned slice.
func (c *Catalog) Entries() []Descriptor {
	return c.entries
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ByID looks up a descriptor.
func (c *Catalog) ByID(id string) (Descriptor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// Layer returns the descriptors on one layer, in authored order.
func (c *Catalog) Layer(layer int) []Descriptor {
	var out []Descriptor
	for _, d := range c.entries {
		if d.Layer == layer {
			out = append(out, d)
		}
	}
	return out
}

// Layers returns the sorted list of layers that have at least one entry.
func (c *Catalog) Layers() []int {
	seen := map[int]bool{}
	for _, d := range c.entries {
		seen[d.Layer] = true
	}
	layers := make([]int, 0, len(seen))
	for l := range seen {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	return layers
}

// catalogFile is the on-disk shape of catalog.yaml.
type catalogFile struct {
	Overlays []Descriptor `yaml:"overlays"`
}

// Load reads catalog.yaml and validates every entry. All problems are
// accumulated and reported together so an author fixes the file in one pass.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Overlays)
}

// New builds a catalog from descriptors, applying defaults and failing on any
// malformed entry.
func New(entries []Descriptor) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalog has no overlays")
	}

	var errs ValidationErrors
	byID := make(map[string]int, len(entries))
	out := make([]Descriptor, len(entries))

	for i, d := range entries {
		d.ID = strings.TrimSpace(d.ID)
		if d.Weight == 0 {
			d.Weight = 1
		}
		if d.EnergyBand == "" {
			d.EnergyBand = BandAny
		}
		if d.Category == "" {
			d.Category = CategoryOther
		}

		if d.ID == "" {
			errs = append(errs, ValidationError{Entry: i + 1, Field: "id", Message: "id is required"})
		} else if prev, dup := byID[d.ID]; dup {
			errs = append(errs, ValidationError{Entry: i + 1, ID: d.ID, Field: "id",
				Message: fmt.Sprintf("duplicate of entry %d", prev+1)})
		} else {
			byID[d.ID] = i
		}

		if d.Layer < MinLayer || d.Layer > MaxLayer {
			errs = append(errs, ValidationError{Entry: i + 1, ID: d.ID, Field: "layer",
				Message: fmt.Sprintf("layer must be %d-%d", MinLayer, MaxLayer)})
		}
		if !validCategories[d.Category] {
			errs = append(errs, ValidationError{Entry: i + 1, ID: d.ID, Field: "category",
				Message: fmt.Sprintf("unknown category %q", d.Category)})
		}
		if !validBands[d.EnergyBand] {
			errs = append(errs, ValidationError{Entry: i + 1, ID: d.ID, Field: "energy_band",
				Message: fmt.Sprintf("unknown energy band %q", d.EnergyBand)})
		}
		if d.Weight < 0 {
			errs = append(errs, ValidationError{Entry: i + 1, ID: d.ID, Field: "weight",
				Message: "weight must be positive"})
		}
		if d.Envelope.CycleFrames < 0 || d.Envelope.VisibleFrames > d.Envelope.CycleFrames {
			errs = append(errs, ValidationError{Entry: i + 1, ID: d.ID, Field: "envelope",
				Message: "visible_frames must not exceed cycle_frames"})
		}

		out[i] = d
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Catalog{entries: out, byID: byID}, nil
}
