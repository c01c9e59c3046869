// Package scheduler decides which overlays are eligible during a scheduling
// window. Windows are coarse time buckets: overlays self-gate their exact
// frame-by-frame visibility through their envelopes, so the scheduler only
// picks the eligible pool per layer, honoring energy-band gating and each
// layer's weight budget. The plan is a pure function of its inputs; calling it
// twice yields identical results, which parallel and resumable renders rely on.
package scheduler

import (
	"sync"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
	"github.com/JackStrawNYC/dead-air-sub002/internal/catalog"
	"github.com/JackStrawNYC/dead-air-sub002/internal/prng"
)

// DefaultLayerBudget is the weight capacity of a layer unless overridden.
// A single weight-3 overlay fully occupies a default layer; three weight-1
// overlays can coexist on it.
const DefaultLayerBudget = 3.0

// Budgets configures per-layer weight capacity.
type Budgets struct {
	Default  float64
	PerLayer map[int]float64
}

// DefaultBudgets returns uniform budgets of DefaultLayerBudget.
func DefaultBudgets() Budgets {
	return Budgets{Default: DefaultLayerBudget}
}

// For returns the budget for a layer.
func (b Budgets) For(layer int) float64 {
	if v, ok := b.PerLayer[layer]; ok && v > 0 {
		return v
	}
	if b.Default > 0 {
		return b.Default
	}
	return DefaultLayerBudget
}

// Selection maps a layer to the ordered ids of overlays active for a window.
// Layers with an empty eligible pool are simply absent.
type Selection map[int][]string

// Active reports whether an overlay id is selected on a layer.
func (s Selection) Active(layer int, id string) bool {
	for _, got := range s[layer] {
		if got == id {
			return true
		}
	}
	return false
}

// Count returns the total number of admitted overlays across layers.
func (s Selection) Count() int {
	n := 0
	for _, ids := range s {
		n += len(ids)
	}
	return n
}

// Plan computes the active overlay set for one scheduling window. Per layer:
// filter by energy band against the window's representative band, shuffle
// deterministically under a seed derived from (layer, window, show), then walk
// the shuffled order admitting every entry whose weight still fits the layer
// budget. Entries that do not fit are excluded for the whole window rather
// than delayed, which avoids flicker near the budget boundary.
func Plan(cat *catalog.Catalog, windowIndex int, showSeed uint32, summary audiofeat.Summary, budgets Budgets) Selection {
	selection := Selection{}

	for _, layer := range cat.Layers() {
		var eligible []catalog.Descriptor
		for _, d := range cat.Layer(layer) {
			if d.EnergyBand.Matches(summary.Band) {
				eligible = append(eligible, d)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		shuffle(eligible, prng.Combine3(uint32(layer), uint32(windowIndex), showSeed))

		budget := budgets.For(layer)
		total := 0.0
		var admitted []string
		for _, d := range eligible {
			if total+d.Weight > budget {
				continue
			}
			total += d.Weight
			admitted = append(admitted, d.ID)
		}
		if len(admitted) > 0 {
			selection[layer] = admitted
		}
	}

	return selection
}

// shuffle is a seeded Fisher-Yates pass. Same seed, same order, every run.
func shuffle(entries []catalog.Descriptor, seed uint32) {
	g := prng.New(seed)
	for i := len(entries) - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		entries[i], entries[j] = entries[j], entries[i]
	}
}

// Windowing converts frame indices to scheduling windows. Windows are fixed
// length and aligned to frame 0.
type Windowing struct {
	FramesPerWindow int
}

// Index returns the window containing a frame. Negative frames clamp to
// window 0, matching the feature provider's boundary behavior.
func (w Windowing) Index(frame int) int {
	if frame < 0 {
		return 0
	}
	size := w.FramesPerWindow
	if size <= 0 {
		size = 1
	}
	return frame / size
}

// Bounds returns the [start, end) frame range of a window.
func (w Windowing) Bounds(index int) (start, end int) {
	size := w.FramesPerWindow
	if size <= 0 {
		size = 1
	}
	if index < 0 {
		index = 0
	}
	return index * size, (index + 1) * size
}

// cacheKey scopes a cached plan to both the window and the active song, so a
// song change mid-window invalidates the plan without explicit bookkeeping.
type cacheKey struct {
	window int
	song   int
}

// Cache memoizes window plans. Plans are pure, so the cache only saves work;
// it never changes results. Safe for concurrent use by export workers.
type Cache struct {
	mu    sync.RWMutex
	plans map[cacheKey]Selection
}

// NewCache returns an empty plan cache.
func NewCache() *Cache {
	return &Cache{plans: make(map[cacheKey]Selection)}
}

// Plan returns the memoized selection for (windowIndex, songIndex), computing
// it on first use.
func (c *Cache) Plan(cat *catalog.Catalog, windowIndex, songIndex int, showSeed uint32, summary audiofeat.Summary, budgets Budgets) Selection {
	key := cacheKey{window: windowIndex, song: songIndex}

	c.mu.RLock()
	sel, ok := c.plans[key]
	c.mu.RUnlock()
	if ok {
		return sel
	}

	sel = Plan(cat, windowIndex, showSeed, summary, budgets)

	c.mu.Lock()
	c.plans[key] = sel
	c.mu.Unlock()
	return sel
}
