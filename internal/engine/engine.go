// Package engine binds the feature provider, scheduler, envelopes, and
// palette into the per-frame contract the render host consumes. Evaluating a
// frame is a pure function of the frame index and the static show inputs:
// no state carries from frame to frame, so frames can be evaluated out of
// order or in parallel and a seek lands on byte-identical output.
package engine

import (
	"sort"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
	"github.com/JackStrawNYC/dead-air-sub002/internal/catalog"
	"github.com/JackStrawNYC/dead-air-sub002/internal/config"
	"github.com/JackStrawNYC/dead-air-sub002/internal/palette"
	"github.com/JackStrawNYC/dead-air-sub002/internal/prng"
	"github.com/JackStrawNYC/dead-air-sub002/internal/scheduler"
	"github.com/JackStrawNYC/dead-air-sub002/internal/show"
)

// OverlayParams is everything a mounted leaf renderer needs for one overlay
// on one frame. The renderer's own shape and motion logic is out of scope
// here; it only consumes these values.
type OverlayParams struct {
	ID      string  `json:"id"`
	Layer   int     `json:"layer"`
	Seed    uint32  `json:"seed"`
	Opacity float64 `json:"opacity"`
	Hue     float64 `json:"hue"`
	R       float64 `json:"r"`
	G       float64 `json:"g"`
	B       float64 `json:"b"`
}

// FrameState is the full orchestration output for one frame: the shared audio
// snapshot (by reference, computed once) and the parameters for every overlay
// active in the frame's scheduling window.
type FrameState struct {
	Frame     int              `json:"frame"`
	Window    int              `json:"window"`
	SongIndex int              `json:"song_index"`
	Audio     *audiofeat.Frame `json:"-"`
	Overlays  []OverlayParams  `json:"overlays"`
}

// Engine evaluates frames for one show render. Construct once; all fields are
// read-only after New, apart from the internal plan cache, which only
// memoizes pure results.
type Engine struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	show     show.Show
	provider *audiofeat.Provider

	windowing scheduler.Windowing
	budgets   scheduler.Budgets
	cache     *scheduler.Cache
}

// New wires an engine from loaded show inputs.
func New(cfg config.Config, cat *catalog.Catalog, sh show.Show, provider *audiofeat.Provider) *Engine {
	return &Engine{
		cfg:      cfg,
		catalog:  cat,
		show:     sh,
		provider: provider,
		windowing: scheduler.Windowing{
			FramesPerWindow: cfg.WindowFrames(),
		},
		budgets: scheduler.Budgets{
			Default:  cfg.Scheduler.LayerBudget,
			PerLayer: cfg.Scheduler.LayerBudgets,
		},
		cache: scheduler.NewCache(),
	}
}

// FrameCount returns the number of frames in the feature stream, which bounds
// the render.
func (e *Engine) FrameCount() int {
	return e.provider.Len()
}

// Selection returns the cached window plan covering the given frame.
func (e *Engine) Selection(frame int) scheduler.Selection {
	windowIndex := e.windowing.Index(frame)
	start, end := e.windowing.Bounds(windowIndex)
	summary := e.provider.WindowSummary(start, end)
	songIndex := e.show.SongAt(frame)
	return e.cache.Plan(e.catalog, windowIndex, songIndex, e.show.Identity.ShowSeed, summary, e.budgets)
}

// FrameParams evaluates one frame. It never fails: out-of-range frames clamp
// through the provider and every overlay path is total.
func (e *Engine) FrameParams(frame int) FrameState {
	audio := e.provider.Frame(frame)
	sel := e.Selection(frame)
	pal := e.show.PaletteAt(frame)
	showSeed := e.show.Identity.ShowSeed

	state := FrameState{
		Frame:     frame,
		Window:    e.windowing.Index(frame),
		SongIndex: e.show.SongAt(frame),
		Audio:     audio,
	}

	layers := make([]int, 0, len(sel))
	for layer := range sel {
		layers = append(layers, layer)
	}
	sort.Ints(layers)

	for _, layer := range layers {
		for _, id := range sel[layer] {
			desc, ok := e.catalog.ByID(id)
			if !ok {
				continue
			}
			state.Overlays = append(state.Overlays, e.overlayParams(desc, frame, audio, pal, showSeed))
		}
	}
	return state
}

// overlayParams derives one overlay's per-frame values. The overlay's look
// (raw hue, saturation, value) comes from a generator seeded by
// Combine(entrySeed, showSeed), so the same overlay looks the same across the
// whole show but differently at another venue or date.
func (e *Engine) overlayParams(desc catalog.Descriptor, frame int, audio *audiofeat.Frame, pal palette.Palette, showSeed uint32) OverlayParams {
	seed := prng.Combine(desc.EntrySeed(), showSeed)
	look := prng.New(seed)
	rawHue := look.NextRange(0, 360)
	saturation := look.NextRange(0.6, 1)
	value := look.NextRange(0.7, 1)

	hue := palette.Blend(rawHue, pal, e.cfg.Palette.BlendWeight)
	r, g, b := palette.RGB(hue, pal, saturation, value)

	return OverlayParams{
		ID:      desc.ID,
		Layer:   desc.Layer,
		Seed:    seed,
		Opacity: desc.Envelope.Opacity(frame, audio.EnergyRolling),
		Hue:     hue,
		R:       r,
		G:       g,
		B:       b,
	}
}
