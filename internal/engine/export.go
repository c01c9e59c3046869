package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/JackStrawNYC/dead-air-sub002/internal/catalog"
	"github.com/JackStrawNYC/dead-air-sub002/internal/config"
)

// ExportOptions controls parameter-stream export.
type ExportOptions struct {
	StartFrame  int
	EndFrame    int // exclusive; <= 0 means the full feature stream
	ChunkFrames int
	Workers     int
	Reporter    ProgressReporter
}

// Chunk identifies one contiguous frame range written as a single file.
type Chunk struct {
	Index      int
	StartFrame int
	EndFrame   int
}

// ChunkResult captures the outcome of exporting one chunk.
type ChunkResult struct {
	Chunk      Chunk
	OutputPath string
	Err        error
}

// ProgressReporter receives notifications as chunks move through the export.
type ProgressReporter interface {
	Start(chunk Chunk)
	Complete(result ChunkResult)
}

// chunkFile is the on-disk shape of one exported chunk.
type chunkFile struct {
	StartFrame int          `json:"start_frame"`
	EndFrame   int          `json:"end_frame"`
	Frames     []FrameState `json:"frames"`
}

// Export evaluates the frame range and writes per-chunk JSON parameter files
// plus a manifest into dir. Chunks are independent pure computations, so they
// run in parallel under a bounded errgroup; output is identical regardless of
// worker count or completion order.
func (e *Engine) Export(ctx context.Context, dir string, opts ExportOptions) ([]ChunkResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure export directory: %w", err)
	}

	chunks := e.planChunks(opts)
	results := make([]ChunkResult, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		if opts.Reporter != nil {
			opts.Reporter.Start(chunk)
		}
		g.Go(func() error {
			res := e.exportChunk(ctx, dir, chunk)
			results[i] = res
			if opts.Reporter != nil {
				opts.Reporter.Complete(res)
			}
			return res.Err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	if err := e.writeManifest(dir, chunks); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Engine) planChunks(opts ExportOptions) []Chunk {
	start := opts.StartFrame
	if start < 0 {
		start = 0
	}
	end := opts.EndFrame
	if end <= 0 || end > e.FrameCount() {
		end = e.FrameCount()
	}
	size := opts.ChunkFrames
	if size <= 0 {
		size = 1800
	}

	var chunks []Chunk
	for idx, frame := 0, start; frame < end; idx, frame = idx+1, frame+size {
		chunkEnd := frame + size
		if chunkEnd > end {
			chunkEnd = end
		}
		chunks = append(chunks, Chunk{Index: idx, StartFrame: frame, EndFrame: chunkEnd})
	}
	return chunks
}

func (e *Engine) exportChunk(ctx context.Context, dir string, chunk Chunk) ChunkResult {
	result := ChunkResult{Chunk: chunk}

	file := chunkFile{
		StartFrame: chunk.StartFrame,
		EndFrame:   chunk.EndFrame,
		Frames:     make([]FrameState, 0, chunk.EndFrame-chunk.StartFrame),
	}
	for frame := chunk.StartFrame; frame < chunk.EndFrame; frame++ {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}
		file.Frames = append(file.Frames, e.FrameParams(frame))
	}

	data, err := json.Marshal(file)
	if err != nil {
		result.Err = fmt.Errorf("encode chunk %d: %w", chunk.Index, err)
		return result
	}

	result.OutputPath = filepath.Join(dir, ChunkFilename(chunk.Index))
	if err := os.WriteFile(result.OutputPath, data, 0o644); err != nil {
		result.Err = fmt.Errorf("write chunk %d: %w", chunk.Index, err)
	}
	return result
}

// ChunkFilename returns the canonical name of an export chunk.
func ChunkFilename(index int) string {
	return fmt.Sprintf("params-%06d.json", index)
}

// Manifest describes a completed export so a later run can verify the inputs
// have not drifted before reusing or resuming it.
type Manifest struct {
	PlanHash   string   `json:"plan_hash"`
	ShowSeed   uint32   `json:"show_seed"`
	FrameCount int      `json:"frame_count"`
	Chunks     []string `json:"chunks"`
}

// ManifestFilename is the manifest's name inside an export directory.
const ManifestFilename = "manifest.json"

func (e *Engine) writeManifest(dir string, chunks []Chunk) error {
	m := Manifest{
		PlanHash:   PlanHash(e.cfg, e.catalog, e.show.Identity.ShowSeed),
		ShowSeed:   e.show.Identity.ShowSeed,
		FrameCount: e.FrameCount(),
	}
	for _, c := range chunks {
		m.Chunks = append(m.Chunks, ChunkFilename(c.Index))
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFilename), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// planInput is the canonical structure hashed for render-input identity.
type planInput struct {
	ShowSeed  uint32                 `json:"show_seed"`
	Video     config.VideoConfig     `json:"video"`
	Audio     config.AudioConfig     `json:"audio"`
	Scheduler config.SchedulerConfig `json:"scheduler"`
	Palette   config.PaletteConfig   `json:"palette"`
	Overlays  []catalog.Descriptor   `json:"overlays"`
}

// PlanHash returns a deterministic hash of every input that affects frame
// evaluation. Two exports with equal hashes are byte-interchangeable.
func PlanHash(cfg config.Config, cat *catalog.Catalog, showSeed uint32) string {
	input := planInput{
		ShowSeed:  showSeed,
		Video:     cfg.Video,
		Audio:     cfg.Audio,
		Scheduler: cfg.Scheduler,
		Palette:   cfg.Palette,
		Overlays:  cat.Entries(),
	}
	data, err := json.Marshal(input)
	if err != nil {
		// Should never happen with known struct types.
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}
