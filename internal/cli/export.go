package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JackStrawNYC/dead-air-sub002/internal/engine"
	"github.com/JackStrawNYC/dead-air-sub002/internal/logx"
	"github.com/JackStrawNYC/dead-air-sub002/internal/tui"
)

var (
	exportStart   int
	exportEnd     int
	exportChunk   int
	exportWorkers int
	exportNoTUI   bool
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export per-frame overlay parameters as chunked JSON",
		Long: "Evaluate every frame in the range and write chunked parameter " +
			"files plus a manifest into the project's export directory. Chunks " +
			"are pure computations and run in parallel; output is identical " +
			"regardless of worker count.",
		RunE: runExport,
	}
	cmd.Flags().IntVar(&exportStart, "start", 0, "First frame to export")
	cmd.Flags().IntVar(&exportEnd, "end", 0, "Frame to stop before (0 = full stream)")
	cmd.Flags().IntVar(&exportChunk, "chunk", 0, "Frames per chunk file (0 = config value)")
	cmd.Flags().IntVar(&exportWorkers, "workers", 0, "Parallel chunk workers (0 = config value)")
	cmd.Flags().BoolVar(&exportNoTUI, "no-tui", false, "Plain line output instead of the progress table")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	pc, err := loadProject()
	if err != nil {
		return err
	}

	if err := pc.Paths.EnsureMetaDirs(); err != nil {
		return err
	}
	logger, closeLog, err := logx.New(pc.Paths)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	opts := engine.ExportOptions{
		StartFrame:  exportStart,
		EndFrame:    exportEnd,
		ChunkFrames: exportChunk,
		Workers:     exportWorkers,
	}
	if opts.ChunkFrames <= 0 {
		opts.ChunkFrames = pc.Config.Export.ChunkFrames
	}
	if opts.Workers <= 0 {
		opts.Workers = pc.Config.Export.Workers
	}

	logger.Printf("export: frames %d-%d, chunk %d, workers %d",
		opts.StartFrame, opts.EndFrame, opts.ChunkFrames, opts.Workers)

	out := cmd.OutOrStdout()
	dir := pc.Paths.ExportDir

	if exportNoTUI || outputJSON {
		opts.Reporter = lineReporter{out: cmd.ErrOrStderr()}
		results, err := pc.Engine.Export(context.Background(), dir, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d chunks to %s\n", len(results), dir)
		fmt.Fprintf(out, "manifest: %s\n", filepath.Join(dir, engine.ManifestFilename))
		return nil
	}

	frameCount := pc.Engine.FrameCount()
	end := opts.EndFrame
	if end <= 0 || end > frameCount {
		end = frameCount
	}
	chunkCount := 0
	if end > opts.StartFrame {
		chunkCount = (end - opts.StartFrame + opts.ChunkFrames - 1) / opts.ChunkFrames
	}

	model := tui.NewProgressModel("Exporting overlay parameters", tui.ExportColumns())
	for i := 0; i < chunkCount; i++ {
		start := opts.StartFrame + i*opts.ChunkFrames
		stop := start + opts.ChunkFrames
		if stop > end {
			stop = end
		}
		model.AddRow(tui.ChunkKey(i), []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d-%d", start, stop-1),
			"pending",
			"",
		})
	}

	var exportErr error
	err = tui.RunWithWork(out, model, func(send func(tea.Msg)) {
		opts.Reporter = tui.NewExportReporter(send)
		if _, err := pc.Engine.Export(context.Background(), dir, opts); err != nil {
			exportErr = err
			send(tui.ErrorMsg{Err: err})
		}
	})
	if err != nil {
		return err
	}
	if exportErr != nil {
		return exportErr
	}

	logger.Printf("export: complete, %d chunks", chunkCount)
	fmt.Fprintf(out, "exported %d chunks to %s\n", chunkCount, dir)
	return nil
}

// lineReporter prints one line per chunk transition for non-interactive runs.
type lineReporter struct {
	out io.Writer
}

func (r lineReporter) Start(chunk engine.Chunk) {
	fmt.Fprintf(r.out, "chunk %d: frames %d-%d\n", chunk.Index, chunk.StartFrame, chunk.EndFrame-1)
}

func (r lineReporter) Complete(res engine.ChunkResult) {
	if res.Err != nil {
		fmt.Fprintf(r.out, "chunk %d: error: %v\n", res.Chunk.Index, res.Err)
		return
	}
	fmt.Fprintf(r.out, "chunk %d: wrote %s\n", res.Chunk.Index, filepath.Base(res.OutputPath))
}
