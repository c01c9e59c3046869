package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var planWindow int

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the per-window overlay selection",
		Long: "Print which overlays each scheduling window selects, per layer. " +
			"The plan is deterministic for a given show seed, so this output " +
			"predicts exactly what the renderer will mount.",
		RunE: runPlan,
	}
	cmd.Flags().IntVar(&planWindow, "window", -1, "Only print this window index")
	return cmd
}

// windowPlan is one window's selection in machine-readable form.
type windowPlan struct {
	Window     int              `json:"window"`
	StartFrame int              `json:"start_frame"`
	EndFrame   int              `json:"end_frame"`
	SongIndex  int              `json:"song_index"`
	Layers     map[int][]string `json:"layers"`
}

func runPlan(cmd *cobra.Command, _ []string) error {
	pc, err := loadProject()
	if err != nil {
		return err
	}

	windowFrames := pc.Config.WindowFrames()
	frameCount := pc.Engine.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("feature stream is empty")
	}
	windowCount := (frameCount + windowFrames - 1) / windowFrames

	first, last := 0, windowCount-1
	if planWindow >= 0 {
		if planWindow >= windowCount {
			return fmt.Errorf("window %d out of range (show has %d windows)", planWindow, windowCount)
		}
		first, last = planWindow, planWindow
	}

	plans := make([]windowPlan, 0, last-first+1)
	for w := first; w <= last; w++ {
		start := w * windowFrames
		end := start + windowFrames
		if end > frameCount {
			end = frameCount
		}
		sel := pc.Engine.Selection(start)
		plans = append(plans, windowPlan{
			Window:     w,
			StartFrame: start,
			EndFrame:   end,
			SongIndex:  pc.Show.SongAt(start),
			Layers:     sel,
		})
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}

	for _, p := range plans {
		fmt.Fprintf(out, "window %d (frames %d-%d, song %d)\n", p.Window, p.StartFrame, p.EndFrame-1, p.SongIndex)
		layers := make([]int, 0, len(p.Layers))
		for layer := range p.Layers {
			layers = append(layers, layer)
		}
		sort.Ints(layers)
		for _, layer := range layers {
			fmt.Fprintf(out, "  layer %2d: %s\n", layer, strings.Join(p.Layers[layer], ", "))
		}
		if len(layers) == 0 {
			fmt.Fprintln(out, "  (no overlays selected)")
		}
	}
	return nil
}
