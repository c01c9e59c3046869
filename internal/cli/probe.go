package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var probeFrame int

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Evaluate one frame and print its overlay parameters",
		RunE:  runProbe,
	}
	cmd.Flags().IntVar(&probeFrame, "frame", 0, "Frame index to evaluate")
	return cmd
}

func runProbe(cmd *cobra.Command, _ []string) error {
	pc, err := loadProject()
	if err != nil {
		return err
	}
	if probeFrame < 0 {
		return fmt.Errorf("frame must be non-negative")
	}

	state := pc.Engine.FrameParams(probeFrame)
	out := cmd.OutOrStdout()

	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	fmt.Fprintf(out, "frame %d  window %d  song %d\n", state.Frame, state.Window, state.SongIndex)
	if state.Audio != nil {
		fmt.Fprintf(out, "audio: rms=%.3f rolling=%.3f onset=%.3f beat=%v\n",
			state.Audio.EnergyInstant, state.Audio.EnergyRolling, state.Audio.OnsetStrength, state.Audio.Beat)
	}
	if len(state.Overlays) == 0 {
		fmt.Fprintln(out, "no overlays active")
		return nil
	}
	for _, ov := range state.Overlays {
		fmt.Fprintf(out, "  %-20s layer %2d  opacity %.3f  hue %6.1f  rgb(%.2f, %.2f, %.2f)\n",
			ov.ID, ov.Layer, ov.Opacity, ov.Hue, ov.R, ov.G, ov.B)
	}
	return nil
}
