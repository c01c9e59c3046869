package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JackStrawNYC/dead-air-sub002/internal/config"
	"github.com/JackStrawNYC/dead-air-sub002/internal/logx"
	"github.com/JackStrawNYC/dead-air-sub002/internal/paths"
)

const (
	catalogSampleYAML = `# Overlay catalog. Each entry must declare id and layer (1-10).
# weight defaults to 1; a weight-3 overlay fills a default layer alone.
overlays:
  - id: fog-drift
    layer: 1
    category: atmospheric
    tags: [mist, slow]
    energy_band: low
    envelope:
      cycle_frames: 900
      visible_frames: 600
      fade_in_frames: 90
      fade_out_frames: 90
  - id: laser-fan
    layer: 7
    category: reactive
    energy_band: high
    weight: 3
    envelope:
      cycle_frames: 240
      visible_frames: 120
      fade_in_frames: 12
      fade_out_frames: 12
      energy:
        in: {energy: 0.5, opacity: 0.3}
        out: {energy: 0.9, opacity: 1.0}
`
	showSampleJSON = `{
  "venue": "Example Hall",
  "date": "1977-05-08",
  "songs": [
    {
      "title": "Opener",
      "start_frame": 0,
      "end_frame": 9000,
      "palette": {"primary_hue": 30, "secondary_hue": 200}
    }
  ]
}
`
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a show project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("deadair-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("deadair init: project=%s", pp.Root)

	cfgData, err := config.Default().Marshal()
	if err != nil {
		return err
	}

	files := []struct {
		path     string
		contents []byte
	}{
		{pp.ConfigFile, cfgData},
		{pp.CatalogFile, []byte(catalogSampleYAML)},
		{pp.ShowFile, []byte(showSampleJSON)},
	}
	for _, f := range files {
		exists, err := paths.FileExists(f.path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", f.path, err)
		}
		if exists {
			fmt.Fprintf(cmd.OutOrStdout(), "exists   %s\n", f.path)
			continue
		}
		if err := os.WriteFile(f.path, f.contents, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created  %s\n", f.path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nProject ready. Drop the analysis pipeline's features.json here, then run:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  deadair --project %s validate\n", pp.Root)
	return nil
}
