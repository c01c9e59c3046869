package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
	"github.com/JackStrawNYC/dead-air-sub002/internal/catalog"
	"github.com/JackStrawNYC/dead-air-sub002/internal/logx"
	"github.com/JackStrawNYC/dead-air-sub002/internal/paths"
	"github.com/JackStrawNYC/dead-air-sub002/internal/show"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report project status: inputs, counts, and derived show seed",
		RunE:  runCheck,
	}
	return cmd
}

// checkReport is the machine-readable output of the check command.
type checkReport struct {
	Root         string `json:"root"`
	CatalogFound bool   `json:"catalog_found"`
	ShowFound    bool   `json:"show_found"`
	FeatureFound bool   `json:"features_found"`
	Overlays     int    `json:"overlays"`
	Songs        int    `json:"songs"`
	Frames       int    `json:"frames"`
	Windows      int    `json:"windows"`
	ShowSeed     uint32 `json:"show_seed"`
	FPS          int    `json:"fps"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	pp, cfg, err := resolveProject()
	if err != nil {
		return err
	}

	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}
	logger, closeLog, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	logger.Printf("check: project %s", pp.Root)

	report := checkReport{Root: pp.Root, FPS: cfg.Video.FPS}

	report.CatalogFound, _ = paths.FileExists(pp.CatalogFile)
	report.ShowFound, _ = paths.FileExists(pp.ShowFile)
	report.FeatureFound, _ = paths.FileExists(pp.FeaturesFile)

	if report.CatalogFound {
		if cat, err := catalog.Load(pp.CatalogFile); err == nil {
			report.Overlays = cat.Len()
		} else {
			logger.Printf("check: catalog load failed: %v", err)
		}
	}
	if report.ShowFound {
		if sh, err := show.Load(pp.ShowFile); err == nil {
			report.Songs = len(sh.Songs)
			report.ShowSeed = sh.Identity.ShowSeed
		} else {
			logger.Printf("check: show load failed: %v", err)
		}
	}
	if report.FeatureFound {
		if frames, err := audiofeat.LoadFrames(pp.FeaturesFile); err == nil {
			report.Frames = len(frames)
			if wf := cfg.WindowFrames(); wf > 0 {
				report.Windows = (len(frames) + wf - 1) / wf
			}
		} else {
			logger.Printf("check: features load failed: %v", err)
		}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "project:   %s\n", report.Root)
	fmt.Fprintf(out, "catalog:   %s (%d overlays)\n", foundLabel(report.CatalogFound), report.Overlays)
	fmt.Fprintf(out, "show:      %s (%d songs, seed %d)\n", foundLabel(report.ShowFound), report.Songs, report.ShowSeed)
	fmt.Fprintf(out, "features:  %s (%d frames, %d windows at %d fps)\n",
		foundLabel(report.FeatureFound), report.Frames, report.Windows, report.FPS)
	return nil
}

func foundLabel(found bool) string {
	if found {
		return "ok"
	}
	return "missing"
}
