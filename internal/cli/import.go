package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JackStrawNYC/dead-air-sub002/internal/palette"
	"github.com/JackStrawNYC/dead-air-sub002/pkg/setlist"
)

func newImportCmd() *cobra.Command {
	var (
		venue      string
		date       string
		outputPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import <setlist.csv>",
		Short: "Convert a CSV/TSV setlist into a show.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			pp, cfg, err := resolveProject()
			if err != nil {
				return err
			}

			rows, err := setlist.Load(input)
			if err != nil {
				// On validation errors with partial data, still continue.
				var verrs setlist.ValidationErrors
				if !errors.As(err, &verrs) {
					return fmt.Errorf("import %s: %w", input, err)
				}
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("import %s: no usable rows", input)
			}

			doc := showDocument{Venue: venue, Date: date}
			for _, row := range rows {
				doc.Songs = append(doc.Songs, showSong{
					Title:      row.Title,
					StartFrame: row.StartFrame(cfg.Video.FPS),
					EndFrame:   row.EndFrame(cfg.Video.FPS),
					Palette:    rowPalette(row),
				})
			}

			if dryRun {
				printImportPreview(cmd, doc)
				return nil
			}

			out := outputPath
			if out == "" {
				out = pp.ShowFile
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			cmd.Printf("Imported %d songs -> %s\n", len(doc.Songs), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&venue, "venue", "", "Venue name for the show identity")
	cmd.Flags().StringVar(&date, "date", "", "Show date (YYYY-MM-DD) for the show identity")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default: the project's show file)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print converted songs without writing")

	return cmd
}

// showDocument mirrors the show file layout the show loader reads back.
type showDocument struct {
	Venue string     `json:"venue"`
	Date  string     `json:"date"`
	Songs []showSong `json:"songs"`
}

type showSong struct {
	Title      string          `json:"title"`
	StartFrame int             `json:"start_frame"`
	EndFrame   int             `json:"end_frame"`
	Palette    palette.Palette `json:"palette"`
}

// rowPalette maps optional setlist hues onto a song palette. Rows without
// hues get the neutral palette.
func rowPalette(row setlist.Row) palette.Palette {
	p := palette.Neutral()
	if row.PrimaryHue != nil {
		p.PrimaryHue = palette.NormalizeHue(*row.PrimaryHue)
		p.SecondaryHue = p.PrimaryHue
	}
	if row.SecondaryHue != nil {
		p.SecondaryHue = palette.NormalizeHue(*row.SecondaryHue)
	}
	return p
}

func printImportPreview(cmd *cobra.Command, doc showDocument) {
	cmd.Printf("Show: %s %s\n", doc.Venue, doc.Date)
	limit := len(doc.Songs)
	if limit > 5 {
		limit = 5
	}
	cmd.Printf("Songs (%d of %d):\n", limit, len(doc.Songs))
	for _, song := range doc.Songs[:limit] {
		title := song.Title
		if len(title) > 40 {
			title = strings.TrimSpace(title[:39]) + "…"
		}
		cmd.Printf("  %-40s frames %d-%d\n", title, song.StartFrame, song.EndFrame)
	}
}
