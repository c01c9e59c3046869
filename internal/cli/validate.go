package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JackStrawNYC/dead-air-sub002/internal/audiofeat"
	"github.com/JackStrawNYC/dead-air-sub002/internal/catalog"
	"github.com/JackStrawNYC/dead-air-sub002/internal/config"
	"github.com/JackStrawNYC/dead-air-sub002/internal/show"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate project config, catalog, show, and features",
		RunE:  runValidate,
	}
	return cmd
}

// validateReport is the machine-readable output of the validate command.
type validateReport struct {
	Config   []config.ValidationResult `json:"config"`
	Catalog  []string                  `json:"catalog"`
	Show     []string                  `json:"show"`
	Features []string                  `json:"features"`
	OK       bool                      `json:"ok"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	pp, cfg, err := resolveProject()
	if err != nil {
		return err
	}

	report := validateReport{
		Config: cfg.ValidateStrict(pp.Root),
	}

	if _, err := catalog.Load(pp.CatalogFile); err != nil {
		var verrs catalog.ValidationErrors
		if errors.As(err, &verrs) {
			for _, issue := range verrs.Issues() {
				report.Catalog = append(report.Catalog, issue.Error())
			}
		} else {
			report.Catalog = append(report.Catalog, err.Error())
		}
	}

	if _, err := show.Load(pp.ShowFile); err != nil {
		report.Show = append(report.Show, err.Error())
	}

	if _, err := audiofeat.LoadFrames(pp.FeaturesFile); err != nil {
		report.Features = append(report.Features, err.Error())
	}

	report.OK = !config.HasErrors(report.Config) &&
		len(report.Catalog) == 0 &&
		len(report.Show) == 0 &&
		len(report.Features) == 0

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, r := range report.Config {
			fmt.Fprintf(out, "config   %-7s %s\n", r.Level+":", r.Message)
		}
		for _, msg := range report.Catalog {
			fmt.Fprintf(out, "catalog  error:  %s\n", msg)
		}
		for _, msg := range report.Show {
			fmt.Fprintf(out, "show     error:  %s\n", msg)
		}
		for _, msg := range report.Features {
			fmt.Fprintf(out, "features error:  %s\n", msg)
		}
		if report.OK {
			fmt.Fprintln(out, "all inputs valid")
		}
	}

	if !report.OK {
		return errors.New("validation failed")
	}
	return nil
}
