// Package cli wires the deadair command surface. Commands stay thin: they
// resolve the project, load inputs, and delegate to the engine packages.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadair",
		Short: "Overlay orchestration for audio-synchronized show renders",
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to show project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newProbeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
