package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/cashcal/internal/config"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	events := 0
	if result, err := pipeline.Load(flagDataDir, nil); err == nil {
		events = len(result.Events)
	}

	cfg, err := tui.RunSetup(events, flagDataDir)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("  Setup cancelled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Printf("  Data: %s  Mode: %s  Theme: %s\n", config.DataDir(cfg), cfg.Mode(), cfg.Appearance.Theme)
	fmt.Println("  Run `cashcal setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
