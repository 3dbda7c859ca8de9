package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/store"

	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Manage saved scenarios",
	RunE:  runScenariosList,
}

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios, newest first",
	RunE:  runScenariosList,
}

var scenariosShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Run a saved scenario against the current data",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosShow,
}

var scenariosDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosDelete,
}

func init() {
	scenariosCmd.AddCommand(scenariosListCmd, scenariosShowCmd, scenariosDeleteCmd)
	rootCmd.AddCommand(scenariosCmd)
}

func openScenarioStore() (*store.Cache, error) {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening scenario store: %w", err)
	}
	return cache, nil
}

func runScenariosList(_ *cobra.Command, _ []string) error {
	cache, err := openScenarioStore()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	saved, err := cache.ListScenarios()
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Println("\n  No saved scenarios. Create one with `cashcal scenario --delay N --save NAME`.")
		return nil
	}

	rows := make([][]string, 0, len(saved))
	for _, s := range saved {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			cli.FormatDelay(s.DelayDays),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Saved scenarios (%d)", len(saved)),
		Headers: []string{"ID", "Name", "Delay", "Saved"},
		Rows:    rows,
	}))
	return nil
}

func runScenariosShow(_ *cobra.Command, args []string) error {
	cache, err := openScenarioStore()
	if err != nil {
		return err
	}
	saved, err := cache.GetScenario(args[0])
	_ = cache.Close()
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no saved scenario with id %s", args[0])
	}
	if err != nil {
		return err
	}

	result, err := loadData()
	if err != nil {
		return err
	}
	warnParseIssues(result)
	events, err := scopeEvents(result.Events)
	if err != nil {
		return err
	}

	proj := pipeline.ProjectPayments(saved.Name, events, saved.DelayDays, appConfig.CashFlow.StartingBalance)
	if len(proj.Scenario.Baseline) == 0 {
		fmt.Println("\n  No dated payments to project.")
		return nil
	}
	printProjection(proj)
	return nil
}

func runScenariosDelete(_ *cobra.Command, args []string) error {
	cache, err := openScenarioStore()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if err := cache.DeleteScenario(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved scenario with id %s", args[0])
		}
		return err
	}
	fmt.Printf("  Deleted scenario %s\n", args[0])
	return nil
}
