package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/source"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDelay    int
	flagBalance  float64
	flagBaseline string
	flagSaveAs   string
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Project how a payment delay moves cash position",
	Long: "Shift deferrable payments by --delay days (negative pays earlier) and\n" +
		"compare the cumulative balance against paying on schedule.\n" +
		"--from/--to limit the payments projected; without them every dated\n" +
		"payment is used.",
	RunE: runScenario,
}

func init() {
	scenarioCmd.Flags().IntVar(&flagDelay, "delay", 0, "Days to shift payments, -30 to 30 (default from config)")
	scenarioCmd.Flags().Float64Var(&flagBalance, "balance", 0, "Starting balance (default from config)")
	scenarioCmd.Flags().StringVar(&flagBaseline, "baseline", "", "Read a {date,total} baseline series from this file instead of the data dir")
	scenarioCmd.Flags().StringVar(&flagSaveAs, "save", "", "Save the scenario under this name")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, _ []string) error {
	delay := appConfig.CashFlow.DelayDays
	if cmd.Flags().Changed("delay") {
		delay = flagDelay
	}
	if clamped := model.ClampDelay(delay); clamped != delay {
		log.WithFields(logrus.Fields{"requested": delay, "applied": clamped}).Warn("delay clamped")
		delay = clamped
	}
	balance := appConfig.CashFlow.StartingBalance
	if cmd.Flags().Changed("balance") {
		balance = flagBalance
	}

	var proj model.Projection
	if flagBaseline != "" {
		p, err := projectBaselineFile(flagBaseline, delay, balance)
		if err != nil {
			return err
		}
		proj = p
	} else {
		result, err := loadData()
		if err != nil {
			return err
		}
		warnParseIssues(result)
		events, err := scopeEvents(result.Events)
		if err != nil {
			return err
		}
		proj = pipeline.ProjectPayments(flagSaveAs, events, delay, balance)
	}

	if len(proj.Scenario.Baseline) == 0 {
		fmt.Println("\n  No dated payments to project.")
		return nil
	}

	printProjection(proj)

	if flagSaveAs != "" {
		saved, err := saveScenario(flagSaveAs, delay)
		if err != nil {
			return err
		}
		fmt.Printf("  Saved %q as %s\n\n", saved.Name, saved.ID)
	}
	return nil
}

// projectBaselineFile treats every record of path as a baseline point and
// shifts all of them, priority or not.
func projectBaselineFile(path string, delay int, balance float64) (model.Projection, error) {
	pr := source.ReadFile(path)
	if pr.Err != nil {
		return model.Projection{}, fmt.Errorf("reading baseline: %w", pr.Err)
	}
	events, err := scopeEvents(pr.Events)
	if err != nil {
		return model.Projection{}, err
	}
	if pr.ParseErrors > 0 && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %d malformed baseline records skipped\n", pr.ParseErrors)
	}

	baseline := pipeline.RollupPeriods(events, model.ModeSum, model.PeriodDay)
	sc := pipeline.NewScenario(flagSaveAs, baseline, delay)
	return model.Projection{
		Scenario:        sc,
		StartingBalance: model.Finite(balance),
		Metrics:         pipeline.Analyze(sc.Baseline, sc.Scenario, balance),
		Walk:            pipeline.WalkBalances(sc.Baseline, sc.Scenario, balance),
	}, nil
}

// scopeEvents applies --from/--to when given. Unlike the calendar commands,
// a projection with neither flag covers every dated payment.
func scopeEvents(events []model.Event) ([]model.Event, error) {
	if flagFrom == "" && flagTo == "" {
		return events, nil
	}
	var start, end model.Date
	var err error
	if flagFrom != "" {
		if start, err = model.ParseDate(flagFrom); err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
	}
	if flagTo != "" {
		if end, err = model.ParseDate(flagTo); err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
	}
	if err := pipeline.CheckRange(start, end); err != nil {
		return nil, err
	}
	return pipeline.FilterRange(events, start, end), nil
}

func printProjection(p model.Projection) {
	m := p.Metrics

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIO  %s", p.Scenario.Name)))
	fmt.Println()

	rows := make([][]string, 0, len(p.Walk))
	for _, pt := range p.Walk {
		diff := cli.FormatAmount(pt.Diff)
		switch {
		case pt.Diff > 0:
			diff = cli.GoodStyle.Render("+" + diff)
		case pt.Diff < 0:
			diff = cli.WarnStyle.Render(diff)
		}
		rows = append(rows, []string{
			pt.Date.String(),
			cli.FormatAmount(pt.Baseline),
			cli.FormatAmount(pt.Scenario),
			diff,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cumulative balance",
		Headers: []string{"Date", "Baseline", "Scenario", "Difference"},
		Rows:    rows,
	}))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Delay", cli.FormatDelay(p.Scenario.DelayDays)},
			{"Starting balance", cli.FormatAmount(p.StartingBalance)},
			{"Cash dip", cli.FormatAmount(m.CashDip)},
			{"Baseline burn", cli.FormatAmount(m.BurnRate) + "/day"},
			{"Scenario burn", cli.FormatAmount(m.ScenarioBurnRate) + "/day"},
			{"Runway", cli.FormatRunway(m)},
		},
	}))
	fmt.Println()
}

func saveScenario(name string, delay int) (model.SavedScenario, error) {
	cache, err := openScenarioStore()
	if err != nil {
		return model.SavedScenario{}, err
	}
	defer func() { _ = cache.Close() }()
	return cache.SaveScenario(name, delay)
}
