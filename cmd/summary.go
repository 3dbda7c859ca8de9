package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals, active days, burn rate and runway for the range",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	mode, err := resolveMode()
	if err != nil {
		return err
	}
	start, end, err := resolveRange()
	if err != nil {
		return err
	}

	result, err := loadData()
	if err != nil {
		return err
	}

	if len(result.Events) == 0 {
		fmt.Println("\n  No events found.")
		fmt.Printf("  Drop JSON, JSONL or CSV exports into %s and try again.\n", flagDataDir)
		return nil
	}

	stats := pipeline.Summarize(result.Events, start, end, mode)
	if stats.Events == 0 {
		fmt.Println("\n  No events found in the selected range.")
		return nil
	}

	// Same-length window immediately before the range.
	span := start.DaysUntil(end) + 1
	prev := pipeline.Summarize(result.Events, start.AddDays(-span), start.AddDays(-1), mode)

	proj := pipeline.ProjectPayments("", result.Events, appConfig.CashFlow.DelayDays, appConfig.CashFlow.StartingBalance)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASHCAL  " + rangeLabel(start, end)))
	fmt.Println()

	perDay := cli.FormatValue(stats.PerDay, mode) + "/day"
	if mode == model.ModeSum && prev.PerDay > 0 {
		perDay += fmt.Sprintf("  (%s vs prev %dd)", cli.FormatDelta(stats.PerDay, prev.PerDay), span)
	}

	rows := [][]string{
		{"Events", cli.FormatNumber(int64(stats.Events))},
		{"Total (" + mode.String() + ")", cli.FormatValue(stats.Total, mode)},
		{"Active days", fmt.Sprintf("%d of %d", stats.ActiveDays, span)},
		{"Per active day", perDay},
		{"First / last", stats.First.String() + " / " + stats.Last.String()},
	}
	if !stats.PeakDay.IsZero() {
		rows = append(rows, []string{"Peak day", fmt.Sprintf("%s (%s)", stats.PeakDay, cli.FormatValue(stats.PeakDayTotal, mode))})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Starting balance", cli.FormatAmount(proj.StartingBalance)},
		[]string{"Delay", cli.FormatDelay(proj.Scenario.DelayDays)},
		[]string{"Burn rate", cli.FormatAmount(proj.Metrics.BurnRate) + "/day"},
		[]string{"Cash dip", cli.FormatAmount(proj.Metrics.CashDip)},
		[]string{"Runway", cli.FormatRunway(proj.Metrics)},
	)
	if stats.Skipped > 0 {
		rows = append(rows, []string{"---"}, []string{"Undated events", cli.FormatNumber(int64(stats.Skipped))})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	warnParseIssues(result)
	return nil
}

// modeUnit names what a value counts, for titles.
func modeUnit(mode model.Mode) string {
	if mode == model.ModeCount {
		return "events"
	}
	return "amount"
}
