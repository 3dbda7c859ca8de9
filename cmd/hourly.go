package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/pipeline"

	"github.com/spf13/cobra"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Activity by weekday and hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
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

	events := pipeline.FilterRange(result.Events, start, end)
	if len(events) == 0 {
		fmt.Println("\n  No events found in the selected range.")
		return nil
	}
	g := pipeline.WeekdayHourGrid(events, mode)

	fmt.Println()
	fmt.Println(cli.RenderTitle("WEEKDAY x HOUR  " + rangeLabel(start, end)))
	fmt.Println()
	fmt.Print(cli.RenderWeekHour(g))
	fmt.Println()

	var hours [24]float64
	peak := 0.0
	for wd := 0; wd < 7; wd++ {
		for h := 0; h < 24; h++ {
			hours[h] += g.Values[wd][h]
		}
	}
	for _, v := range hours {
		peak = max(peak, v)
	}

	const maxBarWidth = 40
	for h, v := range hours {
		label := fmt.Sprintf("%02d:00 │ %8s │", h, cli.FormatValue(v, mode))
		fmt.Println(cli.RenderHorizontalBar(label, v, peak, maxBarWidth))
	}

	fmt.Printf("\n  Peak: %s %02d:00 (%s)\n\n",
		g.PeakDay, g.PeakHour,
		cli.FormatValue(g.Values[g.PeakDay][g.PeakHour], mode))

	warnParseIssues(result)
	return nil
}
