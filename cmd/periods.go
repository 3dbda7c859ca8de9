package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagPeriod string

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Cash flow rolled up by day, week or month",
	RunE:  runPeriods,
}

func init() {
	periodsCmd.Flags().StringVar(&flagPeriod, "period", "", "Rollup width: day, week or month (default from config)")
	rootCmd.AddCommand(periodsCmd)
}

func runPeriods(_ *cobra.Command, _ []string) error {
	mode, err := resolveMode()
	if err != nil {
		return err
	}
	start, end, err := resolveRange()
	if err != nil {
		return err
	}
	period := appConfig.Period()
	if flagPeriod != "" {
		if period, err = model.ParsePeriod(flagPeriod); err != nil {
			return err
		}
	}

	result, err := loadData()
	if err != nil {
		return err
	}

	events := pipeline.FilterRange(result.Events, start, end)
	points := pipeline.RollupPeriods(events, mode, period)
	if len(points) == 0 {
		fmt.Println("\n  No events found in the selected range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BY %s  %s", period, rangeLabel(start, end))))
	fmt.Println()

	values := make([]float64, len(points))
	rows := make([][]string, 0, len(points)+2)
	total := 0.0
	for i, p := range points {
		values[i] = p.Total
		total += p.Total
		rows = append(rows, []string{p.Date.String(), cli.FormatValue(p.Total, mode)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", cli.FormatValue(total, mode)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{period.String(), modeUnit(mode)},
		Rows:    rows,
	}))
	fmt.Printf("\n  %s\n\n", cli.RenderSparkline(values))

	warnParseIssues(result)
	return nil
}
