package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/pipeline"

	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Calendar heatmap of daily activity",
	RunE:  runHeatmap,
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}

func runHeatmap(_ *cobra.Command, _ []string) error {
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

	hm := pipeline.BuildHeatmap(result.Events, start, end, mode)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY %s  %s", strings.ToUpper(modeUnit(mode)), rangeLabel(start, end))))
	fmt.Println()
	fmt.Print(cli.RenderHeatmap(hm))
	fmt.Printf("\n  Total %s  Peak day %s\n\n",
		cli.FormatValue(hm.Total, mode), cli.FormatValue(hm.Max, mode))

	warnParseIssues(result)
	return nil
}
