package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/config"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagFrom    string
	flagTo      string
	flagMode    string
	flagVendor  string
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
)

// appConfig is loaded once per invocation in the root pre-run hook.
var appConfig = config.DefaultConfig()

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "cashcal",
	Short: "Claims calendar and cash-flow projection CLI",
	Long: "Bucket invoice, claim and payment exports into calendar heatmaps\n" +
		"and project how delaying payments moves your cash position.",
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Event data directory or file (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Range start YYYY-MM-DD (default Jan 1 this year)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "Range end YYYY-MM-DD (default Dec 31 of the start year)")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "Aggregation: sum or count (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagVendor, "vendor", "", "Only events from these vendors (comma-separated)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func setupRoot(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	configureLogger(log)

	if flagDataDir == "" {
		flagDataDir = config.DataDir(cfg)
	}
	return nil
}

// configureLogger sets the CLI text formatter and level. --verbose wins over
// CASHCAL_LOG_LEVEL.
func configureLogger(l *logrus.Logger) {
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("CASHCAL_LOG_LEVEL")); err == nil {
		l.SetLevel(lvl)
	}
	if flagVerbose {
		l.SetLevel(logrus.DebugLevel)
	}
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", flagDataDir)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 24))
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.WithError(err).Debug("cache unavailable")
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(flagDataDir, cache, progressFn)
			if err != nil {
				log.WithError(err).Debug("cached load failed")
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
				}
			} else {
				log.WithFields(logrus.Fields{
					"files":    cr.TotalFiles,
					"hits":     cr.CacheHits,
					"reparsed": cr.Reparsed,
					"removed":  cr.Removed,
				}).Debug("cached load")
				if !flagQuiet && cr.TotalFiles > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %s events from cache (%d files)    \n",
							cli.FormatNumber(int64(len(cr.Events))), cr.TotalFiles)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed files (%s events)    \n",
							cr.CacheHits, cr.Reparsed, cli.FormatNumber(int64(len(cr.Events))))
					}
				}
				return filterVendor(&cr.LoadResult), nil
			}
		}
	}

	result, err := pipeline.Load(flagDataDir, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s events across %d files    \n",
			cli.FormatNumber(int64(len(result.Events))), result.ParsedFiles)
	}
	return filterVendor(result), nil
}

// filterVendor narrows the loaded events to --vendor.
func filterVendor(result *pipeline.LoadResult) *pipeline.LoadResult {
	vendors := pipeline.ParseVendors(flagVendor)
	if len(vendors) == 0 {
		return result
	}
	before := len(result.Events)
	result.Events = pipeline.FilterVendors(result.Events, vendors)
	log.WithFields(logrus.Fields{"vendors": vendors, "kept": len(result.Events), "of": before}).Debug("vendor filter")
	return result
}

// warnParseIssues reports skipped input on stderr.
func warnParseIssues(result *pipeline.LoadResult) {
	if flagQuiet {
		return
	}
	if result.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be read\n", result.FileErrors)
	}
	if result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d malformed records skipped\n", result.ParseErrors)
	}
}

// resolveMode returns --mode, or the configured default.
func resolveMode() (model.Mode, error) {
	if flagMode == "" {
		return appConfig.Mode(), nil
	}
	return model.ParseMode(flagMode)
}

// resolveRange parses --from/--to and fills missing bounds.
func resolveRange() (model.Date, model.Date, error) {
	var start, end model.Date
	var err error
	if flagFrom != "" {
		if start, err = model.ParseDate(flagFrom); err != nil {
			return start, end, fmt.Errorf("--from: %w", err)
		}
	}
	if flagTo != "" {
		if end, err = model.ParseDate(flagTo); err != nil {
			return start, end, fmt.Errorf("--to: %w", err)
		}
	}
	start, end = pipeline.DefaultRange(start, end, time.Now())
	if err := pipeline.CheckRange(start, end); err != nil {
		return start, end, err
	}
	return start, end, nil
}

func rangeLabel(start, end model.Date) string {
	return strings.Join([]string{start.String(), end.String()}, " to ")
}
