package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashcal/internal/config"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the answers of the first-run form.
type setupValues struct {
	dataDir string
	balance string
	mode    string
	theme   string
}

func newSetupValues(cfg config.Config, dataDir string) *setupValues {
	return &setupValues{
		dataDir: dataDir,
		balance: strconv.FormatFloat(cfg.CashFlow.StartingBalance, 'f', -1, 64),
		mode:    cfg.Mode().String(),
		theme:   theme.ByName(cfg.Appearance.Theme).Name,
	}
}

// newSetupForm builds the first-run wizard shown once data has loaded.
func newSetupForm(eventCount int, dataDir string, vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cashcal").
				Description(fmt.Sprintf("Found %d events in %s.\nA few settings and you're set.", eventCount, dataDir)),
			huh.NewInput().
				Title("Data directory").
				Description("Folder (or single file) of invoice, claim and payment exports").
				Value(&vals.dataDir),
			huh.NewInput().
				Title("Starting balance").
				Description("Cash on hand used for runway projections").
				Value(&vals.balance).
				Validate(validateBalance),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Calendar aggregation").
				Options(
					huh.NewOption("Sum of amounts", model.ModeSum.String()),
					huh.NewOption("Count of events", model.ModeCount.String()),
				).
				Value(&vals.mode),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithShowHelp(false)
}

func validateBalance(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 {
		return errors.New("balance cannot be negative")
	}
	return nil
}

// apply copies the form answers into cfg. Unparseable answers leave the
// existing value.
func (v *setupValues) apply(cfg *config.Config) {
	if dir := strings.TrimSpace(v.dataDir); dir != "" {
		cfg.General.DataDir = dir
	}
	if bal, err := strconv.ParseFloat(strings.TrimSpace(v.balance), 64); err == nil && bal >= 0 {
		cfg.CashFlow.StartingBalance = bal
	}
	if m, err := model.ParseMode(v.mode); err == nil {
		cfg.General.DefaultMode = m.String()
	}
	if v.theme != "" {
		cfg.Appearance.Theme = v.theme
	}
}

// saveSetupConfig applies the form answers to the running app and persists
// them.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()
	a.setupVals.apply(&cfg)

	a.balance = cfg.CashFlow.StartingBalance
	a.mode = cfg.Mode()
	theme.SetActive(cfg.Appearance.Theme)

	return config.Save(cfg)
}

// RunSetup runs the setup form outside the dashboard and saves the answers.
// It returns huh.ErrUserAborted when the user cancels.
func RunSetup(eventCount int, dataDir string) (config.Config, error) {
	cfg := loadConfigOrDefault()
	vals := newSetupValues(cfg, dataDir)
	if err := newSetupForm(eventCount, dataDir, vals).Run(); err != nil {
		return cfg, err
	}
	vals.apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}
