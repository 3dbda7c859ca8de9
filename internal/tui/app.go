// Package tui provides the interactive Bubble Tea dashboard for cashcal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/config"
	"github.com/theirongolddev/cashcal/internal/fence"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/store"
	"github.com/theirongolddev/cashcal/internal/tui/components"
	"github.com/theirongolddev/cashcal/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the initial load finishes.
type DataLoadedMsg struct {
	Data     loadedData
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Data     loadedData
	LoadTime time.Duration
}

type loadedData struct {
	Events      []model.Event
	Files       int
	ParseErrors int
	Err         error
}

type projectionMsg struct {
	token      fence.Token
	projection model.Projection
}

type scenariosMsg struct {
	list []model.SavedScenario
	err  error
}

type scenarioSavedMsg struct {
	saved model.SavedScenario
	err   error
}

type scenarioDeletedMsg struct {
	id  string
	err error
}

// Options configures a new dashboard.
type Options struct {
	DataDir         string
	Mode            model.Mode
	From, To        model.Date // zero means the current calendar year
	StartingBalance float64
	DelayDays       int
	NoCache         bool
	Vendors         []string // empty keeps every vendor
}

const projectionKey = "projection"

// Tab indexes, matching components.Tabs.
const (
	tabCalendar = iota
	tabWeekly
	tabProjection
	tabSaved
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	events      []model.Event
	files       int
	parseErrors int
	loaded      bool
	loadTime    time.Duration
	loadErr     error
	vendors     []string

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// Pre-computed for the current range and mode
	start, end model.Date
	stats      model.SummaryStats
	heatmap    model.Heatmap
	weekHour   model.WeekHourGrid
	breakdown  pipeline.PaymentBreakdown

	// Projection state. Recomputes are fenced so a fast run of key presses
	// never shows an older delay's result after a newer one.
	mode        model.Mode
	delay       int
	balance     float64
	balanceStep float64
	projections *fence.Tracker[model.Projection]

	// Saved scenarios
	scenarios   []model.SavedScenario
	savedCursor int

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	flash      string
	flashUntil time.Time

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues // shared across App copies; the form writes through it
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	dataDir   string
	noCache   bool
	openStore func() (*store.Cache, error)
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	flashDuration = 3 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 30 * time.Second
	}

	start, end := pipeline.DefaultRange(opts.From, opts.To, time.Now())

	return App{
		dataDir:         opts.DataDir,
		noCache:         opts.NoCache,
		vendors:         opts.Vendors,
		mode:            opts.Mode,
		start:           start,
		end:             end,
		delay:           model.ClampDelay(opts.DelayDays),
		balance:         opts.StartingBalance,
		balanceStep:     1000,
		projections:     fence.New[model.Projection](),
		needSetup:       !config.Exists(),
		setupVals:       newSetupValues(cfg, opts.DataDir),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
		openStore:       storeOpen,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataDir, a.noCache, a.openStore, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute rebuilds every derived view of the events for the current range
// and mode.
func (a *App) recompute() {
	a.stats = pipeline.Summarize(a.events, a.start, a.end, a.mode)
	a.heatmap = pipeline.BuildHeatmap(a.events, a.start, a.end, a.mode)
	a.weekHour = pipeline.WeekdayHourGrid(pipeline.FilterRange(a.events, a.start, a.end), a.mode)
	a.breakdown, _ = pipeline.AggregatePaymentBreakdown(pipeline.PaymentsFromEvents(a.events))
}

// requestProjection issues a new fenced projection for the current delay
// and balance.
func (a *App) requestProjection() tea.Cmd {
	tok := a.projections.Begin(projectionKey)
	events, delay, balance := a.events, a.delay, a.balance
	return func() tea.Msg {
		return projectionMsg{
			token:      tok,
			projection: pipeline.ProjectPayments("", events, delay, balance),
		}
	}
}

func (a *App) setFlash(s string) {
	a.flash = s
	a.flashUntil = time.Now().Add(flashDuration)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabSaved && a.savedCursor > 0 {
				a.savedCursor--
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabSaved && a.savedCursor < len(a.scenarios)-1 {
				a.savedCursor++
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 && msg.Action == tea.MouseActionPress {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		a.applyData(msg.Data)
		cmds := []tea.Cmd{a.requestProjection(), loadScenariosCmd(a.openStore)}

		if a.needSetup {
			a.setupVals = newSetupValues(loadConfigOrDefault(), a.dataDir)
			a.setupForm = newSetupForm(len(a.events), a.dataDir, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			cmds = append(cmds, a.setupForm.Init())
		}
		return a, tea.Batch(cmds...)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		if a.flash != "" && time.Now().After(a.flashUntil) {
			a.flash = ""
		}
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.dataDir, a.noCache, a.openStore))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Data.Err != nil {
			a.setFlash("refresh failed: " + msg.Data.Err.Error())
			return a, nil
		}
		a.loadTime = msg.LoadTime
		a.applyData(msg.Data)
		return a, a.requestProjection()

	case projectionMsg:
		// A false return means a newer request superseded this one.
		a.projections.Resolve(projectionKey, msg.token, msg.projection, nil)
		return a, nil

	case scenariosMsg:
		if msg.err != nil {
			a.setFlash("scenarios unavailable: " + msg.err.Error())
			return a, nil
		}
		a.scenarios = msg.list
		a.savedCursor = max(0, min(a.savedCursor, len(a.scenarios)-1))
		return a, nil

	case scenarioSavedMsg:
		if msg.err != nil {
			a.setFlash("save failed: " + msg.err.Error())
			return a, nil
		}
		a.setFlash("saved " + msg.saved.Name)
		return a, loadScenariosCmd(a.openStore)

	case scenarioDeletedMsg:
		if msg.err != nil {
			a.setFlash("delete failed: " + msg.err.Error())
			return a, nil
		}
		a.setFlash("deleted")
		return a, loadScenariosCmd(a.openStore)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) applyData(d loadedData) {
	a.loadErr = d.Err
	if d.Err != nil {
		return
	}
	a.events = pipeline.FilterVendors(d.Events, a.vendors)
	a.files = d.Files
	a.parseErrors = d.ParseErrors
	a.recompute()
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabCalendar, tabWeekly:
		if next, cmd, ok := a.updateRangeKeys(key); ok {
			return next, cmd
		}
	case tabProjection:
		if next, cmd, ok := a.updateProjectionKeys(key); ok {
			return next, cmd
		}
	case tabSaved:
		if next, cmd, ok := a.updateSavedKeys(key); ok {
			return next, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dataDir, a.noCache, a.openStore)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// updateRangeKeys handles keys shared by the calendar and weekly tabs.
func (a App) updateRangeKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "[":
		a.start, a.end = shiftYears(a.start, -1), shiftYears(a.end, -1)
	case "]":
		a.start, a.end = shiftYears(a.start, 1), shiftYears(a.end, 1)
	case "m":
		if a.mode == model.ModeSum {
			a.mode = model.ModeCount
		} else {
			a.mode = model.ModeSum
		}
	default:
		return a, nil, false
	}
	a.recompute()
	return a, nil, true
}

func shiftYears(d model.Date, n int) model.Date {
	return model.NewDate(d.Year()+n, d.Month(), d.Day())
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		prevDir := a.dataDir
		if err := a.saveSetupConfig(); err != nil {
			a.setFlash("could not save config: " + err.Error())
		}
		if dir := strings.TrimSpace(a.setupVals.dataDir); dir != "" {
			a.dataDir = dir
		}
		a.needSetup = false
		a.setupForm = nil
		a.recompute()
		if a.dataDir != prevDir {
			a.refreshing = true
			return a, refreshDataCmd(a.dataDir, a.noCache, a.openStore)
		}
		return a, a.requestProjection()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cashcal needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cashcal"))
	b.WriteString(subtitleStyle.Render(" · Claims & Cash Flow"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(20, min(40, a.width-30))
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing files\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Discovering files..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

var helpSections = []struct {
	title    string
	bindings []binding
}{
	{"Navigation", []binding{
		{"c w p v", "Jump to tab"},
		{"tab ⇧tab", "Next / Previous tab"},
		{"[ ]", "Previous / Next year (calendar, weekly)"},
		{"m", "Toggle sum / count"},
	}},
	{"Projection", []binding{
		{"h l", "Delay -1 / +1 day"},
		{"H L", "Delay -7 / +7 days"},
		{"0", "Reset delay"},
		{"+ -", "Adjust starting balance"},
		{"s", "Save scenario"},
	}},
	{"Saved", []binding{
		{"j k", "Move cursor"},
		{"Enter", "Load into projection"},
		{"d", "Delete"},
	}},
	{"General", []binding{
		{"r", "Refresh data"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range helpSections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar, then the range/mode pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	filterStr := pillStyle.Render(" ") +
		pillAccent.Render(a.start.String()+" → "+a.end.String()) +
		pillStyle.Render(" │ ") + pillAccent.Render(a.mode.String()) +
		pillStyle.Render(" │ ") + pillStyle.Render(a.dataDir) +
		pillStyle.Render(" ")
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	// 2. Status bar
	flash := a.flash
	if flash == "" && a.loadErr != nil {
		flash = "load failed: " + a.loadErr.Error()
	}
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Events:      len(a.events),
		Files:       a.files,
		ParseErrors: a.parseErrors,
		DataAge:     fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		Flash:       flash,
	})

	// 3. Content zone height
	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabCalendar:
		content = a.renderCalendarTab(cw)
	case tabWeekly:
		content = a.renderWeeklyTab(cw)
	case tabProjection:
		content = a.renderProjectionTab(cw)
	case tabSaved:
		content = a.renderSavedTab(cw, contentH)
	}

	// 5. Exactly contentH lines, filled to full width with background
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func storeOpen() (*store.Cache, error) {
	return store.Open(pipeline.CachePath())
}

// loadEvents runs the cached load when possible and falls back to a plain
// parse of every file.
func loadEvents(dataDir string, noCache bool, open func() (*store.Cache, error), progressFn pipeline.ProgressFunc) loadedData {
	if !noCache {
		if cache, err := open(); err == nil {
			cr, loadErr := pipeline.LoadWithCache(dataDir, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return loadedData{Events: cr.Events, Files: cr.TotalFiles, ParseErrors: cr.ParseErrors}
			}
		}
	}

	result, err := pipeline.Load(dataDir, progressFn)
	if err != nil {
		return loadedData{Err: err}
	}
	return loadedData{Events: result.Events, Files: result.TotalFiles, ParseErrors: result.ParseErrors}
}

// loadDataCmd starts the load in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(dataDir string, noCache bool, open func() (*store.Cache, error), sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()
			// Non-blocking send so workers aren't stalled; a skipped update
			// is caught up by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			data := loadEvents(dataDir, noCache, open, progressFn)
			sub <- DataLoadedMsg{Data: data, LoadTime: time.Since(start)}
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads events in the background without progress UI.
func refreshDataCmd(dataDir string, noCache bool, open func() (*store.Cache, error)) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		data := loadEvents(dataDir, noCache, open, nil)
		return RefreshDataMsg{Data: data, LoadTime: time.Since(start)}
	}
}

func loadScenariosCmd(open func() (*store.Cache, error)) tea.Cmd {
	return func() tea.Msg {
		cache, err := open()
		if err != nil {
			return scenariosMsg{err: err}
		}
		defer func() { _ = cache.Close() }()
		list, err := cache.ListScenarios()
		return scenariosMsg{list: list, err: err}
	}
}

func saveScenarioCmd(open func() (*store.Cache, error), name string, delay int) tea.Cmd {
	return func() tea.Msg {
		cache, err := open()
		if err != nil {
			return scenarioSavedMsg{err: err}
		}
		defer func() { _ = cache.Close() }()
		saved, err := cache.SaveScenario(name, delay)
		return scenarioSavedMsg{saved: saved, err: err}
	}
}

func deleteScenarioCmd(open func() (*store.Cache, error), id string) tea.Cmd {
	return func() tea.Msg {
		cache, err := open()
		if err != nil {
			return scenarioDeletedMsg{id: id, err: err}
		}
		defer func() { _ = cache.Close() }()
		return scenarioDeletedMsg{id: id, err: cache.DeleteScenario(id)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
