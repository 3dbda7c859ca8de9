package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/cashcal/internal/config"
	"github.com/theirongolddev/cashcal/internal/fence"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/store"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	if err := config.Save(config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		t.Fatal(err)
	}

	a := NewApp(Options{
		DataDir:         dataDir,
		From:            model.MustDate("2024-01-01"),
		To:              model.MustDate("2024-12-31"),
		StartingBalance: 1000,
	})
	dbPath := filepath.Join(root, "scenarios.db")
	a.openStore = func() (*store.Cache, error) { return store.Open(dbPath) }
	return a
}

func sampleData() loadedData {
	return loadedData{
		Events: []model.Event{
			{Date: "2024-01-01T09:00:00", Value: 100},
			{Date: "2024-01-02T09:00:00", Value: 100, Priority: true},
			{Date: "2024-01-03", Value: 100},
			{Date: "not a date", Value: 5},
		},
		Files: 2,
	}
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return next, cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedApp(t *testing.T) App {
	t.Helper()
	a := newTestApp(t)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 140, Height: 45})
	a, _ = update(t, a, DataLoadedMsg{Data: sampleData()})
	return a
}

func TestDataLoadedBuildsViews(t *testing.T) {
	a := loadedApp(t)

	if !a.loaded {
		t.Fatal("app not marked loaded")
	}
	if a.needSetup {
		t.Error("setup should be skipped when a config exists")
	}
	if a.stats.Events != 3 || a.stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 3 events and 1 skipped", a.stats)
	}
	if a.heatmap.Total != 300 || a.heatmap.Max != 100 {
		t.Errorf("heatmap total=%v max=%v", a.heatmap.Total, a.heatmap.Max)
	}
	if a.weekHour.Max != 100 {
		t.Errorf("weekHour.Max = %v, want 100", a.weekHour.Max)
	}
	if a.breakdown.PriorityTotal != 100 || a.breakdown.DeferrableTotal != 200 {
		t.Errorf("breakdown = %+v", a.breakdown)
	}
}

func TestVendorOptionFiltersEvents(t *testing.T) {
	a := newTestApp(t)
	a.vendors = []string{"ACME"}
	data := sampleData()
	data.Events[2].Vendor = "acme"

	a, _ = update(t, a, tea.WindowSizeMsg{Width: 140, Height: 45})
	a, _ = update(t, a, DataLoadedMsg{Data: data})

	if a.stats.Events != 1 || a.heatmap.Total != 100 {
		t.Errorf("stats = %+v, heatmap total = %v; want only the acme event", a.stats, a.heatmap.Total)
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)

	tests := []struct {
		key  string
		want int
	}{
		{"p", tabProjection},
		{"v", tabSaved},
		{"w", tabWeekly},
		{"c", tabCalendar},
	}
	for _, tt := range tests {
		a, _ = update(t, a, keyMsg(tt.key))
		if a.activeTab != tt.want {
			t.Errorf("key %q: activeTab = %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.activeTab != tabWeekly {
		t.Errorf("tab: activeTab = %d, want %d", a.activeTab, tabWeekly)
	}
}

func TestRangeKeysShiftYearAndMode(t *testing.T) {
	a := loadedApp(t)

	a, _ = update(t, a, keyMsg("]"))
	if a.start != model.MustDate("2025-01-01") || a.end != model.MustDate("2025-12-31") {
		t.Errorf("range after ] = %s..%s", a.start, a.end)
	}
	if a.heatmap.Total != 0 {
		t.Errorf("2025 heatmap total = %v, want 0", a.heatmap.Total)
	}

	a, _ = update(t, a, keyMsg("["))
	a, _ = update(t, a, keyMsg("m"))
	if a.mode != model.ModeCount {
		t.Fatalf("mode = %v, want count", a.mode)
	}
	if a.heatmap.Total != 3 {
		t.Errorf("count heatmap total = %v, want 3", a.heatmap.Total)
	}
}

func TestProjectionIgnoresStaleResults(t *testing.T) {
	a := loadedApp(t)
	a, _ = update(t, a, keyMsg("p"))

	a, first := update(t, a, keyMsg("l"))
	a, second := update(t, a, keyMsg("l"))
	if a.delay != 2 {
		t.Fatalf("delay = %d, want 2", a.delay)
	}

	// Deliver out of order: the newer result lands first.
	a, _ = update(t, a, second())
	a, _ = update(t, a, first())

	st := a.projections.Get(projectionKey)
	if st.Status != fence.Success {
		t.Fatalf("status = %v, want success", st.Status)
	}
	if st.Value.Scenario.DelayDays != 2 {
		t.Errorf("applied delay = %d, want 2", st.Value.Scenario.DelayDays)
	}
}

func TestProjectionKeysClampAndBalance(t *testing.T) {
	a := loadedApp(t)
	a, _ = update(t, a, keyMsg("p"))

	for i := 0; i < 6; i++ {
		a, _ = update(t, a, keyMsg("L"))
	}
	if a.delay != model.MaxDelayDays {
		t.Errorf("delay = %d, want %d", a.delay, model.MaxDelayDays)
	}
	a, _ = update(t, a, keyMsg("0"))
	if a.delay != 0 {
		t.Errorf("delay after reset = %d", a.delay)
	}

	a, _ = update(t, a, keyMsg("+"))
	if a.balance != 2000 {
		t.Errorf("balance = %v, want 2000", a.balance)
	}
	a, _ = update(t, a, keyMsg("-"))
	a, _ = update(t, a, keyMsg("-"))
	a, _ = update(t, a, keyMsg("-"))
	if a.balance != 0 {
		t.Errorf("balance = %v, want 0 (never negative)", a.balance)
	}
}

func TestSaveListLoadDeleteScenario(t *testing.T) {
	a := loadedApp(t)
	a, _ = update(t, a, keyMsg("p"))
	a, _ = update(t, a, keyMsg("H"))

	a, save := update(t, a, keyMsg("s"))
	if save == nil {
		t.Fatal("s should return a save command")
	}
	a, list := update(t, a, save())
	if !strings.HasPrefix(a.flash, "saved") {
		t.Errorf("flash = %q", a.flash)
	}
	a, _ = update(t, a, list())
	if len(a.scenarios) != 1 || a.scenarios[0].DelayDays != -7 {
		t.Fatalf("scenarios = %+v", a.scenarios)
	}
	if a.scenarios[0].Name != model.DefaultScenarioName(-7) {
		t.Errorf("name = %q", a.scenarios[0].Name)
	}

	a, _ = update(t, a, keyMsg("0"))
	a, _ = update(t, a, keyMsg("v"))
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.delay != -7 || a.activeTab != tabProjection {
		t.Errorf("after load: delay=%d tab=%d", a.delay, a.activeTab)
	}

	a, _ = update(t, a, keyMsg("v"))
	a, del := update(t, a, keyMsg("d"))
	a, list = update(t, a, del())
	a, _ = update(t, a, list())
	if len(a.scenarios) != 0 {
		t.Errorf("scenarios after delete = %+v", a.scenarios)
	}
}

func TestRefreshFailureKeepsData(t *testing.T) {
	a := loadedApp(t)
	a.refreshing = true

	a, _ = update(t, a, RefreshDataMsg{Data: loadedData{Err: os.ErrNotExist}})
	if a.refreshing {
		t.Error("refreshing flag not cleared")
	}
	if len(a.events) != 4 {
		t.Errorf("events = %d, want previous 4", len(a.events))
	}
	if !strings.Contains(a.flash, "refresh failed") {
		t.Errorf("flash = %q", a.flash)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	for _, key := range []string{"c", "w", "p", "v"} {
		a, _ = update(t, a, keyMsg(key))
		out := a.View()
		if !strings.Contains(out, "alendar") {
			t.Errorf("tab %q: tab bar missing", key)
		}
		if lines := strings.Count(out, "\n") + 1; lines != 45 {
			t.Errorf("tab %q: %d lines, want 45", key, lines)
		}
	}

	a, _ = update(t, a, keyMsg("?"))
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not shown")
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("expected narrow terminal message")
	}
}
