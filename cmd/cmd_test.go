package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/cashcal/internal/model"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x:1", "--detach=true"})
	want := []string{"daemon", "--addr", "x:1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDAndStateFiles(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "cashcald.pid")

	if _, err := readPID(pidFile); !os.IsNotExist(err) {
		t.Fatalf("readPID on missing file err = %v", err)
	}
	if err := ensureDaemonNotRunning(pidFile); err != nil {
		t.Fatalf("ensureDaemonNotRunning with no pid file: %v", err)
	}

	if err := writePID(pidFile, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(pidFile)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}

	st := daemonRuntimeState{
		PID:       4242,
		Addr:      "127.0.0.1:9999",
		StartedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		DataDir:   "/data",
		Mode:      "count",
	}
	if err := writeState(statePath(pidFile), st); err != nil {
		t.Fatal(err)
	}
	got, err := readState(statePath(pidFile))
	if err != nil {
		t.Fatal(err)
	}
	if !got.StartedAt.Equal(st.StartedAt) || got.Addr != st.Addr || got.Mode != "count" {
		t.Errorf("readState = %+v, want %+v", got, st)
	}

	if err := os.WriteFile(pidFile, []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(pidFile); err == nil {
		t.Error("readPID should reject a non-numeric pid")
	}
}

func TestResolveRange(t *testing.T) {
	defer func() { flagFrom, flagTo = "", "" }()

	flagFrom, flagTo = "2024-03-01", ""
	start, end, err := resolveRange()
	if err != nil {
		t.Fatal(err)
	}
	if start != model.MustDate("2024-03-01") || end != model.MustDate("2024-12-31") {
		t.Errorf("range = %s..%s", start, end)
	}

	flagFrom, flagTo = "2024-03-01", "2024-02-01"
	if _, _, err := resolveRange(); err == nil {
		t.Error("expected error for end before start")
	}

	flagFrom, flagTo = "03/01/2024", ""
	if _, _, err := resolveRange(); err == nil {
		t.Error("expected error for malformed --from")
	}
}

func TestResolveModeFallsBackToConfig(t *testing.T) {
	defer func() { flagMode = "" }()

	appConfig.General.DefaultMode = "count"
	defer func() { appConfig.General.DefaultMode = "sum" }()

	flagMode = ""
	if m, err := resolveMode(); err != nil || m != model.ModeCount {
		t.Errorf("resolveMode() = %v, %v; want count", m, err)
	}
	flagMode = "sum"
	if m, err := resolveMode(); err != nil || m != model.ModeSum {
		t.Errorf("resolveMode() = %v, %v; want sum", m, err)
	}
	flagMode = "avg"
	if _, err := resolveMode(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestProjectBaselineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.csv")
	csv := "date,total\n2024-01-01,100\n2024-01-02,100\n2024-01-03,100\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := projectBaselineFile(path, 2, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if p.Scenario.Name != model.DefaultScenarioName(2) {
		t.Errorf("name = %q", p.Scenario.Name)
	}
	if got := p.Scenario.Scenario[0].Date; got != model.MustDate("2024-01-03") {
		t.Errorf("first scenario date = %s, want 2024-01-03", got)
	}
	m := p.Metrics
	if m.CashDip != 0 || m.BurnRate != 100 || m.DaysToZero != 10 || m.RunwayUnknown {
		t.Errorf("metrics = %+v", m)
	}
	if len(p.Walk) != 5 {
		t.Errorf("walk has %d points, want 5", len(p.Walk))
	}

	if _, err := projectBaselineFile(filepath.Join(t.TempDir(), "missing.csv"), 0, 0); err == nil {
		t.Error("expected error for missing baseline file")
	}
}

func TestScopeEvents(t *testing.T) {
	defer func() { flagFrom, flagTo = "", "" }()

	events := []model.Event{
		{Date: "2024-01-01", Value: 100},
		{Date: "2024-01-02T10:00:00", Value: 100},
		{Date: "2024-01-03", Value: 100},
		{Date: "bad", Value: 5},
	}

	got, err := scopeEvents(events)
	if err != nil || len(got) != len(events) {
		t.Fatalf("no flags: got %d events, err %v; want all %d", len(got), err, len(events))
	}

	flagFrom, flagTo = "2024-01-02", ""
	got, err = scopeEvents(events)
	if err != nil || len(got) != 2 {
		t.Errorf("--from: got %d events, err %v; want 2", len(got), err)
	}

	flagFrom, flagTo = "", "2024-01-01"
	got, err = scopeEvents(events)
	if err != nil || len(got) != 1 {
		t.Errorf("--to: got %d events, err %v; want 1", len(got), err)
	}

	flagFrom, flagTo = "2024-01-03", "2024-01-01"
	if _, err := scopeEvents(events); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestProjectBaselineFileHonoursRange(t *testing.T) {
	defer func() { flagFrom, flagTo = "", "" }()

	path := filepath.Join(t.TempDir(), "baseline.csv")
	csv := "date,total\n2024-01-01,100\n2024-01-02,100\n2024-01-03,100\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	flagFrom = "2024-01-02"
	p, err := projectBaselineFile(path, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Scenario.Baseline) != 2 || p.Scenario.Baseline[0].Date != model.MustDate("2024-01-02") {
		t.Errorf("baseline = %+v, want 2 points from 2024-01-02", p.Scenario.Baseline)
	}
}
