package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/store"
)

// writeCorpus fills dir with files JSONL files of perFile events each, one
// event per hour starting 2024-01-01.
func writeCorpus(tb testing.TB, dir string, files, perFile int) {
	tb.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	for f := 0; f < files; f++ {
		var sb strings.Builder
		for i := 0; i < perFile; i++ {
			ts := start.Add(time.Duration(n) * time.Hour)
			fmt.Fprintf(&sb, `{"date":%q,"value":%d}`+"\n", ts.Format(time.RFC3339), n%500)
			n++
		}
		path := filepath.Join(dir, fmt.Sprintf("events-%03d.jsonl", f))
		if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
			tb.Fatal(err)
		}
	}
}

func syntheticEvents(n int) []model.Event {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := make([]model.Event, n)
	for i := range events {
		events[i] = model.Event{
			Date:  start.Add(time.Duration(i) * 37 * time.Minute).Format(time.RFC3339),
			Value: model.Amount(i % 900),
		}
	}
	return events
}

func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	writeCorpus(b, dir, 32, 500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(dir, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	dir := b.TempDir()
	writeCorpus(b, dir, 32, 500)

	cache, err := store.Open(filepath.Join(b.TempDir(), "cashcal.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadWithCache(dir, cache, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAggregateDayHour(b *testing.B) {
	events := syntheticEvents(50_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(events, model.ModeSum, model.ByDayHour)
	}
}

func BenchmarkBuildHeatmap(b *testing.B) {
	events := syntheticEvents(50_000)
	start := model.NewDate(2024, time.January, 1)
	end := model.NewDate(2024, time.December, 31)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildHeatmap(events, start, end, model.ModeCount)
	}
}
