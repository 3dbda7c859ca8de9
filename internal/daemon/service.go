// Package daemon provides the long-running background service that reloads
// event files and serves heatmaps and cash-flow scenarios over HTTP.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashcal/internal/fence"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/store"
)

// ScenarioStore persists named scenarios. *store.Cache implements it.
type ScenarioStore interface {
	SaveScenario(name string, delayDays int) (model.SavedScenario, error)
	ListScenarios() ([]model.SavedScenario, error)
	GetScenario(id string) (model.SavedScenario, error)
	DeleteScenario(id string) error
}

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir         string
	Mode            model.Mode
	StartingBalance float64
	DelayDays       int
	Interval        time.Duration
	Addr            string
	EventsBuffer    int

	// Cache enables incremental loading; nil reparses every poll.
	Cache *store.Cache
	// Scenarios backs the /v1/scenarios endpoints; nil disables them.
	Scenarios ScenarioStore
	Logger    *logrus.Logger
}

// Snapshot is a compact data state for status/event payloads.
type Snapshot struct {
	At          time.Time  `json:"at"`
	Files       int        `json:"files"`
	Events      int        `json:"events"`
	Skipped     int        `json:"skipped"`
	ParseErrors int        `json:"parse_errors"`
	Total       float64    `json:"total"`
	ActiveDays  int        `json:"active_days"`
	PerDay      float64    `json:"per_day"`
	First       model.Date `json:"first"`
	Last        model.Date `json:"last"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Files  int     `json:"files"`
	Events int     `json:"events"`
	Total  float64 `json:"total"`
}

func (d Delta) isZero() bool {
	return d.Files == 0 && d.Events == 0 && d.Total == 0
}

// Event is emitted whenever the loaded data changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	StalePolls      int64     `json:"stale_polls"`
	DataDir         string    `json:"data_dir"`
	Mode            string    `json:"mode"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

type pollResult struct {
	events []model.Event
	snap   Snapshot
}

const pollKey = "poll"

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg   Config
	log   *logrus.Logger
	polls *fence.Tracker[pollResult]

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	stalePolls  int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	data        []model.Event
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event

	// load is swapped in tests.
	load func() (*pipeline.LoadResult, error)
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	s := &Service{
		cfg:       cfg,
		log:       cfg.Logger,
		polls:     fence.New[pollResult](),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.load = s.loadEvents
	return s
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("daemon listening")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("daemon shutting down")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce reloads events and publishes a change event when totals moved.
// Polls can overlap (ticker plus /v1/refresh); only the newest one applies.
func (s *Service) pollOnce() {
	tok := s.polls.Begin(pollKey)
	start := time.Now()

	result, err := s.load()
	var pr pollResult
	if err == nil {
		stats := pipeline.Summarize(result.Events, model.Date{}, model.Date{}, s.cfg.Mode)
		pr = pollResult{
			events: result.Events,
			snap:   snapshotFromSummary(stats, result, time.Now()),
		}
	}

	// s.mu is held across Resolve so a newer poll cannot apply between the
	// fence check and the state write.
	s.mu.Lock()
	if !s.polls.Resolve(pollKey, tok, pr, err) {
		s.stalePolls++
		s.mu.Unlock()
		s.log.Debug("discarding superseded poll")
		return
	}

	now := time.Now()
	if err != nil {
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("poll failed")
		return
	}

	var (
		ev      Event
		publish bool
	)

	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = pr.snap
	s.data = pr.events
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: pr.snap}
		publish = true
	} else if delta := diffSnapshots(prev, pr.snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "data_delta", Timestamp: now, Snapshot: pr.snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"events":  pr.snap.Events,
		"files":   pr.snap.Files,
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("poll complete")

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) loadEvents() (*pipeline.LoadResult, error) {
	if s.cfg.Cache != nil {
		cr, err := pipeline.LoadWithCache(s.cfg.DataDir, s.cfg.Cache, nil)
		if err == nil {
			return &cr.LoadResult, nil
		}
		s.log.WithError(err).Warn("cached load failed, reparsing")
	}
	return pipeline.Load(s.cfg.DataDir, nil)
}

func snapshotFromSummary(stats model.SummaryStats, result *pipeline.LoadResult, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Files:       result.ParsedFiles,
		Events:      stats.Events,
		Skipped:     stats.Skipped,
		ParseErrors: result.ParseErrors,
		Total:       stats.Total,
		ActiveDays:  stats.ActiveDays,
		PerDay:      stats.PerDay,
		First:       stats.First,
		Last:        stats.Last,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Files:  curr.Files - prev.Files,
		Events: curr.Events - prev.Events,
		Total:  curr.Total - prev.Total,
	}
}

// currentEvents returns the events of the last applied poll. The slice is
// replaced, never mutated, so callers may read it without the lock.
func (s *Service) currentEvents() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		StalePolls:      s.stalePolls,
		DataDir:         s.cfg.DataDir,
		Mode:            s.cfg.Mode.String(),
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
