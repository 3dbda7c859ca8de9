package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/pipeline"
	"github.com/theirongolddev/cashcal/internal/store"
)

// Router returns the HTTP routes served by the daemon.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	v1.HandleFunc("/heatmap", s.handleHeatmap).Methods(http.MethodGet)
	v1.HandleFunc("/hourly", s.handleHourly).Methods(http.MethodGet)
	v1.HandleFunc("/periods", s.handlePeriods).Methods(http.MethodGet)
	v1.HandleFunc("/scenario", s.handleScenario).Methods(http.MethodGet)
	v1.HandleFunc("/scenarios", s.handleListScenarios).Methods(http.MethodGet)
	v1.HandleFunc("/scenarios", s.handleSaveScenario).Methods(http.MethodPost)
	v1.HandleFunc("/scenarios/{id}", s.handleGetScenario).Methods(http.MethodGet)
	v1.HandleFunc("/scenarios/{id}", s.handleDeleteScenario).Methods(http.MethodDelete)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)

	return r
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"remote":  r.RemoteAddr,
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	go s.pollOnce()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := queryMode(q.Get("mode"), s.cfg.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := queryRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	start, end = pipeline.DefaultRange(start, end, time.Now())
	if err := pipeline.CheckRange(start, end); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, pipeline.BuildHeatmap(s.vendorEvents(q), start, end, mode))
}

func (s *Service) handleHourly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := queryMode(q.Get("mode"), model.ModeCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := queryRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events := pipeline.FilterRange(s.vendorEvents(q), start, end)
	writeJSON(w, http.StatusOK, pipeline.WeekdayHourGrid(events, mode))
}

func (s *Service) handlePeriods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := queryMode(q.Get("mode"), s.cfg.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	period, err := model.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := queryRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events := pipeline.FilterRange(s.vendorEvents(q), start, end)
	writeJSON(w, http.StatusOK, pipeline.RollupPeriods(events, mode, period))
}

func (s *Service) handleScenario(w http.ResponseWriter, r *http.Request) {
	p, err := s.projectFromQuery(r, r.URL.Query().Get("name"), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// projectFromQuery builds a projection using delay, balance, from and to
// query parameters. A non-nil delay overrides the query.
func (s *Service) projectFromQuery(r *http.Request, name string, delay *int) (model.Projection, error) {
	q := r.URL.Query()

	days := s.cfg.DelayDays
	if delay != nil {
		days = *delay
	} else if v := q.Get("delay"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.Projection{}, fmt.Errorf("invalid delay %q", v)
		}
		days = n
	}

	balance := s.cfg.StartingBalance
	if v := q.Get("balance"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.Projection{}, fmt.Errorf("invalid balance %q", v)
		}
		balance = f
	}

	start, end, err := queryRange(q.Get("from"), q.Get("to"))
	if err != nil {
		return model.Projection{}, err
	}

	events := pipeline.FilterRange(s.vendorEvents(q), start, end)
	return pipeline.ProjectPayments(name, events, days, balance), nil
}

type saveScenarioRequest struct {
	Name      string `json:"name"`
	DelayDays int    `json:"delay_days"`
}

type savedScenarioResponse struct {
	Saved      model.SavedScenario `json:"saved"`
	Projection model.Projection    `json:"projection"`
}

func (s *Service) handleListScenarios(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scenario store disabled"))
		return
	}
	list, err := s.cfg.Scenarios.ListScenarios()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []model.SavedScenario{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Service) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scenario store disabled"))
		return
	}

	var req saveScenarioRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = model.DefaultScenarioName(model.ClampDelay(req.DelayDays))
	}

	saved, err := s.cfg.Scenarios.SaveScenario(req.Name, req.DelayDays)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.WithFields(logrus.Fields{"id": saved.ID, "delay_days": saved.DelayDays}).Info("scenario saved")
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Service) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scenario store disabled"))
		return
	}
	saved, err := s.cfg.Scenarios.GetScenario(mux.Vars(r)["id"])
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	p, err := s.projectFromQuery(r, saved.Name, &saved.DelayDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, savedScenarioResponse{Saved: saved, Projection: p})
}

func (s *Service) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Scenarios == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scenario store disabled"))
		return
	}
	if err := s.cfg.Scenarios.DeleteScenario(mux.Vars(r)["id"]); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrNameRequired):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.log.WithError(err).Error("scenario store")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func queryMode(v string, def model.Mode) (model.Mode, error) {
	if v == "" {
		return def, nil
	}
	return model.ParseMode(v)
}

// vendorEvents applies the optional comma-separated vendor parameter.
func (s *Service) vendorEvents(q url.Values) []model.Event {
	return pipeline.FilterVendors(s.currentEvents(), pipeline.ParseVendors(q.Get("vendor")))
}

func queryRange(from, to string) (model.Date, model.Date, error) {
	var start, end model.Date
	var err error
	if from != "" {
		if start, err = model.ParseDate(from); err != nil {
			return start, end, err
		}
	}
	if to != "" {
		if end, err = model.ParseDate(to); err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
