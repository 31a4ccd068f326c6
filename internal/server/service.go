// Package server exposes one aggregation set over a read-only HTTP JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/powerlytics/internal/export"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
)

// Config configures the API service.
type Config struct {
	Addr   string
	Source string // description of the loaded data, shown in status
	Table  *model.ReadingTable
	Set    *model.AggregationSet
	Logger *log.Logger
}

// Service serves rollups, profiles and summaries. The data it holds is
// built once up front and only read afterwards, so handlers need no locking.
type Service struct {
	cfg       Config
	startedAt time.Time
	summary   summaryDoc
	log       *log.Logger
}

// New returns a service over the provided data.
func New(cfg Config) (*Service, error) {
	if cfg.Table == nil || cfg.Set == nil {
		return nil, errors.New("server: reading table and aggregation set are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		summary:   newSummaryDoc(cfg.Source, cfg.Table, cfg.Set),
		log:       logger,
	}, nil
}

// Handler returns the API router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/summary", s.handleSummary)
		v1.Get("/rollups", s.handleRollupIndex)
		v1.Get("/rollups/{granularity}", s.handleRollup)
		v1.Get("/profiles/{kind}", s.handleProfile)
	})
	return r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("serving", "addr", s.cfg.Addr, "readings", s.cfg.Table.Len())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api http server: %w", err)
	}
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	doc := s.summary
	doc.UptimeSec = int64(time.Since(s.startedAt).Seconds())
	writeJSON(w, http.StatusOK, doc)
}

func (s *Service) handleRollupIndex(w http.ResponseWriter, _ *http.Request) {
	var names []string
	for _, g := range s.cfg.Set.Granularities() {
		names = append(names, string(g))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"granularities": names})
}

func (s *Service) handleRollup(w http.ResponseWriter, r *http.Request) {
	g, err := pipeline.ParseGranularity(chi.URLParam(r, "granularity"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	t, ok := s.cfg.Set.Get(g)
	if !ok {
		s.writeError(w, fmt.Errorf("%w: %s", pipeline.ErrMissingDependency, g))
		return
	}
	if !rng.IsZero() {
		if t, err = pipeline.FilterRollup(t, rng); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, export.NewRollupDoc(t))
}

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	kind, err := parseProfileKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	years, err := parseYears(r.URL.Query().Get("years"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	p, err := pipeline.ComputeProfile(s.cfg.Set, kind, pipeline.ProfileFilter{Range: rng, Years: years})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export.NewProfileDoc(p))
}

// badRequest marks errors caused by malformed query input.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func parseRange(r *http.Request) (model.DateRange, error) {
	q := r.URL.Query()
	rng, err := model.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return model.DateRange{}, badRequest{err}
	}
	return rng, nil
}

// parseYears reads a comma-separated year list such as "2023,2024".
func parseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, badRequest{fmt.Errorf("invalid year %q", part)}
		}
		years = append(years, y)
	}
	return years, nil
}

func parseProfileKind(raw string) (model.ProfileKind, error) {
	switch strings.ReplaceAll(strings.ToLower(raw), "-", "_") {
	case string(model.HourOfDay), "hod":
		return model.HourOfDay, nil
	case string(model.DayOfWeekKind), "dow":
		return model.DayOfWeekKind, nil
	}
	return "", fmt.Errorf("%w: profile %q", pipeline.ErrUnsupportedGranularity, raw)
}

type errorDoc struct {
	Error string `json:"error"`
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var br badRequest
	switch {
	case errors.As(err, &br), errors.Is(err, pipeline.ErrUnsupportedGranularity):
		status = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrEmptyResult):
		status = http.StatusNotFound
	default:
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorDoc{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
