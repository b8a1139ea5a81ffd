package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campusplan/studyplan/api/availability"
	"github.com/campusplan/studyplan/api/plan"
	"github.com/campusplan/studyplan/api/tasks"
	"github.com/campusplan/studyplan/config"
	coremetrics "github.com/campusplan/studyplan/core/metrics"
	"github.com/campusplan/studyplan/core/narrate"
	"github.com/campusplan/studyplan/core/planner"
	corestore "github.com/campusplan/studyplan/core/store"
	"github.com/campusplan/studyplan/infra/logger"
	"github.com/campusplan/studyplan/infra/metrics"
	infranarrate "github.com/campusplan/studyplan/infra/narrate"
	"github.com/campusplan/studyplan/infra/store"
	"github.com/campusplan/studyplan/internal/eventbus"
)

// Service wires the store, planner, narrator and metrics sinks behind the
// HTTP API.
type Service struct {
	cfg   *config.Config
	store corestore.Store
	bus   *eventbus.Bus
	sink  coremetrics.PlanSink
	srv   *http.Server
	log   logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var sinks []coremetrics.PlanSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.PlanSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var narrator narrate.Narrator = infranarrate.NewGeminiNarrator(
		cfg.Narrator.APIKey, cfg.Narrator.Model,
		time.Duration(cfg.Narrator.TimeoutSeconds)*time.Second)

	bus := eventbus.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	taskHandler := tasks.NewHandler(st, logger.New("api-tasks"))
	mux.Handle("/api/tasks", taskHandler)
	mux.Handle("/api/tasks/", taskHandler)
	mux.Handle("/api/availability", availability.NewHandler(st, logger.New("api-availability")))
	mux.Handle("/api/plan", plan.NewHandler(st, planner.New(), narrator, bus,
		cfg.Planner, logger.New("api-plan")))

	return &Service{
		cfg:   cfg,
		store: st,
		bus:   bus,
		sink:  sink,
		srv:   &http.Server{Addr: cfg.Server.Addr, Handler: mux},
		log:   logg,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	events := s.bus.Subscribe()
	go func() {
		for ev := range events {
			if err := s.sink.RecordPlan(ev); err != nil {
				s.log.Errorf("record plan: %v", err)
			}
		}
	}()

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()

	s.log.Infof("listening on %s", s.cfg.Server.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.store.Close()
}
