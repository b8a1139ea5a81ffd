package plan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campusplan/studyplan/config"
	"github.com/campusplan/studyplan/core/logger"
	"github.com/campusplan/studyplan/core/metrics"
	"github.com/campusplan/studyplan/core/model"
	"github.com/campusplan/studyplan/core/narrate"
	"github.com/campusplan/studyplan/core/planner"
	"github.com/campusplan/studyplan/core/store"
	"github.com/campusplan/studyplan/internal/eventbus"
)

// Request is the payload for POST /api/plan.
type Request struct {
	UserID    string `json:"userId"`
	StartDate string `json:"startDate"` // ISO date, defaults to today
	Days      int    `json:"days"`      // defaults per config, bounded
	Explain   bool   `json:"explain"`
}

// Response carries the computed plan. Explanation is best-effort: when the
// narrator fails, ExplanationError is set and the plan is returned anyway.
type Response struct {
	UserID           string              `json:"userId"`
	Plan             model.Plan          `json:"plan"`
	Summary          planner.PlanSummary `json:"summary"`
	Explanation      string              `json:"explanation,omitempty"`
	ExplanationError string              `json:"explanationError,omitempty"`
}

type handler struct {
	store    store.Store
	planner  *planner.Planner
	narrator narrate.Narrator
	bus      *eventbus.Bus
	cfg      config.PlannerConfig
	log      logger.Logger
	now      func() time.Time
}

// NewHandler returns an HTTP handler for POST /api/plan. Every generated plan
// is published on the bus for the metrics sinks.
func NewHandler(st store.Store, p *planner.Planner, n narrate.Narrator, bus *eventbus.Bus, cfg config.PlannerConfig, log logger.Logger) http.Handler {
	h := &handler{store: st, planner: p, narrator: n, bus: bus, cfg: cfg, log: log, now: time.Now}
	return http.HandlerFunc(h.generate)
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	if req.Days == 0 {
		req.Days = h.cfg.DefaultHorizonDays
	}
	if req.Days < 1 || req.Days > h.cfg.MaxHorizonDays {
		http.Error(w, fmt.Sprintf("days must be between 1 and %d", h.cfg.MaxHorizonDays), http.StatusBadRequest)
		return
	}

	start := h.now().UTC()
	if req.StartDate != "" {
		var err error
		if start, err = time.Parse("2006-01-02", req.StartDate); err != nil {
			http.Error(w, "startDate must be an ISO date", http.StatusBadRequest)
			return
		}
	}

	began := time.Now()
	avail, err := h.store.GetAvailability(r.Context(), req.UserID)
	if err != nil {
		h.log.Errorf("get availability: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	all, err := h.store.ListTasks(r.Context(), req.UserID)
	if err != nil {
		h.log.Errorf("list tasks: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	// The allocator only ever sees active tasks that still owe time.
	var candidates []model.Task
	for _, t := range all {
		if t.Status == model.StatusActive && t.RemainingMinutes > 0 {
			candidates = append(candidates, t)
		}
	}

	generated := h.planner.Generate(candidates, avail, start, req.Days)
	summary := planner.Summarize(generated)

	resp := Response{UserID: req.UserID, Plan: generated, Summary: summary}
	narrationFailed := false
	if req.Explain {
		text, err := h.narrator.Explain(r.Context(), candidates, generated)
		if err != nil {
			// The plan stands regardless of narration problems.
			narrationFailed = true
			resp.ExplanationError = err.Error()
			h.log.Warnf("narration failed for user %s: %v", req.UserID, err)
		} else {
			resp.Explanation = text
		}
	}

	h.bus.Publish(metrics.PlanEvent{
		UserID:           req.UserID,
		HorizonDays:      req.Days,
		TasksConsidered:  len(candidates),
		Blocks:           summary.TotalBlocks,
		MinutesScheduled: summary.TotalMinutes,
		LoadStddev:       summary.StddevMinutes,
		Narrated:         req.Explain && !narrationFailed,
		NarrationFailed:  narrationFailed,
		Duration:         time.Since(began),
		Time:             time.Now().UTC(),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
