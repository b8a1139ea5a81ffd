package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusplan/studyplan/core/logger"
	"github.com/campusplan/studyplan/core/model"
	"github.com/campusplan/studyplan/core/store"
)

// CreateRequest is the payload for POST /api/tasks.
type CreateRequest struct {
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Course     string    `json:"course"`
	DueAt      time.Time `json:"dueAt"`
	EstMinutes int       `json:"estMinutes"`
	Difficulty int       `json:"difficulty"`
	TaskType   string    `json:"taskType"`
}

// UpdateRequest is the payload for PATCH /api/tasks/{id}. Absent fields are
// left untouched.
type UpdateRequest struct {
	Title            *string    `json:"title"`
	Course           *string    `json:"course"`
	DueAt            *time.Time `json:"dueAt"`
	EstMinutes       *int       `json:"estMinutes"`
	RemainingMinutes *int       `json:"remainingMinutes"`
	Difficulty       *int       `json:"difficulty"`
	TaskType         *string    `json:"taskType"`
	Status           *string    `json:"status"`
}

type handler struct {
	store store.Store
	log   logger.Logger
}

// NewHandler returns an HTTP handler for the task collection under
// /api/tasks and /api/tasks/{id}.
func NewHandler(st store.Store, log logger.Logger) http.Handler {
	h := &handler{store: st, log: log}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tasks"), "/")
		switch {
		case id == "" && r.Method == http.MethodPost:
			h.create(w, r)
		case id == "" && r.Method == http.MethodGet:
			h.list(w, r)
		case id != "" && r.Method == http.MethodPatch:
			h.update(w, r, id)
		case id != "" && r.Method == http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := validateCreate(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Difficulty == 0 {
		req.Difficulty = 3
	}
	if req.TaskType == "" {
		req.TaskType = string(model.TaskAssignment)
	}

	t := model.Task{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		Title:            req.Title,
		Course:           req.Course,
		DueAt:            req.DueAt.UTC(),
		EstMinutes:       req.EstMinutes,
		RemainingMinutes: req.EstMinutes,
		Difficulty:       req.Difficulty,
		Type:             model.TaskType(req.TaskType),
		Status:           model.StatusActive,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
	if err := h.store.CreateTask(r.Context(), t); err != nil {
		h.log.Errorf("create task: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	ts, err := h.store.ListTasks(r.Context(), userID)
	if err != nil {
		h.log.Errorf("list tasks: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if ts == nil {
		ts = []model.Task{}
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	t, err := h.store.GetTask(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Errorf("get task: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	if err := applyUpdate(&t, req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateTask(r.Context(), t); err != nil {
		h.log.Errorf("update task: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.DeleteTask(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Errorf("delete task: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func validateCreate(req CreateRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if req.Title == "" {
		return fmt.Errorf("title is required")
	}
	if req.DueAt.IsZero() {
		return fmt.Errorf("dueAt is required")
	}
	if req.EstMinutes < 1 {
		return fmt.Errorf("estMinutes must be at least 1")
	}
	if req.Difficulty != 0 && (req.Difficulty < 1 || req.Difficulty > 5) {
		return fmt.Errorf("difficulty must be between 1 and 5")
	}
	if req.TaskType != "" && !model.ValidTaskType(req.TaskType) {
		return fmt.Errorf("unknown task type %q", req.TaskType)
	}
	return nil
}

func applyUpdate(t *model.Task, req UpdateRequest) error {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Course != nil {
		t.Course = *req.Course
	}
	if req.DueAt != nil {
		t.DueAt = req.DueAt.UTC()
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > 5 {
			return fmt.Errorf("difficulty must be between 1 and 5")
		}
		t.Difficulty = *req.Difficulty
	}
	if req.TaskType != nil {
		if !model.ValidTaskType(*req.TaskType) {
			return fmt.Errorf("unknown task type %q", *req.TaskType)
		}
		t.Type = model.TaskType(*req.TaskType)
	}
	if req.Status != nil {
		if s := model.TaskStatus(*req.Status); s != model.StatusActive && s != model.StatusDone {
			return fmt.Errorf("unknown status %q", *req.Status)
		}
		t.Status = model.TaskStatus(*req.Status)
	}
	if req.EstMinutes != nil {
		if *req.EstMinutes < 1 {
			return fmt.Errorf("estMinutes must be at least 1")
		}
		t.EstMinutes = *req.EstMinutes
	}
	if req.RemainingMinutes != nil {
		if *req.RemainingMinutes < 0 {
			return fmt.Errorf("remainingMinutes must not be negative")
		}
		t.RemainingMinutes = *req.RemainingMinutes
	} else if req.EstMinutes != nil && t.RemainingMinutes > t.EstMinutes {
		// Shrinking the estimate never grows remaining work the user
		// already logged time against.
		t.RemainingMinutes = t.EstMinutes
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
