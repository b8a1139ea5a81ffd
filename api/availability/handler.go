package availability

import (
	"encoding/json"
	"net/http"

	"github.com/campusplan/studyplan/core/logger"
	"github.com/campusplan/studyplan/core/model"
	"github.com/campusplan/studyplan/core/store"
)

type handler struct {
	store store.Store
	log   logger.Logger
}

// NewHandler returns an HTTP handler for /api/availability. PUT stores a
// user's daily budgets, GET returns them (or the defaults when unset).
func NewHandler(st store.Store, log logger.Logger) http.Handler {
	h := &handler{store: st, log: log}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.upsert(w, r)
		case http.MethodGet:
			h.get(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (h *handler) upsert(w http.ResponseWriter, r *http.Request) {
	a := model.DefaultAvailability("")
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if a.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	if err := a.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpsertAvailability(r.Context(), a); err != nil {
		h.log.Errorf("upsert availability: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	a, err := h.store.GetAvailability(r.Context(), userID)
	if err != nil {
		h.log.Errorf("get availability: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}
