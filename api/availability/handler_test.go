package availability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusplan/studyplan/core/model"
	"github.com/campusplan/studyplan/core/store"
	"github.com/campusplan/studyplan/infra/logger"
)

func newHandler() http.Handler {
	return NewHandler(store.NewMemoryStore(), logger.NopLogger{})
}

func TestUpsertAndGet(t *testing.T) {
	h := newHandler()

	rr := httptest.NewRecorder()
	body := `{"userId":"u1","weekdayMinutes":90,"weekendMinutes":300,"chunkMinutes":40}`
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/availability", bytes.NewBufferString(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("upsert status %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/availability?user_id=u1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status %d", rr.Code)
	}
	var a model.Availability
	if err := json.Unmarshal(rr.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.WeekdayMinutes != 90 || a.WeekendMinutes != 300 || a.ChunkMinutes != 40 {
		t.Fatalf("unexpected availability %+v", a)
	}
}

func TestGet_DefaultsWhenUnset(t *testing.T) {
	h := newHandler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/availability?user_id=new", nil))
	var a model.Availability
	if err := json.Unmarshal(rr.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a != model.DefaultAvailability("new") {
		t.Fatalf("expected defaults, got %+v", a)
	}
}

func TestUpsert_PartialBodyKeepsDefaults(t *testing.T) {
	h := newHandler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/availability",
		bytes.NewBufferString(`{"userId":"u1"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var a model.Availability
	_ = json.Unmarshal(rr.Body.Bytes(), &a)
	if a.WeekdayMinutes != 120 || a.WeekendMinutes != 240 || a.ChunkMinutes != 50 {
		t.Fatalf("defaults not applied: %+v", a)
	}
}

func TestUpsert_Validation(t *testing.T) {
	h := newHandler()
	cases := []struct {
		name string
		body string
	}{
		{"missing user", `{"weekdayMinutes":60}`},
		{"negative weekday", `{"userId":"u1","weekdayMinutes":-1}`},
		{"chunk too small", `{"userId":"u1","chunkMinutes":5}`},
		{"chunk too large", `{"userId":"u1","chunkMinutes":500}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/availability", bytes.NewBufferString(c.body)))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rr.Code)
			}
		})
	}
}
