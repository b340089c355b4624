package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyplanner/internal/models"
	"studyplanner/internal/service"
)

func newPlanTestServer(t *testing.T) (*http.ServeMux, *stubPlanStore, *models.User) {
	t.Helper()
	store := &stubPlanStore{}
	planService := service.NewPlanService(store)
	handler := NewPlanHandler(planService)
	user := &models.User{ID: 1, Email: "alice@example.com", Name: "Alice"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/plans", withUser(user, handler.CreatePlan))
	mux.HandleFunc("GET /api/plans", withUser(user, handler.ListPlans))
	mux.HandleFunc("GET /api/plans/{planID}", withUser(user, handler.GetPlan))
	mux.HandleFunc("DELETE /api/plans/{planID}", withUser(user, handler.DeletePlan))
	return mux, store, user
}

func TestCreatePlanEndpoint(t *testing.T) {
	mux, store, _ := newPlanTestServer(t)

	body := `{
		"student_name": "Alice",
		"daily_hours": 2,
		"topics": [
			{"course": "Math", "topic": "Algebra", "difficulty": "easy"},
			{"course": "Math", "topic": "Calculus", "difficulty": "hard"}
		]
	}`

	r := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Plan models.StudyPlan `json:"plan"`
		Meta models.PlanMeta  `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Plan.PlanID == "" {
		t.Error("expected a plan ID in the response")
	}
	if len(resp.Plan.Sessions) == 0 {
		t.Error("expected sessions in the response")
	}
	if resp.Meta.TotalTopics != 2 {
		t.Errorf("expected 2 topics in meta, got %d", resp.Meta.TotalTopics)
	}
	if len(store.plans) != 1 {
		t.Errorf("expected the plan to be persisted, got %d", len(store.plans))
	}
}

func TestCreatePlanEndpointValidation(t *testing.T) {
	mux, _, _ := newPlanTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"zero daily hours", `{"student_name":"Alice","daily_hours":0,"topics":[{"topic":"Algebra"}]}`, http.StatusBadRequest},
		{"no topics", `{"student_name":"Alice","daily_hours":2,"topics":[]}`, http.StatusBadRequest},
		{"bad difficulty", `{"student_name":"Alice","daily_hours":2,"topics":[{"topic":"Algebra","difficulty":"nope"}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error response is not JSON: %v", err)
			}
			if resp["error"] == "" {
				t.Error("expected an error message in the body")
			}
		})
	}
}

func TestGetPlanEndpoint(t *testing.T) {
	mux, _, _ := newPlanTestServer(t)

	body := `{"student_name":"Alice","daily_hours":2,"topics":[{"topic":"Algebra","difficulty":"easy"}]}`
	r := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create plan: %d", w.Code)
	}
	var created struct {
		Plan models.StudyPlan `json:"plan"`
	}
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	t.Run("existing plan", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/plans/"+created.Plan.PlanID, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown plan", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/plans/missing", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("delete then gone", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/api/plans/"+created.Plan.PlanID, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 on delete, got %d", w.Code)
		}

		r = httptest.NewRequest(http.MethodGet, "/api/plans/"+created.Plan.PlanID, nil)
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", w.Code)
		}
	})
}

func TestListPlansEndpoint(t *testing.T) {
	mux, _, _ := newPlanTestServer(t)

	t.Run("empty list is a JSON array", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"plans":[]`) {
			t.Errorf("expected empty plans array, got %s", w.Body.String())
		}
	})

	body := `{"student_name":"Alice","daily_hours":2,"topics":[{"topic":"Algebra","difficulty":"easy"}]}`
	r := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create plan: %d", w.Code)
	}

	t.Run("returns created plans", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)

		var resp struct {
			Plans []models.StudyPlan `json:"plans"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Plans) != 1 {
			t.Errorf("expected 1 plan, got %d", len(resp.Plans))
		}
	})
}
