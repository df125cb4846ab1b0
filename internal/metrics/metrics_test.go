package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestCollector_RecordsMealsAndRequests(t *testing.T) {
	collector := NewCollector("slice")

	router := chi.NewRouter()
	router.Use(collector.Middleware)
	router.Get("/api/v0/days/{date}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", collector.Handler())

	collector.MealAssigned("lunch", "recipe")
	collector.MealUnfilled("dinner")

	request := httptest.NewRequest(http.MethodGet, "/api/v0/days/2024-03-01", nil)
	router.ServeHTTP(httptest.NewRecorder(), request)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := recorder.Body.String()
	expected := []string{
		`slice_meals_assigned_total{kind="recipe",slot="lunch"} 1`,
		`slice_meals_unfilled_total{slot="dinner"} 1`,
		`slice_http_requests_total{method="GET",route="/api/v0/days/{date}",status="200"} 1`,
	}
	for _, line := range expected {
		if !strings.Contains(body, line) {
			t.Errorf("expected metrics output to contain %q", line)
		}
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector
	collector.MealAssigned("lunch", "cheat")
	collector.MealUnfilled("lunch")
}
