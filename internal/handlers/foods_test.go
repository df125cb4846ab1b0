package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func setupFoodRouter(t *testing.T) *chi.Mux {
	t.Helper()
	handler := NewFoodHandler(repository.NewFoodRepository(testutil.NewTestDatabase(t)))

	router := chi.NewRouter()
	router.Get("/foods", handler.List)
	router.Post("/foods", handler.Create)
	router.Delete("/foods/{id}", handler.Delete)
	return router
}

func TestFoodHandler_CreateListDelete(t *testing.T) {
	router := setupFoodRouter(t)

	recorder := sendJSON(router, http.MethodPost, "/foods", `{"name":"Yoghurt","bestBeforeDate":"2024-03-04"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var created models.Food
	if err := json.NewDecoder(recorder.Body).Decode(&created); err != nil {
		t.Fatalf("decoding food: %v", err)
	}

	recorder = serve(router, http.MethodGet, "/foods")
	var body struct {
		Foods []models.Food `json:"foods"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("decoding foods: %v", err)
	}
	if len(body.Foods) != 1 || body.Foods[0].BestBeforeDate != "2024-03-04" {
		t.Errorf("expected the created food, got %+v", body.Foods)
	}

	recorder = serve(router, http.MethodDelete, "/foods/"+strconv.FormatInt(created.ID, 10))
	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", recorder.Code)
	}
}

func TestFoodHandler_Validation(t *testing.T) {
	router := setupFoodRouter(t)

	type testCase struct {
		name   string
		method string
		target string
		body   string
	}

	testCases := []testCase{
		{name: "missing name", method: http.MethodPost, target: "/foods", body: `{"bestBeforeDate":"2024-03-04"}`},
		{name: "bad date", method: http.MethodPost, target: "/foods", body: `{"name":"Milk","bestBeforeDate":"04/03/2024"}`},
		{name: "bad limit", method: http.MethodGet, target: "/foods?limit=0"},
		{name: "bad id", method: http.MethodDelete, target: "/foods/abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := sendJSON(router, tc.method, tc.target, tc.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", recorder.Code)
			}
		})
	}
}
