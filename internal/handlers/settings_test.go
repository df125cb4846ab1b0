package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func setupSettingsRouter(t *testing.T) (*chi.Mux, repository.SettingsRepository) {
	t.Helper()
	settingsRepo := repository.NewSettingsRepository(testutil.NewTestDatabase(t))
	handler := NewSettingsHandler(settingsRepo)

	router := chi.NewRouter()
	router.Get("/settings", handler.Get)
	router.Put("/settings", handler.Update)
	return router, settingsRepo
}

func TestSettingsHandler_GetDefault(t *testing.T) {
	router, _ := setupSettingsRouter(t)

	recorder := serve(router, http.MethodGet, "/settings")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var body settingsBody
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("decoding settings: %v", err)
	}
	if body.CalendarName != "Slice n Dice" {
		t.Errorf("expected default calendar name, got '%s'", body.CalendarName)
	}
}

func TestSettingsHandler_UpdateCalendarName(t *testing.T) {
	router, settingsRepo := setupSettingsRouter(t)

	recorder := sendJSON(router, http.MethodPut, "/settings", `{"calendarName":"Our Kitchen"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	value, err := settingsRepo.Get(context.Background(), repository.SettingCalendarName)
	if err != nil {
		t.Fatalf("getting calendar name: %v", err)
	}
	if value != "Our Kitchen" {
		t.Errorf("expected 'Our Kitchen', got '%s'", value)
	}
}

func TestSettingsHandler_UpdateValidation(t *testing.T) {
	router, _ := setupSettingsRouter(t)

	for _, body := range []string{`{}`, `{"calendarName":"` + strings.Repeat("a", 101) + `"}`} {
		recorder := sendJSON(router, http.MethodPut, "/settings", body)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for %s, got %d", body, recorder.Code)
		}
	}
}
