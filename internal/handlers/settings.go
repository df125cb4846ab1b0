package handlers

import (
	"log/slog"
	"net/http"

	"github.com/TimDeve/slice-n-dice/internal/repository"
)

type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsHandler(settingsRepo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

type settingsBody struct {
	CalendarName string `json:"calendarName" validate:"required,max=100"`
}

func (handler *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	calendarName, err := handler.settingsRepo.GetOrDefault(r.Context(), repository.SettingCalendarName, defaultCalendarName)
	if err != nil {
		slog.Error("reading settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settingsBody{CalendarName: calendarName})
}

func (handler *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request settingsBody
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.settingsRepo.Set(r.Context(), repository.SettingCalendarName, request.CalendarName); err != nil {
		slog.Error("updating settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, request)
}
