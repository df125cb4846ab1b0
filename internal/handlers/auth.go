package handlers

import (
	"log/slog"
	"net/http"

	"github.com/TimDeve/slice-n-dice/internal/services"
)

type AuthHandler struct {
	sessionService *services.SessionService
}

func NewAuthHandler(sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !handler.sessionService.CheckCredentials(request.Username, request.Password) {
		slog.Warn("failed login attempt", "username", request.Username)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := handler.sessionService.SetSession(w); err != nil {
		slog.Error("setting session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	handler.sessionService.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AuthHandler) Authenticated(w http.ResponseWriter, r *http.Request) {
	if !handler.sessionService.Authenticated(r) {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
