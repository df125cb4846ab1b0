package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TimDeve/slice-n-dice/internal/config"
	"github.com/TimDeve/slice-n-dice/internal/services"
	"github.com/go-chi/chi/v5"
)

func setupAuthRouter(t *testing.T) *chi.Mux {
	t.Helper()
	sessionService := services.NewSessionService(config.Config{
		SessionSecret: "test-secret",
		AdminUsername: "chef",
		AdminPassword: "hunter2",
	})
	handler := NewAuthHandler(sessionService)

	router := chi.NewRouter()
	router.Post("/login", handler.Login)
	router.Post("/logout", handler.Logout)
	router.Get("/authenticated", handler.Authenticated)
	return router
}

func TestAuthHandler_LoginFlow(t *testing.T) {
	router := setupAuthRouter(t)

	if recorder := serve(router, http.MethodGet, "/authenticated"); recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 before login, got %d", recorder.Code)
	}

	recorder := sendJSON(router, http.MethodPost, "/login", `{"username":"chef","password":"hunter2"}`)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", recorder.Code, recorder.Body.String())
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	request := httptest.NewRequest(http.MethodGet, "/authenticated", nil)
	request.AddCookie(cookies[0])
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected status 204 with session cookie, got %d", recorder.Code)
	}

	recorder = serve(router, http.MethodPost, "/logout")
	cleared := recorder.Result().Cookies()
	if len(cleared) == 0 || cleared[0].MaxAge >= 0 {
		t.Error("expected logout to expire the session cookie")
	}
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	router := setupAuthRouter(t)

	recorder := sendJSON(router, http.MethodPost, "/login", `{"username":"chef","password":"wrong"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", recorder.Code)
	}
	if len(recorder.Result().Cookies()) != 0 {
		t.Error("expected no cookie after failed login")
	}

	recorder = sendJSON(router, http.MethodPost, "/login", `{"username":"chef"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for missing password, got %d", recorder.Code)
	}
}

func TestAuthHandler_TamperedCookie(t *testing.T) {
	router := setupAuthRouter(t)

	request := httptest.NewRequest(http.MethodGet, "/authenticated", nil)
	request.AddCookie(&http.Cookie{Name: "slice_session", Value: "forged"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for forged cookie, got %d", recorder.Code)
	}
}
