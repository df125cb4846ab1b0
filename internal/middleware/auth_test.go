package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/config"
	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/services"
	"github.com/TimDeve/slice-n-dice/internal/testutil"
)

func setupProtectedHandler(t *testing.T, username string) (http.Handler, *services.SessionService, repository.APITokenRepository) {
	t.Helper()
	tokenRepo := repository.NewAPITokenRepository(testutil.NewTestDatabase(t))
	sessionService := services.NewSessionService(config.Config{
		SessionSecret: "test-secret",
		AdminUsername: username,
		AdminPassword: "password",
	})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(sessionService, tokenRepo)(ok), sessionService, tokenRepo
}

func TestRequireAuth_Bearer(t *testing.T) {
	handler, _, tokenRepo := setupProtectedHandler(t, "chef")
	ctx := context.Background()
	expired := time.Now().Add(-time.Hour)

	tokenRepo.Create(ctx, models.APIToken{Name: "api", TokenHash: repository.HashToken("api-token")})
	tokenRepo.Create(ctx, models.APIToken{Name: "ical", TokenHash: repository.HashToken("ical-token"), Scope: models.TokenScopeICal})
	tokenRepo.Create(ctx, models.APIToken{Name: "old", TokenHash: repository.HashToken("old-token"), ExpiresAt: &expired})

	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	testCases := []testCase{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "api token", header: "Bearer api-token", wantStatus: http.StatusOK},
		{name: "ical token", header: "Bearer ical-token", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer old-token", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "missing bearer prefix", header: "api-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				request.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, recorder.Code)
			}
		})
	}
}

func TestRequireAuth_SessionCookie(t *testing.T) {
	handler, sessionService, _ := setupProtectedHandler(t, "chef")

	login := httptest.NewRecorder()
	if err := sessionService.SetSession(login); err != nil {
		t.Fatalf("setting session: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range login.Result().Cookies() {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected status 200 with session cookie, got %d", recorder.Code)
	}
}

func TestRequireAuth_DisabledWithoutCredentials(t *testing.T) {
	handler, _, _ := setupProtectedHandler(t, "")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("expected status 200 when auth is disabled, got %d", recorder.Code)
	}
}
