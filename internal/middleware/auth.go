package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/models"
	"github.com/TimDeve/slice-n-dice/internal/repository"
	"github.com/TimDeve/slice-n-dice/internal/services"
)

// RequireAuth lets a request through with either a valid session cookie or
// an api-scoped bearer token.
func RequireAuth(sessionService *services.SessionService, tokenRepo repository.APITokenRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessionService.Authenticated(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if tokenString, ok := strings.CutPrefix(authHeader, "Bearer "); ok && tokenString != "" {
				token, err := tokenRepo.FindByTokenHash(r.Context(), repository.HashToken(tokenString))
				if err != nil && !repository.IsNotFound(err) {
					slog.Error("finding api token", "error", err)
				}
				if err == nil && repository.Valid(token, models.TokenScopeAPI, time.Now()) {
					next.ServeHTTP(w, r)
					return
				}
			}

			unauthorized(w)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
