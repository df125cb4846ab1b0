package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TimDeve/slice-n-dice/internal/config"
	"github.com/gorilla/securecookie"
)

const (
	sessionCookieName = "slice_session"
	sessionMaxAge     = 60 * 60 * 24 * 30
)

// SessionService guards the API with the household's shared credentials and
// a signed session cookie.
type SessionService struct {
	secureCookie *securecookie.SecureCookie
	username     string
	password     string
}

type SessionData struct {
	Authenticated bool  `json:"authenticated"`
	IssuedAt      int64 `json:"issued_at"`
}

func NewSessionService(cfg config.Config) *SessionService {
	if cfg.AdminUsername == "" {
		slog.Warn("SLICE_USER not configured, auth will be disabled")
	}

	hashKey := sha256.Sum256([]byte(cfg.SessionSecret))
	secureCookie := securecookie.New(hashKey[:], nil)
	secureCookie.MaxAge(sessionMaxAge)

	return &SessionService{
		secureCookie: secureCookie,
		username:     cfg.AdminUsername,
		password:     cfg.AdminPassword,
	}
}

func (service *SessionService) Enabled() bool {
	return service.username != ""
}

func (service *SessionService) CheckCredentials(username string, password string) bool {
	if !service.Enabled() {
		return false
	}
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(service.username))
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(service.password))
	return usernameMatch&passwordMatch == 1
}

func (service *SessionService) SetSession(w http.ResponseWriter) error {
	encoded, err := json.Marshal(SessionData{Authenticated: true, IssuedAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	value, err := service.secureCookie.Encode(sessionCookieName, string(encoded))
	if err != nil {
		return fmt.Errorf("encoding session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sessionMaxAge,
	})
	return nil
}

func (service *SessionService) GetSession(r *http.Request) (SessionData, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return SessionData{}, fmt.Errorf("no session cookie: %w", err)
	}

	var decoded string
	if err := service.secureCookie.Decode(sessionCookieName, cookie.Value, &decoded); err != nil {
		return SessionData{}, fmt.Errorf("decoding session cookie: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(decoded), &session); err != nil {
		return SessionData{}, fmt.Errorf("unmarshaling session: %w", err)
	}
	return session, nil
}

func (service *SessionService) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Authenticated reports whether the request carries a valid session. Every
// request is authenticated when no credentials are configured.
func (service *SessionService) Authenticated(r *http.Request) bool {
	if !service.Enabled() {
		return true
	}
	session, err := service.GetSession(r)
	return err == nil && session.Authenticated
}
