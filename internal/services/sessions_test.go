package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TimDeve/slice-n-dice/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(secret string) *SessionService {
	return NewSessionService(config.Config{
		SessionSecret: secret,
		AdminUsername: "chef",
		AdminPassword: "hunter2",
	})
}

func TestSessionService_CheckCredentials(t *testing.T) {
	service := newTestSessionService("secret")

	assert.True(t, service.CheckCredentials("chef", "hunter2"))
	assert.False(t, service.CheckCredentials("chef", "hunter3"))
	assert.False(t, service.CheckCredentials("cook", "hunter2"))
	assert.False(t, service.CheckCredentials("", ""))
}

func TestSessionService_CheckCredentialsDisabled(t *testing.T) {
	service := NewSessionService(config.Config{SessionSecret: "secret"})

	assert.False(t, service.Enabled())
	assert.False(t, service.CheckCredentials("", ""))
	assert.True(t, service.Authenticated(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSessionService_RoundTrip(t *testing.T) {
	service := newTestSessionService("secret")

	recorder := httptest.NewRecorder()
	require.NoError(t, service.SetSession(recorder))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, sessionCookieName, cookies[0].Name)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookies[0])

	session, err := service.GetSession(request)
	require.NoError(t, err)
	assert.True(t, session.Authenticated)
	assert.NotZero(t, session.IssuedAt)
	assert.True(t, service.Authenticated(request))
}

func TestSessionService_RejectsCookieFromOtherSecret(t *testing.T) {
	issuer := newTestSessionService("secret-one")
	verifier := newTestSessionService("secret-two")

	recorder := httptest.NewRecorder()
	require.NoError(t, issuer.SetSession(recorder))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(recorder.Result().Cookies()[0])

	_, err := verifier.GetSession(request)
	assert.Error(t, err)
	assert.False(t, verifier.Authenticated(request))
}
