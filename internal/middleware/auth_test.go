// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

type stubLoader struct {
	subjects map[string]*entitlement.Subject
}

func (s *stubLoader) SubjectByToken(
	_ context.Context,
	token string,
) (*entitlement.Subject, error) {
	subject, ok := s.subjects[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	return subject, nil
}

const testCookie = "soundline_session"

func authedRequest(method, path, token string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	return r
}

func passthrough(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func activeSubject(role entitlement.Role) *entitlement.Subject {
	return &entitlement.Subject{
		ID:     "user-1",
		Role:   role,
		Status: entitlement.StatusActive,
		Subscription: entitlement.SubscriptionState{
			Plan:   entitlement.PlanFree,
			Status: entitlement.SubscriptionActive,
		},
	}
}

func TestAuthenticatorMissingSession(t *testing.T) {
	loader := &stubLoader{subjects: map[string]*entitlement.Subject{}}
	next, called := passthrough(t)
	handler := Authenticator(loader, testCookie)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/user", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", decodeBody(t, rec)["error"])
	assert.False(t, *called)
}

func TestAuthenticatorInvalidToken(t *testing.T) {
	loader := &stubLoader{subjects: map[string]*entitlement.Subject{}}
	next, called := passthrough(t)
	handler := Authenticator(loader, testCookie)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/user", "bogus"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthenticatorBearerFallback(t *testing.T) {
	loader := &stubLoader{subjects: map[string]*entitlement.Subject{
		"tok": activeSubject(entitlement.RoleArtist),
	}}
	next, called := passthrough(t)
	handler := Authenticator(loader, testCookie)(next)

	r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	r.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestAuthenticatorSuspendedAccount(t *testing.T) {
	suspended := activeSubject(entitlement.RoleArtist)
	suspended.Status = entitlement.StatusSuspended

	loader := &stubLoader{subjects: map[string]*entitlement.Subject{
		"tok": suspended,
	}}
	next, called := passthrough(t)
	handler := Authenticator(loader, testCookie)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/user", "tok"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Account suspended", body["error"])
	assert.Contains(t, body["message"], "contact support")
	assert.False(t, *called)
}

func TestAuthenticatorPendingApprovalBlocksFeatures(t *testing.T) {
	pending := activeSubject(entitlement.RoleArtist)
	pending.Status = entitlement.StatusPendingApproval

	loader := &stubLoader{subjects: map[string]*entitlement.Subject{
		"tok": pending,
	}}

	t.Run("feature path denied", func(t *testing.T) {
		next, called := passthrough(t)
		handler := Authenticator(loader, testCookie)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec,
			authedRequest(http.MethodPost, "/api/releases", "tok"))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "Payment approval pending",
			decodeBody(t, rec)["error"])
		assert.False(t, *called)
	})

	t.Run("profile path allowed", func(t *testing.T) {
		next, called := passthrough(t)
		handler := Authenticator(loader, testCookie)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec,
			authedRequest(http.MethodGet, "/api/user", "tok"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("logout allowed", func(t *testing.T) {
		next, called := passthrough(t)
		handler := Authenticator(loader, testCookie)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec,
			authedRequest(http.MethodPost, "/api/logout", "tok"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})
}

func TestAuthenticatorRejectedCanRetryPayment(t *testing.T) {
	rejected := activeSubject(entitlement.RoleArtist)
	rejected.Status = entitlement.StatusRejected

	loader := &stubLoader{subjects: map[string]*entitlement.Subject{
		"tok": rejected,
	}}

	t.Run("payment path allowed", func(t *testing.T) {
		next, called := passthrough(t)
		handler := Authenticator(loader, testCookie)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec,
			authedRequest(http.MethodPost, "/api/payment", "tok"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("feature path denied", func(t *testing.T) {
		next, called := passthrough(t)
		handler := Authenticator(loader, testCookie)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec,
			authedRequest(http.MethodGet, "/api/releases", "tok"))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "Payment rejected", decodeBody(t, rec)["error"])
		assert.False(t, *called)
	})
}

func TestAuthenticatorInjectsSubject(t *testing.T) {
	subject := activeSubject(entitlement.RoleLabel)
	loader := &stubLoader{subjects: map[string]*entitlement.Subject{
		"tok": subject,
	}}

	var seen *entitlement.Subject
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticator(loader, testCookie)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/user", "tok"))

	require.NotNil(t, seen)
	assert.Equal(t, subject.ID, seen.ID)
	assert.Equal(t, entitlement.RoleLabel, seen.Role)
}
