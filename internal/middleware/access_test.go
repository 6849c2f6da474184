// AngelaMos | 2026
// access_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

func withSubject(r *http.Request, s *entitlement.Subject) *http.Request {
	ctx := context.WithValue(r.Context(), SubjectKey, s)
	return r.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		subject    *entitlement.Subject
		allowed    []entitlement.Role
		wantStatus int
	}{
		{
			name:       "no subject",
			subject:    nil,
			allowed:    []entitlement.Role{entitlement.RoleLabel},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "role in allow list",
			subject:    activeSubject(entitlement.RoleLabel),
			allowed:    []entitlement.Role{entitlement.RoleLabel},
			wantStatus: http.StatusOK,
		},
		{
			name:       "role not in allow list",
			subject:    activeSubject(entitlement.RoleArtist),
			allowed:    []entitlement.Role{entitlement.RoleLabel},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin bypasses allow list",
			subject:    activeSubject(entitlement.RoleAdmin),
			allowed:    []entitlement.Role{entitlement.RoleLabel},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := passthrough(t)
			handler := RequireRole(tt.allowed...)(next)

			r := httptest.NewRequest(http.MethodGet, "/api/team", nil)
			if tt.subject != nil {
				r = withSubject(r, tt.subject)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	t.Run("role default grants", func(t *testing.T) {
		next, called := passthrough(t)
		handler := RequirePermission(entitlement.PermCreateReleases)(next)

		r := withSubject(
			httptest.NewRequest(http.MethodPost, "/api/releases", nil),
			activeSubject(entitlement.RoleArtist),
		)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("user override grants beyond role", func(t *testing.T) {
		subject := activeSubject(entitlement.RoleTeamMember)
		subject.Permissions = map[string]bool{
			entitlement.PermCreateReleases: true,
		}

		next, _ := passthrough(t)
		handler := RequirePermission(entitlement.PermCreateReleases)(next)

		r := withSubject(
			httptest.NewRequest(http.MethodPost, "/api/releases", nil),
			subject,
		)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing permission denied with name", func(t *testing.T) {
		next, called := passthrough(t)
		handler := RequirePermission(entitlement.PermManageRoyalties)(next)

		r := withSubject(
			httptest.NewRequest(http.MethodGet, "/api/royalties", nil),
			activeSubject(entitlement.RoleTeamMember),
		)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"],
			entitlement.PermManageRoyalties)
		assert.False(t, *called)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		next, _ := passthrough(t)
		r := withSubject(
			httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil),
			activeSubject(entitlement.RoleAdmin),
		)
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		next, _ := passthrough(t)
		r := withSubject(
			httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil),
			activeSubject(entitlement.RoleLabel),
		)
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Admin access required", decodeBody(t, rec)["error"])
	})
}

func TestCheckSubscriptionExpired(t *testing.T) {
	subject := activeSubject(entitlement.RoleArtist)
	past := time.Now().Add(-24 * time.Hour)
	subject.Subscription.EndDate = &past

	next, called := passthrough(t)
	r := withSubject(
		httptest.NewRequest(http.MethodGet, "/api/user", nil),
		subject,
	)
	rec := httptest.NewRecorder()
	CheckSubscription(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "Subscription expired", decodeBody(t, rec)["error"])
	assert.False(t, *called)
}

func TestCheckSubscriptionPendingApproval(t *testing.T) {
	subject := activeSubject(entitlement.RoleArtist)
	subject.Subscription.Status = entitlement.SubscriptionPendingApproval

	t.Run("restricted path denied", func(t *testing.T) {
		next, called := passthrough(t)
		r := withSubject(
			httptest.NewRequest(http.MethodPost, "/api/releases", nil),
			subject,
		)
		rec := httptest.NewRecorder()
		CheckSubscription(next).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "Subscription pending approval",
			decodeBody(t, rec)["error"])
		assert.False(t, *called)
	})

	t.Run("unrestricted path allowed", func(t *testing.T) {
		next, called := passthrough(t)
		r := withSubject(
			httptest.NewRequest(http.MethodGet, "/api/user", nil),
			subject,
		)
		rec := httptest.NewRecorder()
		CheckSubscription(next).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})
}

func TestCheckSubscriptionAdminBypassesExpiry(t *testing.T) {
	subject := activeSubject(entitlement.RoleAdmin)
	past := time.Now().Add(-time.Hour)
	subject.Subscription.EndDate = &past

	next, called := passthrough(t)
	r := withSubject(
		httptest.NewRequest(http.MethodGet, "/api/releases", nil),
		subject,
	)
	rec := httptest.NewRecorder()
	CheckSubscription(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestCheckSubscriptionActivePasses(t *testing.T) {
	subject := activeSubject(entitlement.RoleArtist)
	future := time.Now().Add(365 * 24 * time.Hour)
	subject.Subscription.EndDate = &future

	next, called := passthrough(t)
	r := withSubject(
		httptest.NewRequest(http.MethodPost, "/api/releases", nil),
		subject,
	)
	rec := httptest.NewRecorder()
	CheckSubscription(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}
