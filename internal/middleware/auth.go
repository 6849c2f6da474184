// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
)

// SubjectLoader resolves a session token to the authenticated subject.
type SubjectLoader interface {
	SubjectByToken(
		ctx context.Context,
		token string,
	) (*entitlement.Subject, error)
}

// Paths reachable while the account is awaiting payment approval.
var pendingApprovalAllowed = []string{
	"/api/user",
	"/api/subscription-status",
	"/api/logout",
}

// Paths reachable after a payment rejection. Payment stays open so the
// user can retry.
var rejectedAllowed = []string{
	"/api/user",
	"/api/subscription-status",
	"/api/payment",
	"/api/logout",
}

// Authenticator verifies the session and enforces account status. Every
// request behind it carries a Subject in context. Denials short-circuit
// with the exact status/body contract the frontend renders directly.
func Authenticator(
	loader SubjectLoader,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r, cookieName)
			if token == "" {
				core.Unauthorized(w, "Not authenticated")
				return
			}

			subject, err := loader.SubjectByToken(r.Context(), token)
			if err != nil || subject == nil {
				core.Unauthorized(w, "Not authenticated")
				return
			}

			if denied := checkAccountStatus(w, r, subject); denied {
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// checkAccountStatus applies the account-lifecycle gate. Returns true if
// the response has been written.
func checkAccountStatus(
	w http.ResponseWriter,
	r *http.Request,
	subject *entitlement.Subject,
) bool {
	switch subject.Status {
	case entitlement.StatusSuspended, entitlement.StatusInactive:
		core.JSON(w, http.StatusForbidden, map[string]string{
			"error": "Account suspended",
			"message": "Your account has been suspended or deactivated. " +
				"Please contact support for assistance.",
		})
		return true

	case entitlement.StatusPendingApproval:
		if !pathAllowed(r.URL.Path, pendingApprovalAllowed) {
			core.PaymentRequired(w, "Payment approval pending",
				"Your subscription payment is pending approval. "+
					"You'll have full access once approved.")
			return true
		}

	case entitlement.StatusRejected:
		if !pathAllowed(r.URL.Path, rejectedAllowed) {
			core.PaymentRequired(w, "Payment rejected",
				"Your payment was rejected. Please update your payment "+
					"information and try again.")
			return true
		}
	}

	return false
}

func pathAllowed(path string, allowed []string) bool {
	for _, prefix := range allowed {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// extractSessionToken prefers the session cookie; API clients may send
// the same token as a bearer credential instead.
func extractSessionToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
