// AngelaMos | 2026
// access.go

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
)

// RequireRole allows admins unconditionally, otherwise requires
// membership in the role allow-list.
func RequireRole(
	roles ...entitlement.Role,
) func(http.Handler) http.Handler {
	roleSet := make(map[entitlement.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if subject == nil {
				core.Unauthorized(w, "Not authenticated")
				return
			}

			if subject.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := roleSet[subject.Role]; !ok {
				core.Forbidden(w,
					"You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission checks a single capability against the merged
// permission record (user override OR role default). Admins bypass.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if subject == nil {
				core.Unauthorized(w, "Not authenticated")
				return
			}

			if !subject.HasPermission(permission) {
				core.Forbidden(w,
					"You don't have the required permission: "+permission)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := GetSubject(r.Context())
		if subject == nil {
			core.Unauthorized(w, "Not authenticated")
			return
		}

		if !subject.IsAdmin() {
			core.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Premium feature areas blocked while a subscription awaits approval.
var restrictedFeaturePrefixes = []string{
	"/api/releases",
	"/api/tracks",
	"/api/catalog",
	"/api/distribution",
	"/api/analytics",
	"/api/royalties",
}

// CheckSubscription enforces the billing-side state: an expired
// subscription blocks everything, a pending one blocks premium feature
// areas only. Admins bypass.
func CheckSubscription(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := GetSubject(r.Context())
		if subject == nil {
			core.Unauthorized(w, "Not authenticated")
			return
		}

		if subject.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		if subject.SubscriptionExpired(time.Now()) {
			core.PaymentRequired(w, "Subscription expired",
				"Your subscription has expired. Please renew to continue "+
					"using premium features.")
			return
		}

		if subject.Subscription.Status == entitlement.SubscriptionPendingApproval &&
			pathRestricted(r.URL.Path) {
			core.PaymentRequired(w, "Subscription pending approval",
				"Your subscription is pending approval. Once approved, "+
					"you'll have access to all features.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func pathRestricted(path string) bool {
	for _, prefix := range restrictedFeaturePrefixes {
		if strings.Contains(path, prefix) {
			return true
		}
	}
	return false
}
