// AngelaMos | 2026
// context.go

package middleware

import (
	"context"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

type contextKey string

const (
	SubjectKey   contextKey = "subject"
	RequestIDKey contextKey = "request_id"
)

func GetSubject(ctx context.Context) *entitlement.Subject {
	if subject, ok := ctx.Value(SubjectKey).(*entitlement.Subject); ok {
		return subject
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if subject := GetSubject(ctx); subject != nil {
		return subject.ID
	}
	return ""
}

func GetUserRole(ctx context.Context) entitlement.Role {
	if subject := GetSubject(ctx); subject != nil {
		return subject.Role
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetSubject(ctx) != nil
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == entitlement.RoleAdmin
}
