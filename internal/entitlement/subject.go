// AngelaMos | 2026
// subject.go

package entitlement

import "time"

// Status is the account lifecycle state gating API access.
type Status string

const (
	StatusActive          Status = "active"
	StatusInactive        Status = "inactive"
	StatusSuspended       Status = "suspended"
	StatusPendingApproval Status = "pending_approval"
	StatusRejected        Status = "rejected"
)

// SubscriptionState is the billing-side state carried on a subject,
// independent of the account status.
type SubscriptionState struct {
	Plan      Plan
	Status    string
	StartDate *time.Time
	EndDate   *time.Time

	// Per-user overrides negotiated outside the standard plan tiers.
	// Nil means the plan default applies.
	MaxArtists         *int64
	MaxFileSize        *int64
	MaxReleasesPending *int64
}

const (
	SubscriptionActive          = "active"
	SubscriptionPendingApproval = "pending_approval"
	SubscriptionCanceled        = "canceled"
	SubscriptionExpired         = "expired"
)

// Subject is the identity an access decision is made about: the
// authenticated user reduced to the fields the decision procedure reads.
type Subject struct {
	ID           string
	Role         Role
	Status       Status
	ParentID     *string
	Permissions  map[string]bool
	Subscription SubscriptionState
}

func (s *Subject) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// HasPermission merges the per-user override map over the role defaults.
// A user-specific true always wins; absent keys fall through to the role.
// Admins hold every permission.
func (s *Subject) HasPermission(name string) bool {
	if s.IsAdmin() {
		return true
	}

	if s.Permissions[name] {
		return true
	}

	return RoleDefaults(s.Role).Flag(name)
}

// SubscriptionExpired reports whether the subscription end date has
// passed. Subjects without an end date never expire.
func (s *Subject) SubscriptionExpired(now time.Time) bool {
	end := s.Subscription.EndDate
	return end != nil && end.Before(now)
}
