// AngelaMos | 2026
// resolver.go

package entitlement

import (
	"context"
	"log/slog"
)

// EffectiveLimits is the per-request ceiling record combining a subject's
// role and subscription plan. Derived fresh on every call; never cached.
type EffectiveLimits struct {
	MaxArtists          Limit
	MaxReleases         Limit
	MaxTracksPerRelease Limit
	MaxFileSize         int64
	MaxReleasesPending  Limit
	IsYearlyLimit       bool
	IsMonthlyLimit      bool
}

// LimitType is the human-readable period for denial messages.
func (l EffectiveLimits) LimitType() string {
	if l.IsMonthlyLimit {
		return string(PeriodMonthly)
	}
	return string(PeriodYearly)
}

// Directory looks up subjects by id, used to chase the team-member
// delegation edge to the parent account.
type Directory interface {
	SubjectByID(ctx context.Context, id string) (*Subject, error)
}

// UsageCounter reports live consumption against quota dimensions.
type UsageCounter interface {
	CountManagedArtists(ctx context.Context, userID string) (int64, error)
	CountUserReleases(ctx context.Context, userID string) (int64, error)
	CountReleaseTracks(ctx context.Context, releaseID string) (int64, error)
}

type Resolver struct {
	dir    Directory
	logger *slog.Logger
}

func NewResolver(dir Directory, logger *slog.Logger) *Resolver {
	return &Resolver{dir: dir, logger: logger}
}

// EffectiveSubject returns the subject whose role, plan and usage govern
// this request: the parent account for a team member, the subject itself
// otherwise. Team members hold no independent quota. A failed parent
// lookup falls back to the team member's own record.
func (r *Resolver) EffectiveSubject(
	ctx context.Context,
	subject *Subject,
) *Subject {
	if subject.Role != RoleTeamMember || subject.ParentID == nil {
		return subject
	}

	parent, err := r.dir.SubjectByID(ctx, *subject.ParentID)
	if err != nil || parent == nil {
		r.logger.Warn("parent lookup failed for team member, using own limits",
			"user_id", subject.ID,
			"parent_id", *subject.ParentID,
			"error", err,
		)
		return subject
	}

	return parent
}

// Resolve computes the effective limits for a subject. Pure: two calls
// with the same subject yield identical records.
//
// The artist ceiling takes the most permissive of role and plan. Release
// and track ceilings come from the plan alone, expressed per month on the
// free tier and per year on paid tiers. File-size and pending-release
// ceilings honor per-user overrides before the plan defaults.
func (r *Resolver) Resolve(subject *Subject) EffectiveLimits {
	role := RoleDefaults(subject.Role)
	plan := PlanFor(subject.Subscription.Plan)

	maxArtists := plan.MaxArtists
	if override := subject.Subscription.MaxArtists; override != nil {
		maxArtists = Limit(*override)
	}
	maxArtists = maxOf(role.MaxArtists, maxArtists)

	maxFileSize := plan.MaxFileSize
	if override := subject.Subscription.MaxFileSize; override != nil {
		maxFileSize = *override
	}

	maxPending := plan.MaxReleasesPending
	if override := subject.Subscription.MaxReleasesPending; override != nil {
		maxPending = Limit(*override)
	}

	isMonthly := plan.Period == PeriodMonthly

	return EffectiveLimits{
		MaxArtists:          maxArtists,
		MaxReleases:         plan.MaxReleasesPerPeriod,
		MaxTracksPerRelease: plan.MaxTracksPerPeriod,
		MaxFileSize:         maxFileSize,
		MaxReleasesPending:  maxPending,
		IsYearlyLimit:       !isMonthly,
		IsMonthlyLimit:      isMonthly,
	}
}

func maxOf(a, b Limit) Limit {
	if a.IsUnlimited() || b.IsUnlimited() {
		return Unlimited
	}
	if a > b {
		return a
	}
	return b
}
