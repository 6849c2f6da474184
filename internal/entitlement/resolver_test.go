// AngelaMos | 2026
// resolver_test.go

package entitlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	subjects map[string]*Subject
	err      error
}

func (d *stubDirectory) SubjectByID(
	_ context.Context,
	id string,
) (*Subject, error) {
	if d.err != nil {
		return nil, d.err
	}
	if subject, ok := d.subjects[id]; ok {
		return subject, nil
	}
	return nil, errors.New("no such subject")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(dir Directory) *Resolver {
	return NewResolver(dir, discardLogger())
}

func TestResolveMostPermissiveArtistCeiling(t *testing.T) {
	resolver := newTestResolver(&stubDirectory{})

	tests := []struct {
		name string
		role Role
		plan Plan
		want Limit
	}{
		{"artist on free", RoleArtist, PlanFree, 1},
		{"manager on free", RoleArtistManager, PlanFree, 10},
		{"artist on manager plan", RoleArtist, PlanArtistManager, 10},
		{"manager on label plan", RoleArtistManager, PlanLabel, Unlimited},
		{"label on free", RoleLabel, PlanFree, Unlimited},
		{"admin on free", RoleAdmin, PlanFree, Unlimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject := &Subject{
				ID:           "u1",
				Role:         tt.role,
				Subscription: SubscriptionState{Plan: tt.plan},
			}

			limits := resolver.Resolve(subject)
			assert.Equal(t, tt.want, limits.MaxArtists)

			// Property: maxArtists == max(role ceiling, plan ceiling).
			expected := maxOf(
				RoleDefaults(tt.role).MaxArtists,
				PlanFor(tt.plan).MaxArtists,
			)
			assert.Equal(t, expected, limits.MaxArtists)
		})
	}
}

func TestResolvePeriodFlags(t *testing.T) {
	resolver := newTestResolver(&stubDirectory{})

	free := resolver.Resolve(&Subject{
		Role:         RoleArtist,
		Subscription: SubscriptionState{Plan: PlanFree},
	})
	assert.True(t, free.IsMonthlyLimit)
	assert.False(t, free.IsYearlyLimit)
	assert.Equal(t, "per month", free.LimitType())
	assert.Equal(t, Limit(1), free.MaxReleases)
	assert.Equal(t, Limit(1), free.MaxTracksPerRelease)

	paid := resolver.Resolve(&Subject{
		Role:         RoleArtist,
		Subscription: SubscriptionState{Plan: PlanArtist},
	})
	assert.True(t, paid.IsYearlyLimit)
	assert.False(t, paid.IsMonthlyLimit)
	assert.Equal(t, "per year", paid.LimitType())
	assert.True(t, paid.MaxReleases.IsUnlimited())
	assert.True(t, paid.MaxTracksPerRelease.IsUnlimited())
}

func TestResolveOverrides(t *testing.T) {
	resolver := newTestResolver(&stubDirectory{})

	fileSize := int64(750 * megabyte)
	pending := int64(50)
	subject := &Subject{
		Role: RoleArtist,
		Subscription: SubscriptionState{
			Plan:               PlanArtist,
			MaxFileSize:        &fileSize,
			MaxReleasesPending: &pending,
		},
	}

	limits := resolver.Resolve(subject)
	assert.Equal(t, fileSize, limits.MaxFileSize)
	assert.Equal(t, Limit(50), limits.MaxReleasesPending)
}

func TestResolveTierDefaults(t *testing.T) {
	resolver := newTestResolver(&stubDirectory{})

	tests := []struct {
		plan        Plan
		fileSize    int64
		pending     Limit
	}{
		{PlanFree, 50 * megabyte, 1},
		{PlanArtist, 200 * megabyte, 5},
		{PlanArtistManager, 500 * megabyte, 20},
		{PlanLabel, 2 * gigabyte, Unlimited},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			limits := resolver.Resolve(&Subject{
				Role:         RoleArtist,
				Subscription: SubscriptionState{Plan: tt.plan},
			})
			assert.Equal(t, tt.fileSize, limits.MaxFileSize)
			assert.Equal(t, tt.pending, limits.MaxReleasesPending)
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	resolver := newTestResolver(&stubDirectory{})
	subject := &Subject{
		Role:         RoleArtistManager,
		Subscription: SubscriptionState{Plan: PlanArtistManager},
	}

	first := resolver.Resolve(subject)
	second := resolver.Resolve(subject)
	assert.Equal(t, first, second)
}

func TestEffectiveSubjectDelegatesToParent(t *testing.T) {
	parentID := "parent-1"
	parent := &Subject{
		ID:           parentID,
		Role:         RoleLabel,
		Subscription: SubscriptionState{Plan: PlanLabel},
	}
	dir := &stubDirectory{subjects: map[string]*Subject{parentID: parent}}
	resolver := newTestResolver(dir)

	member := &Subject{
		ID:           "member-1",
		Role:         RoleTeamMember,
		ParentID:     &parentID,
		Subscription: SubscriptionState{Plan: PlanFree},
	}

	effective := resolver.EffectiveSubject(context.Background(), member)
	require.Equal(t, parentID, effective.ID)

	// Limits resolved for the team member match the parent's exactly.
	memberLimits := resolver.Resolve(effective)
	parentLimits := resolver.Resolve(parent)
	assert.Equal(t, parentLimits.MaxArtists, memberLimits.MaxArtists)
	assert.Equal(t, parentLimits.MaxReleases, memberLimits.MaxReleases)
	assert.Equal(t, parentLimits.MaxFileSize, memberLimits.MaxFileSize)
}

func TestEffectiveSubjectParentLookupFailure(t *testing.T) {
	parentID := "gone"
	dir := &stubDirectory{err: errors.New("db down")}
	resolver := newTestResolver(dir)

	member := &Subject{
		ID:           "member-1",
		Role:         RoleTeamMember,
		ParentID:     &parentID,
		Subscription: SubscriptionState{Plan: PlanFree},
	}

	effective := resolver.EffectiveSubject(context.Background(), member)
	assert.Equal(t, member.ID, effective.ID)
}

func TestEffectiveSubjectNonTeamMemberIsSelf(t *testing.T) {
	parentID := "parent-1"
	resolver := newTestResolver(&stubDirectory{})

	artist := &Subject{
		ID:       "artist-1",
		Role:     RoleArtist,
		ParentID: &parentID,
	}

	effective := resolver.EffectiveSubject(context.Background(), artist)
	assert.Equal(t, artist.ID, effective.ID)
}

type failingCounter struct{}

func (failingCounter) CountManagedArtists(
	context.Context,
	string,
) (int64, error) {
	return 0, errors.New("query timeout")
}

func (failingCounter) CountUserReleases(
	context.Context,
	string,
) (int64, error) {
	return 0, errors.New("query timeout")
}

func (failingCounter) CountReleaseTracks(
	context.Context,
	string,
) (int64, error) {
	return 0, errors.New("query timeout")
}

func TestFailOpenCounterSwallowsErrors(t *testing.T) {
	counter := NewFailOpenCounter(failingCounter{}, discardLogger())
	ctx := context.Background()

	count, err := counter.CountManagedArtists(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = counter.CountUserReleases(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = counter.CountReleaseTracks(ctx, "r1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
