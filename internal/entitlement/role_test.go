// AngelaMos | 2026
// role_test.go

package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleDefaultsUnknownRole(t *testing.T) {
	perms := RoleDefaults(Role("intern"))

	for _, name := range []string{
		PermCreateReleases,
		PermManageArtists,
		PermViewAnalytics,
		PermManageDistribution,
		PermManageRoyalties,
		PermEditMetadata,
		PermAccessFinancials,
		PermInviteUsers,
		PermManageUsers,
		PermManageSubscriptions,
		PermAccessAdminPanel,
		PermViewAllContent,
		PermViewAllReports,
	} {
		assert.False(t, perms.Flag(name), "unknown role should not grant %s", name)
	}

	assert.False(t, perms.MaxArtists.IsUnlimited())
	assert.False(t, perms.MaxReleases.IsUnlimited())
}

func TestRoleDefaultsAdminUnbounded(t *testing.T) {
	perms := RoleDefaults(RoleAdmin)

	assert.True(t, perms.MaxArtists.IsUnlimited())
	assert.True(t, perms.MaxReleases.IsUnlimited())
	assert.True(t, perms.CanManageUsers)
	assert.True(t, perms.CanAccessAdminPanel)
}

func TestRoleDefaultsTable(t *testing.T) {
	tests := []struct {
		role       Role
		maxArtists Limit
		canCreate  bool
		canInvite  bool
	}{
		{RoleLabel, Unlimited, true, true},
		{RoleArtistManager, 10, true, false},
		{RoleArtist, 1, true, false},
		{RoleTeamMember, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			perms := RoleDefaults(tt.role)
			assert.Equal(t, tt.maxArtists, perms.MaxArtists)
			assert.Equal(t, tt.canCreate, perms.CanCreateReleases)
			assert.Equal(t, tt.canInvite, perms.CanInviteUsers)
		})
	}
}

func TestFlagUnknownName(t *testing.T) {
	perms := RoleDefaults(RoleAdmin)
	assert.False(t, perms.Flag("canDoAnything"))
}

func TestSubjectHasPermissionMerge(t *testing.T) {
	subject := &Subject{
		ID:   "u1",
		Role: RoleTeamMember,
		Permissions: map[string]bool{
			PermCreateReleases: true,
			PermViewAnalytics:  false,
		},
	}

	// User-specific true wins over the role default false.
	assert.True(t, subject.HasPermission(PermCreateReleases))

	// A user-specific false does not revoke the role default.
	assert.True(t, subject.HasPermission(PermViewAnalytics))

	// Absent from both.
	assert.False(t, subject.HasPermission(PermManageRoyalties))
}

func TestSubjectHasPermissionAdminBypass(t *testing.T) {
	admin := &Subject{ID: "a1", Role: RoleAdmin}

	assert.True(t, admin.HasPermission(PermManageRoyalties))
	assert.True(t, admin.HasPermission(PermManageUsers))
}
