// AngelaMos | 2026
// role.go

package entitlement

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleLabel         Role = "label"
	RoleArtistManager Role = "artist_manager"
	RoleArtist        Role = "artist"
	RoleTeamMember    Role = "team_member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLabel, RoleArtistManager, RoleArtist, RoleTeamMember:
		return true
	}
	return false
}

// Permission names shared between role defaults and per-user overrides.
const (
	PermCreateReleases      = "canCreateReleases"
	PermManageArtists       = "canManageArtists"
	PermViewAnalytics       = "canViewAnalytics"
	PermManageDistribution  = "canManageDistribution"
	PermManageRoyalties     = "canManageRoyalties"
	PermEditMetadata        = "canEditMetadata"
	PermAccessFinancials    = "canAccessFinancials"
	PermInviteUsers         = "canInviteUsers"
	PermManageUsers         = "canManageUsers"
	PermManageSubscriptions = "canManageSubscriptions"
	PermAccessAdminPanel    = "canAccessAdminPanel"
	PermViewAllContent      = "canViewAllContent"
	PermViewAllReports      = "canViewAllReports"
)

var permissionNames = []string{
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
}

// KnownPermission reports whether name is a recognized capability.
// Override maps are filtered through this so arbitrary keys never reach
// storage.
func KnownPermission(name string) bool {
	for _, known := range permissionNames {
		if name == known {
			return true
		}
	}
	return false
}

type RolePermissions struct {
	CanCreateReleases      bool
	CanManageArtists       bool
	CanViewAnalytics       bool
	CanManageDistribution  bool
	CanManageRoyalties     bool
	CanEditMetadata        bool
	CanAccessFinancials    bool
	CanInviteUsers         bool
	CanManageUsers         bool
	CanManageSubscriptions bool
	CanAccessAdminPanel    bool
	CanViewAllContent      bool
	CanViewAllReports      bool

	MaxArtists  Limit
	MaxReleases Limit
}

// Flag looks up a capability by its wire name.
func (p RolePermissions) Flag(name string) bool {
	switch name {
	case PermCreateReleases:
		return p.CanCreateReleases
	case PermManageArtists:
		return p.CanManageArtists
	case PermViewAnalytics:
		return p.CanViewAnalytics
	case PermManageDistribution:
		return p.CanManageDistribution
	case PermManageRoyalties:
		return p.CanManageRoyalties
	case PermEditMetadata:
		return p.CanEditMetadata
	case PermAccessFinancials:
		return p.CanAccessFinancials
	case PermInviteUsers:
		return p.CanInviteUsers
	case PermManageUsers:
		return p.CanManageUsers
	case PermManageSubscriptions:
		return p.CanManageSubscriptions
	case PermAccessAdminPanel:
		return p.CanAccessAdminPanel
	case PermViewAllContent:
		return p.CanViewAllContent
	case PermViewAllReports:
		return p.CanViewAllReports
	}
	return false
}

var roleDefaults = map[Role]RolePermissions{
	RoleAdmin: {
		CanCreateReleases:      true,
		CanManageArtists:       true,
		CanViewAnalytics:       true,
		CanManageDistribution:  true,
		CanManageRoyalties:     true,
		CanEditMetadata:        true,
		CanAccessFinancials:    true,
		CanInviteUsers:         true,
		CanManageUsers:         true,
		CanManageSubscriptions: true,
		CanAccessAdminPanel:    true,
		CanViewAllContent:      true,
		CanViewAllReports:      true,
		MaxArtists:             Unlimited,
		MaxReleases:            Unlimited,
	},
	RoleLabel: {
		CanCreateReleases:     true,
		CanManageArtists:      true,
		CanViewAnalytics:      true,
		CanManageDistribution: true,
		CanManageRoyalties:    true,
		CanEditMetadata:       true,
		CanAccessFinancials:   true,
		CanInviteUsers:        true,
		MaxArtists:            Unlimited,
		MaxReleases:           Unlimited,
	},
	RoleArtistManager: {
		CanCreateReleases:     true,
		CanManageArtists:      true,
		CanViewAnalytics:      true,
		CanManageDistribution: true,
		CanEditMetadata:       true,
		CanAccessFinancials:   true,
		MaxArtists:            10,
		MaxReleases:           Unlimited,
	},
	RoleArtist: {
		CanCreateReleases:     true,
		CanViewAnalytics:      true,
		CanManageDistribution: true,
		CanEditMetadata:       true,
		CanAccessFinancials:   true,
		MaxArtists:            1,
		MaxReleases:           Unlimited,
	},
	RoleTeamMember: {
		CanViewAnalytics: true,
		CanEditMetadata:  true,
		MaxArtists:       0,
		MaxReleases:      Unlimited,
	},
}

// RoleDefaults returns the capability record for a role. An unrecognized
// role yields the most restrictive record (all flags false, zero ceilings)
// rather than an error.
func RoleDefaults(role Role) RolePermissions {
	if perms, ok := roleDefaults[role]; ok {
		return perms
	}
	return RolePermissions{}
}
