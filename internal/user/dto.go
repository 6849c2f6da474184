// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Plan     string `json:"plan"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type CreateArtistRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	LegalName    string  `json:"legalName" validate:"max=200"`
	SpotifyID    *string `json:"spotifyId"`
	AppleMusicID *string `json:"appleMusicId"`
}

type InviteTeamMemberRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Password    string          `json:"password" validate:"required,min=8,max=128"`
	Permissions map[string]bool `json:"permissions"`
}

type UpdatePermissionsRequest struct {
	Permissions map[string]bool `json:"permissions" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended pending_approval rejected"`
}

type UserResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        string          `json:"role"`
	Status      string          `json:"status"`
	ParentID    *string         `json:"parentId,omitempty"`
	Permissions map[string]bool `json:"permissions"`

	SubscriptionPlan      string     `json:"subscriptionPlan"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	SubscriptionStartDate *time.Time `json:"subscriptionStartDate,omitempty"`
	SubscriptionEndDate   *time.Time `json:"subscriptionEndDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Name:                  u.Name,
		Role:                  u.Role,
		Status:                u.Status,
		ParentID:              u.ParentID,
		Permissions:           u.Permissions,
		SubscriptionPlan:      u.SubscriptionPlan,
		SubscriptionStatus:    u.SubscriptionStatus,
		SubscriptionStartDate: u.SubscriptionStartDate,
		SubscriptionEndDate:   u.SubscriptionEndDate,
		CreatedAt:             u.CreatedAt,
	}
}

type ArtistResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LegalName    string    `json:"legalName,omitempty"`
	SpotifyID    *string   `json:"spotifyId,omitempty"`
	AppleMusicID *string   `json:"appleMusicId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toArtistResponse(a *Artist) ArtistResponse {
	return ArtistResponse{
		ID:           a.ID,
		Name:         a.Name,
		LegalName:    a.LegalName,
		SpotifyID:    a.SpotifyID,
		AppleMusicID: a.AppleMusic,
		CreatedAt:    a.CreatedAt,
	}
}

// LimitsResponse reports the resolved ceilings next to live usage so the
// frontend can render quota meters.
type LimitsResponse struct {
	MaxArtists      entitlement.Limit `json:"maxArtists"`
	CurrentArtists  int64             `json:"currentArtists"`
	MaxReleases     entitlement.Limit `json:"maxReleases"`
	CurrentReleases int64             `json:"currentReleases"`
	MaxTracks       entitlement.Limit `json:"maxTracksPerRelease"`
	MaxFileSize     string            `json:"maxFileSize"`
	MaxPending      entitlement.Limit `json:"maxReleasesPending"`
	LimitType       string            `json:"limitType"`
	Delegated       bool              `json:"delegated"`
}
