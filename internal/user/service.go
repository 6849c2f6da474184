// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
)

var (
	ErrEmailExists     = errors.New("email already exists")
	ErrInvalidRole     = errors.New("invalid role")
	ErrNotTeamMember   = errors.New("user is not a team member")
	ErrNotMemberParent = errors.New("team member belongs to another account")
)

const freeTrialDays = 7

// Roles an account can sign up as. Admins are provisioned out of band and
// team members only enter through an invite.
var registerableRoles = map[entitlement.Role]bool{
	entitlement.RoleArtist:        true,
	entitlement.RoleArtistManager: true,
	entitlement.RoleLabel:         true,
}

type Service struct {
	repo     Repository
	resolver *entitlement.Resolver
	usage    entitlement.UsageCounter
}

func NewService(
	repo Repository,
	resolver *entitlement.Resolver,
	usage entitlement.UsageCounter,
) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		usage:    usage,
	}
}

// CreateAccount provisions a new top-level account on the free trial.
func (s *Service) CreateAccount(
	ctx context.Context,
	email, passwordHash, name string,
	role entitlement.Role,
) (*User, error) {
	if !registerableRoles[role] {
		return nil, ErrInvalidRole
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, freeTrialDays)

	u := &User{
		ID:                    uuid.New().String(),
		Email:                 email,
		PasswordHash:          passwordHash,
		Name:                  name,
		Role:                  string(role),
		Status:                string(entitlement.StatusActive),
		Permissions:           PermissionMap{},
		SubscriptionPlan:      string(entitlement.PlanFree),
		SubscriptionStatus:    entitlement.SubscriptionActive,
		SubscriptionStartDate: &now,
		SubscriptionEndDate:   &trialEnd,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// SubjectByID satisfies the directory lookup used for team-member
// delegation.
func (s *Service) SubjectByID(
	ctx context.Context,
	id string,
) (*entitlement.Subject, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToSubject(), nil
}

func (s *Service) Profile(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(u)
	return &resp, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) error {
	return s.repo.UpdateProfile(ctx, userID, req.Name)
}

// Limits resolves the effective ceilings for a subject and pairs them
// with live usage. Team members see their parent's quota.
func (s *Service) Limits(
	ctx context.Context,
	subject *entitlement.Subject,
) (*LimitsResponse, error) {
	effective := s.resolver.EffectiveSubject(ctx, subject)
	limits := s.resolver.Resolve(effective)

	artists, err := s.usage.CountManagedArtists(ctx, effective.ID)
	if err != nil {
		return nil, fmt.Errorf("count artists: %w", err)
	}

	releases, err := s.usage.CountUserReleases(ctx, effective.ID)
	if err != nil {
		return nil, fmt.Errorf("count releases: %w", err)
	}

	return &LimitsResponse{
		MaxArtists:      limits.MaxArtists,
		CurrentArtists:  artists,
		MaxReleases:     limits.MaxReleases,
		CurrentReleases: releases,
		MaxTracks:       limits.MaxTracksPerRelease,
		MaxFileSize:     entitlement.FormatFileSize(limits.MaxFileSize),
		MaxPending:      limits.MaxReleasesPending,
		LimitType:       limits.LimitType(),
		Delegated:       effective.ID != subject.ID,
	}, nil
}

// CreateArtist attributes the new artist to the effective account, so a
// team member's creation lands on the parent's roster and consumes the
// parent's quota.
func (s *Service) CreateArtist(
	ctx context.Context,
	subject *entitlement.Subject,
	req CreateArtistRequest,
) (*ArtistResponse, error) {
	owner := s.resolver.EffectiveSubject(ctx, subject)

	artist := &Artist{
		ID:         uuid.New().String(),
		UserID:     owner.ID,
		Name:       req.Name,
		LegalName:  req.LegalName,
		SpotifyID:  req.SpotifyID,
		AppleMusic: req.AppleMusicID,
	}

	if err := s.repo.CreateArtist(ctx, artist); err != nil {
		return nil, err
	}

	resp := toArtistResponse(artist)
	return &resp, nil
}

// ListArtists returns the effective account's roster. Team members see
// their parent's artists.
func (s *Service) ListArtists(
	ctx context.Context,
	subject *entitlement.Subject,
) ([]ArtistResponse, error) {
	owner := s.resolver.EffectiveSubject(ctx, subject)

	artists, err := s.repo.ListArtists(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]ArtistResponse, 0, len(artists))
	for i := range artists {
		responses = append(responses, toArtistResponse(&artists[i]))
	}
	return responses, nil
}

// InviteTeamMember creates a team_member account under the inviter.
// Unknown permission keys in the request are silently dropped.
func (s *Service) InviteTeamMember(
	ctx context.Context,
	parentID, email, passwordHash string,
	req InviteTeamMemberRequest,
) (*UserResponse, error) {
	perms := PermissionMap{}
	for name, granted := range req.Permissions {
		if entitlement.KnownPermission(name) {
			perms[name] = granted
		}
	}

	now := time.Now()
	member := &User{
		ID:                    uuid.New().String(),
		Email:                 email,
		PasswordHash:          passwordHash,
		Name:                  req.Name,
		Role:                  string(entitlement.RoleTeamMember),
		Status:                string(entitlement.StatusActive),
		ParentID:              &parentID,
		Permissions:           perms,
		SubscriptionPlan:      string(entitlement.PlanFree),
		SubscriptionStatus:    entitlement.SubscriptionActive,
		SubscriptionStartDate: &now,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	resp := toUserResponse(member)
	return &resp, nil
}

func (s *Service) ListTeamMembers(
	ctx context.Context,
	parentID string,
) ([]UserResponse, error) {
	members, err := s.repo.ListTeamMembers(ctx, parentID)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(members))
	for i := range members {
		responses = append(responses, toUserResponse(&members[i]))
	}
	return responses, nil
}

// UpdateMemberPermissions replaces a team member's override map. The
// caller must be the member's parent account.
func (s *Service) UpdateMemberPermissions(
	ctx context.Context,
	parentID, memberID string,
	req UpdatePermissionsRequest,
) error {
	member, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	if member.Role != string(entitlement.RoleTeamMember) {
		return ErrNotTeamMember
	}

	if member.ParentID == nil || *member.ParentID != parentID {
		return ErrNotMemberParent
	}

	perms := PermissionMap{}
	for name, granted := range req.Permissions {
		if entitlement.KnownPermission(name) {
			perms[name] = granted
		}
	}

	return s.repo.UpdatePermissions(ctx, memberID, perms)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]UserResponse, int, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	userID, status string,
) error {
	return s.repo.UpdateStatus(ctx, userID, status)
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.SoftDelete(ctx, userID)
}
