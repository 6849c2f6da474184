// AngelaMos | 2026
// provider.go

package user

import (
	"context"
	"strings"

	"github.com/carterperez-dev/soundline/internal/auth"
	"github.com/carterperez-dev/soundline/internal/entitlement"
)

func (s *Service) GetAccountByEmail(
	ctx context.Context,
	email string,
) (*auth.AccountInfo, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toAccountInfo(u), nil
}

func (s *Service) GetAccountByID(
	ctx context.Context,
	id string,
) (*auth.AccountInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(u), nil
}

func (s *Service) RegisterAccount(
	ctx context.Context,
	email, passwordHash, name string,
	role entitlement.Role,
) (*auth.AccountInfo, error) {
	u, err := s.CreateAccount(
		ctx, strings.ToLower(email), passwordHash, name, role)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(u), nil
}

func toAccountInfo(u *User) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		Subject:      u.ToSubject(),
	}
}

var _ auth.UserProvider = (*Service)(nil)
