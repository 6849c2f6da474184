// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

// AccountInfo is the slice of a user record the auth flows need.
type AccountInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Status       string
	CreatedAt    time.Time
	Subject      *entitlement.Subject
}

type UserProvider interface {
	GetAccountByEmail(ctx context.Context, email string) (*AccountInfo, error)
	GetAccountByID(ctx context.Context, id string) (*AccountInfo, error)
	RegisterAccount(
		ctx context.Context,
		email, passwordHash, name string,
		role entitlement.Role,
	) (*AccountInfo, error)
}

type Service struct {
	sessions *SessionStore
	users    UserProvider
}

func NewService(sessions *SessionStore, users UserProvider) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AccountInfo, string, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	account, err := s.users.RegisterAccount(
		ctx,
		req.Email,
		passwordHash,
		req.Name,
		entitlement.Role(req.Role),
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, "", ErrEmailExists
		}
		return nil, "", fmt.Errorf("register account: %w", err)
	}

	token, err := s.sessions.Create(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AccountInfo, string, error) {
	account, err := s.users.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Burn a verification anyway so latency does not reveal
			// whether the account exists.
			//nolint:errcheck
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get account: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&account.PasswordHash,
	)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions.DeleteAll(ctx, userID)
}

// SubjectByToken resolves a session token to the access-decision subject.
// Satisfies the authenticator's loader contract.
func (s *Service) SubjectByToken(
	ctx context.Context,
	token string,
) (*entitlement.Subject, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.users.GetAccountByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return account.Subject, nil
}
