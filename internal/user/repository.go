// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/soundline/internal/core"
)

const userColumns = `
	id, email, password_hash, name, role, status, parent_id, permissions,
	subscription_plan, subscription_status,
	subscription_start_date, subscription_end_date,
	max_artists_override, max_file_size_override, max_pending_override,
	created_at, updated_at, deleted_at`

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id, name string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePermissions(ctx context.Context, id string, perms PermissionMap) error
	UpdateSubscription(ctx context.Context, user *User) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ListTeamMembers(ctx context.Context, parentID string) ([]User, error)

	CreateArtist(ctx context.Context, artist *Artist) error
	ListArtists(ctx context.Context, userID string) ([]Artist, error)
	CountManagedArtists(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, name, role, status, parent_id,
			permissions, subscription_plan, subscription_status,
			subscription_start_date, subscription_end_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.Status,
		user.ParentID,
		user.Permissions,
		user.SubscriptionPlan,
		user.SubscriptionStatus,
		user.SubscriptionStartDate,
		user.SubscriptionEndDate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE id = $1 AND deleted_at IS NULL`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE email = $1 AND deleted_at IS NULL`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id, name string) error {
	query := `
		UPDATE users
		SET name = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update profile", query, id, name)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update password", query, id, passwordHash)
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update status", query, id, status)
}

func (r *repository) UpdatePermissions(
	ctx context.Context,
	id string,
	perms PermissionMap,
) error {
	query := `
		UPDATE users
		SET permissions = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update permissions", query, id, perms)
}

func (r *repository) UpdateSubscription(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET status = $2,
		    subscription_plan = $3,
		    subscription_status = $4,
		    subscription_start_date = $5,
		    subscription_end_date = $6,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update subscription", query,
		user.ID,
		user.Status,
		user.SubscriptionPlan,
		user.SubscriptionStatus,
		user.SubscriptionStartDate,
		user.SubscriptionEndDate,
	)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "delete user", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Plan != "" {
		conditions = append(conditions, fmt.Sprintf(
			"subscription_plan = $%d", argIdx))
		args = append(args, params.Plan)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ListTeamMembers(
	ctx context.Context,
	parentID string,
) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE parent_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`, userColumns)

	var members []User
	if err := r.db.SelectContext(ctx, &members, query, parentID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	return members, nil
}

func (r *repository) CreateArtist(ctx context.Context, artist *Artist) error {
	query := `
		INSERT INTO artists (
			id, user_id, name, legal_name, spotify_id, apple_music_id
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, artist, query,
		artist.ID,
		artist.UserID,
		artist.Name,
		artist.LegalName,
		artist.SpotifyID,
		artist.AppleMusic,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create artist: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create artist: %w", err)
	}

	return nil
}

func (r *repository) ListArtists(
	ctx context.Context,
	userID string,
) ([]Artist, error) {
	query := `
		SELECT id, user_id, name, legal_name, spotify_id, apple_music_id,
		       created_at, updated_at, deleted_at
		FROM artists
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`

	var artists []Artist
	if err := r.db.SelectContext(ctx, &artists, query, userID); err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}

	return artists, nil
}

func (r *repository) CountManagedArtists(
	ctx context.Context,
	userID string,
) (int64, error) {
	query := `
		SELECT COUNT(*) FROM artists
		WHERE user_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count artists: %w", err)
	}

	return count, nil
}

func (r *repository) execExpectingRow(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
