// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/soundline/internal/core"
)

const releaseColumns = `
	id, user_id, artist_id, title, genre, status, release_date,
	cover_url, upc, created_at, updated_at, deleted_at`

const trackColumns = `
	id, release_id, title, position, duration_seconds, isrc,
	file_url, file_size, created_at, updated_at, deleted_at`

type Repository interface {
	CreateRelease(ctx context.Context, tx core.DBTX, release *Release) error
	GetRelease(ctx context.Context, id string) (*Release, error)
	ListReleases(
		ctx context.Context,
		params ListReleasesParams,
	) ([]Release, int, error)
	UpdateRelease(ctx context.Context, release *Release) error
	UpdateReleaseStatus(ctx context.Context, id, status string) error
	SoftDeleteRelease(ctx context.Context, id string) error
	CountUserReleases(ctx context.Context, userID string) (int64, error)
	CountPendingReleases(ctx context.Context, userID string) (int64, error)

	CreateTrack(ctx context.Context, tx core.DBTX, track *Track) error
	GetTrack(ctx context.Context, id string) (*Track, error)
	ListTracks(ctx context.Context, releaseID string) ([]Track, error)
	SoftDeleteTrack(ctx context.Context, id string) error
	CountReleaseTracks(ctx context.Context, releaseID string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// CreateRelease accepts the executor so a release and its first tracks
// can share a transaction.
func (r *repository) CreateRelease(
	ctx context.Context,
	tx core.DBTX,
	release *Release,
) error {
	if tx == nil {
		tx = r.db
	}

	query := `
		INSERT INTO releases (
			id, user_id, artist_id, title, genre, status,
			release_date, cover_url, upc
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := tx.GetContext(ctx, release, query,
		release.ID,
		release.UserID,
		release.ArtistID,
		release.Title,
		release.Genre,
		release.Status,
		release.ReleaseDate,
		release.CoverURL,
		release.UPC,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create release: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create release: %w", err)
	}

	return nil
}

func (r *repository) GetRelease(
	ctx context.Context,
	id string,
) (*Release, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM releases
		WHERE id = $1 AND deleted_at IS NULL`, releaseColumns)

	var release Release
	err := r.db.GetContext(ctx, &release, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get release: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get release: %w", err)
	}

	return &release, nil
}

func (r *repository) ListReleases(
	ctx context.Context,
	params ListReleasesParams,
) ([]Release, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, params.UserID)
		argIdx++
	}

	if params.ArtistID != "" {
		conditions = append(conditions, fmt.Sprintf("artist_id = $%d", argIdx))
		args = append(args, params.ArtistID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM releases WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count releases: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM releases
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		releaseColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var releases []Release
	if err := r.db.SelectContext(ctx, &releases, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list releases: %w", err)
	}

	return releases, total, nil
}

func (r *repository) UpdateRelease(
	ctx context.Context,
	release *Release,
) error {
	query := `
		UPDATE releases
		SET title = $2, genre = $3, release_date = $4, cover_url = $5,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &release.UpdatedAt, query,
		release.ID,
		release.Title,
		release.Genre,
		release.ReleaseDate,
		release.CoverURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update release: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update release: %w", err)
	}

	return nil
}

func (r *repository) UpdateReleaseStatus(
	ctx context.Context,
	id, status string,
) error {
	query := `
		UPDATE releases
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update release status", query, id, status)
}

func (r *repository) SoftDeleteRelease(ctx context.Context, id string) error {
	query := `
		UPDATE releases
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "delete release", query, id)
}

func (r *repository) CountUserReleases(
	ctx context.Context,
	userID string,
) (int64, error) {
	query := `
		SELECT COUNT(*) FROM releases
		WHERE user_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count releases: %w", err)
	}

	return count, nil
}

func (r *repository) CountPendingReleases(
	ctx context.Context,
	userID string,
) (int64, error) {
	query := `
		SELECT COUNT(*) FROM releases
		WHERE user_id = $1 AND status = $2 AND deleted_at IS NULL`

	var count int64
	err := r.db.GetContext(ctx, &count, query, userID, ReleasePendingReview)
	if err != nil {
		return 0, fmt.Errorf("count pending releases: %w", err)
	}

	return count, nil
}

func (r *repository) CreateTrack(
	ctx context.Context,
	tx core.DBTX,
	track *Track,
) error {
	if tx == nil {
		tx = r.db
	}

	query := `
		INSERT INTO tracks (
			id, release_id, title, position, duration_seconds,
			isrc, file_url, file_size
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := tx.GetContext(ctx, track, query,
		track.ID,
		track.ReleaseID,
		track.Title,
		track.Position,
		track.DurationSeconds,
		track.ISRC,
		track.FileURL,
		track.FileSize,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create track: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create track: %w", err)
	}

	return nil
}

func (r *repository) GetTrack(ctx context.Context, id string) (*Track, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tracks
		WHERE id = $1 AND deleted_at IS NULL`, trackColumns)

	var track Track
	err := r.db.GetContext(ctx, &track, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get track: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}

	return &track, nil
}

func (r *repository) ListTracks(
	ctx context.Context,
	releaseID string,
) ([]Track, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tracks
		WHERE release_id = $1 AND deleted_at IS NULL
		ORDER BY position`, trackColumns)

	var tracks []Track
	if err := r.db.SelectContext(ctx, &tracks, query, releaseID); err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}

	return tracks, nil
}

func (r *repository) SoftDeleteTrack(ctx context.Context, id string) error {
	query := `
		UPDATE tracks
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "delete track", query, id)
}

func (r *repository) CountReleaseTracks(
	ctx context.Context,
	releaseID string,
) (int64, error) {
	query := `
		SELECT COUNT(*) FROM tracks
		WHERE release_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, releaseID); err != nil {
		return 0, fmt.Errorf("count tracks: %w", err)
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
