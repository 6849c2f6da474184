// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
	"github.com/carterperez-dev/soundline/internal/notify"
)

var (
	ErrNotOwner            = errors.New("release belongs to another account")
	ErrNotEditable         = errors.New("release is not editable")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPendingLimitReached = errors.New("pending release limit reached")
	ErrTrackLimitReached   = errors.New("track limit reached")
)

type Service struct {
	db        *sqlx.DB
	repo      Repository
	resolver  *entitlement.Resolver
	publisher notify.Publisher
	logger    *slog.Logger
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	resolver *entitlement.Resolver,
	publisher notify.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateRelease inserts the release and any initial tracks in one
// transaction. The release quota is enforced by middleware before this
// runs; the initial track batch is checked here because the per-track
// guard only sees one insert at a time.
func (s *Service) CreateRelease(
	ctx context.Context,
	subject *entitlement.Subject,
	req CreateReleaseRequest,
) (*ReleaseResponse, error) {
	effective := s.resolver.EffectiveSubject(ctx, subject)
	limits := s.resolver.Resolve(effective)

	if len(req.Tracks) > 0 &&
		!limits.MaxTracksPerRelease.Allows(int64(len(req.Tracks)-1)) {
		return nil, ErrTrackLimitReached
	}

	release := &Release{
		ID:          uuid.New().String(),
		UserID:      effective.ID,
		ArtistID:    req.ArtistID,
		Title:       req.Title,
		Genre:       req.Genre,
		Status:      ReleaseDraft,
		ReleaseDate: req.ReleaseDate,
		CoverURL:    req.CoverURL,
		UPC:         req.UPC,
	}

	tracks := make([]*Track, 0, len(req.Tracks))
	for i, tr := range req.Tracks {
		position := tr.Position
		if position == 0 {
			position = i + 1
		}
		tracks = append(tracks, &Track{
			ID:              uuid.New().String(),
			ReleaseID:       release.ID,
			Title:           tr.Title,
			Position:        position,
			DurationSeconds: tr.DurationSeconds,
			ISRC:            tr.ISRC,
			FileURL:         tr.FileURL,
			FileSize:        tr.FileSize,
		})
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateRelease(ctx, tx, release); err != nil {
			return err
		}
		for _, track := range tracks {
			if err := s.repo.CreateTrack(ctx, tx, track); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toReleaseResponse(release)
	for _, track := range tracks {
		resp.Tracks = append(resp.Tracks, toTrackResponse(track))
	}
	return &resp, nil
}

func (s *Service) GetRelease(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
) (*ReleaseResponse, error) {
	release, err := s.authorizedRelease(ctx, subject, releaseID)
	if err != nil {
		return nil, err
	}

	tracks, err := s.repo.ListTracks(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	resp := toReleaseResponse(release)
	for i := range tracks {
		resp.Tracks = append(resp.Tracks, toTrackResponse(&tracks[i]))
	}
	return &resp, nil
}

// ListReleases scopes non-admin callers to their own (or their parent's)
// catalog regardless of the requested filter.
func (s *Service) ListReleases(
	ctx context.Context,
	subject *entitlement.Subject,
	params ListReleasesParams,
) ([]ReleaseResponse, int, error) {
	if !subject.IsAdmin() {
		effective := s.resolver.EffectiveSubject(ctx, subject)
		params.UserID = effective.ID
	}

	releases, total, err := s.repo.ListReleases(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReleaseResponse, 0, len(releases))
	for i := range releases {
		responses = append(responses, toReleaseResponse(&releases[i]))
	}
	return responses, total, nil
}

func (s *Service) UpdateRelease(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
	req UpdateReleaseRequest,
) (*ReleaseResponse, error) {
	release, err := s.authorizedRelease(ctx, subject, releaseID)
	if err != nil {
		return nil, err
	}

	if !release.IsEditable() {
		return nil, ErrNotEditable
	}

	release.Title = req.Title
	release.Genre = req.Genre
	release.ReleaseDate = req.ReleaseDate
	release.CoverURL = req.CoverURL

	if err := s.repo.UpdateRelease(ctx, release); err != nil {
		return nil, err
	}

	resp := toReleaseResponse(release)
	return &resp, nil
}

// SubmitRelease moves a draft into review, gated on the plan's pending
// release ceiling.
func (s *Service) SubmitRelease(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
) error {
	release, err := s.authorizedRelease(ctx, subject, releaseID)
	if err != nil {
		return err
	}

	if !transitionAllowed(release.Status, ReleasePendingReview) {
		return ErrInvalidTransition
	}

	effective := s.resolver.EffectiveSubject(ctx, subject)
	limits := s.resolver.Resolve(effective)

	pending, err := s.repo.CountPendingReleases(ctx, effective.ID)
	if err != nil {
		return err
	}

	if !limits.MaxReleasesPending.Allows(pending) {
		return ErrPendingLimitReached
	}

	err = s.repo.UpdateReleaseStatus(ctx, releaseID, ReleasePendingReview)
	if err != nil {
		return err
	}

	// Best effort. The submission already committed.
	if err := s.publisher.Publish(ctx, notify.Event{
		Type:       notify.EventReleaseSubmitted,
		UserID:     effective.ID,
		ResourceID: releaseID,
	}); err != nil {
		s.logger.Error("event publish failed",
			"type", notify.EventReleaseSubmitted,
			"release_id", releaseID,
			"error", err,
		)
	}

	return nil
}

// SetReleaseStatus applies a moderation transition. Callers are expected
// to be admin-gated; the transition table is still enforced.
func (s *Service) SetReleaseStatus(
	ctx context.Context,
	releaseID, status string,
) error {
	release, err := s.repo.GetRelease(ctx, releaseID)
	if err != nil {
		return err
	}

	if !transitionAllowed(release.Status, status) {
		return ErrInvalidTransition
	}

	return s.repo.UpdateReleaseStatus(ctx, releaseID, status)
}

func (s *Service) DeleteRelease(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
) error {
	if _, err := s.authorizedRelease(ctx, subject, releaseID); err != nil {
		return err
	}

	return s.repo.SoftDeleteRelease(ctx, releaseID)
}

func (s *Service) AddTrack(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
	req CreateTrackRequest,
) (*TrackResponse, error) {
	release, err := s.authorizedRelease(ctx, subject, releaseID)
	if err != nil {
		return nil, err
	}

	if !release.IsEditable() {
		return nil, ErrNotEditable
	}

	position := req.Position
	if position == 0 {
		count, err := s.repo.CountReleaseTracks(ctx, releaseID)
		if err != nil {
			return nil, err
		}
		position = int(count) + 1
	}

	track := &Track{
		ID:              uuid.New().String(),
		ReleaseID:       releaseID,
		Title:           req.Title,
		Position:        position,
		DurationSeconds: req.DurationSeconds,
		ISRC:            req.ISRC,
		FileURL:         req.FileURL,
		FileSize:        req.FileSize,
	}

	if err := s.repo.CreateTrack(ctx, nil, track); err != nil {
		return nil, err
	}

	resp := toTrackResponse(track)
	return &resp, nil
}

func (s *Service) ListTracks(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
) ([]TrackResponse, error) {
	if _, err := s.authorizedRelease(ctx, subject, releaseID); err != nil {
		return nil, err
	}

	tracks, err := s.repo.ListTracks(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	responses := make([]TrackResponse, 0, len(tracks))
	for i := range tracks {
		responses = append(responses, toTrackResponse(&tracks[i]))
	}
	return responses, nil
}

func (s *Service) DeleteTrack(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID, trackID string,
) error {
	release, err := s.authorizedRelease(ctx, subject, releaseID)
	if err != nil {
		return err
	}

	if !release.IsEditable() {
		return ErrNotEditable
	}

	track, err := s.repo.GetTrack(ctx, trackID)
	if err != nil {
		return err
	}

	if track.ReleaseID != release.ID {
		return fmt.Errorf("delete track: %w", core.ErrNotFound)
	}

	return s.repo.SoftDeleteTrack(ctx, trackID)
}

// authorizedRelease loads the release and verifies the subject may act
// on it. Team members act on their parent's catalog.
func (s *Service) authorizedRelease(
	ctx context.Context,
	subject *entitlement.Subject,
	releaseID string,
) (*Release, error) {
	release, err := s.repo.GetRelease(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	if subject.IsAdmin() {
		return release, nil
	}

	effective := s.resolver.EffectiveSubject(ctx, subject)
	if release.UserID != effective.ID {
		return nil, ErrNotOwner
	}

	return release, nil
}
