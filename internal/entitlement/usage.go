// AngelaMos | 2026
// usage.go

package entitlement

import (
	"context"
	"log/slog"
)

// failOpenCounter wraps a UsageCounter so counting failures read as zero
// consumption instead of propagating. A transient database error grants
// quota rather than denying the request; the tradeoff is availability
// over strict enforcement, and every swallowed error is logged.
type failOpenCounter struct {
	inner  UsageCounter
	logger *slog.Logger
}

func NewFailOpenCounter(inner UsageCounter, logger *slog.Logger) UsageCounter {
	return &failOpenCounter{inner: inner, logger: logger}
}

func (c *failOpenCounter) CountManagedArtists(
	ctx context.Context,
	userID string,
) (int64, error) {
	count, err := c.inner.CountManagedArtists(ctx, userID)
	if err != nil {
		c.logger.Error("count managed artists failed, treating as zero",
			"user_id", userID,
			"error", err,
		)
		return 0, nil
	}
	return count, nil
}

func (c *failOpenCounter) CountUserReleases(
	ctx context.Context,
	userID string,
) (int64, error) {
	count, err := c.inner.CountUserReleases(ctx, userID)
	if err != nil {
		c.logger.Error("count user releases failed, treating as zero",
			"user_id", userID,
			"error", err,
		)
		return 0, nil
	}
	return count, nil
}

func (c *failOpenCounter) CountReleaseTracks(
	ctx context.Context,
	releaseID string,
) (int64, error) {
	count, err := c.inner.CountReleaseTracks(ctx, releaseID)
	if err != nil {
		c.logger.Error("count release tracks failed, treating as zero",
			"release_id", releaseID,
			"error", err,
		)
		return 0, nil
	}
	return count, nil
}
