// AngelaMos | 2026
// limits.go

package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
)

// LimitGuard gates creation-style endpoints on the subject's effective
// quota. Checks are read-then-decide with no serialization: two
// concurrent requests can both observe an under-limit count and each
// land one past the ceiling. Accepted tradeoff; see DESIGN.md.
type LimitGuard struct {
	resolver *entitlement.Resolver
	usage    entitlement.UsageCounter
	logger   *slog.Logger
}

func NewLimitGuard(
	resolver *entitlement.Resolver,
	usage entitlement.UsageCounter,
	logger *slog.Logger,
) *LimitGuard {
	return &LimitGuard{
		resolver: resolver,
		usage:    usage,
		logger:   logger,
	}
}

type limitDenial struct {
	Error          string                      `json:"error"`
	Message        string                      `json:"message"`
	Limit          any                         `json:"limit"`
	Current        int64                       `json:"current"`
	LimitType      string                      `json:"limitType"`
	UpgradeOptions []entitlement.UpgradeOption `json:"upgradeOptions"`
}

// CheckFeatureLimit returns middleware denying the request when the
// feature's usage has reached its ceiling. Quota for team members is
// resolved and counted against the parent account. Admins bypass.
func (g *LimitGuard) CheckFeatureLimit(
	feature entitlement.Feature,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if subject == nil {
				core.Unauthorized(w, "Not authenticated")
				return
			}

			if subject.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			effective := g.resolver.EffectiveSubject(ctx, subject)
			limits := g.resolver.Resolve(effective)
			isDelegated := effective.ID != subject.ID

			switch feature {
			case entitlement.FeatureArtists:
				current, _ := g.usage.CountManagedArtists(ctx, effective.ID)
				if !limits.MaxArtists.Allows(current) {
					g.deny(w, denialParams{
						feature:   feature,
						limit:     limits.MaxArtists,
						current:   current,
						limits:    limits,
						actorRole: subject.Role,
						effective: effective,
						delegated: isDelegated,
					})
					return
				}

			case entitlement.FeatureReleases:
				current, _ := g.usage.CountUserReleases(ctx, effective.ID)
				if !limits.MaxReleases.Allows(current) {
					g.deny(w, denialParams{
						feature:   feature,
						limit:     limits.MaxReleases,
						current:   current,
						limits:    limits,
						actorRole: subject.Role,
						effective: effective,
						delegated: isDelegated,
					})
					return
				}

			case entitlement.FeatureTracks:
				releaseID := chi.URLParam(r, "releaseID")
				if releaseID == "" {
					// Cannot attribute the track to a release here; the
					// handler's own validation catches it.
					next.ServeHTTP(w, r)
					return
				}
				current, _ := g.usage.CountReleaseTracks(ctx, releaseID)
				if !limits.MaxTracksPerRelease.Allows(current) {
					g.deny(w, denialParams{
						feature:   feature,
						limit:     limits.MaxTracksPerRelease,
						current:   current,
						limits:    limits,
						actorRole: subject.Role,
						effective: effective,
						delegated: isDelegated,
					})
					return
				}

			case entitlement.FeatureFileSize:
				size := declaredFileSize(r)
				if size > limits.MaxFileSize {
					g.denyFileSize(w, size, limits, subject.Role, effective, isDelegated)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// declaredFileSize extracts the upload size the client declared in the
// request payload, then restores the body for the handler. Covers both a
// single track and the initial-tracks batch on a release; the largest
// declared size governs. Returns 0 when nothing is declared, leaving
// validation to the handler.
func declaredFileSize(r *http.Request) int64 {
	if r.Body == nil {
		return 0
	}

	body, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return 0
	}

	var payload struct {
		FileSize int64 `json:"fileSize"`
		Tracks   []struct {
			FileSize int64 `json:"fileSize"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0
	}

	size := payload.FileSize
	for _, track := range payload.Tracks {
		if track.FileSize > size {
			size = track.FileSize
		}
	}
	return size
}

type denialParams struct {
	feature   entitlement.Feature
	limit     entitlement.Limit
	current   int64
	limits    entitlement.EffectiveLimits
	actorRole entitlement.Role
	effective *entitlement.Subject
	delegated bool
}

func (g *LimitGuard) deny(w http.ResponseWriter, p denialParams) {
	planName := p.effective.Subscription.Plan.DisplayName()
	if planName == "" {
		planName = entitlement.PlanFree.DisplayName()
	}

	var message string
	if p.delegated {
		message = fmt.Sprintf(
			"Your primary artist/label has reached their limit of %s %s "+
				"on the %s plan. Please ask them to upgrade the plan to add more.",
			p.limit, p.feature, planName)
	} else {
		message = fmt.Sprintf(
			"You've reached your limit of %s %s %s. "+
				"Please upgrade your plan to add more.",
			p.limit, p.feature, p.limits.LimitType())
	}

	g.logger.Info("feature limit reached",
		"user_id", p.effective.ID,
		"feature", p.feature,
		"limit", p.limit.String(),
		"current", p.current,
	)

	core.JSON(w, http.StatusForbidden, limitDenial{
		Error:     "Subscription limit reached",
		Message:   message,
		Limit:     p.limit,
		Current:   p.current,
		LimitType: p.limits.LimitType(),
		UpgradeOptions: entitlement.UpgradeOptions(
			p.actorRole,
			p.feature,
		),
	})
}

func (g *LimitGuard) denyFileSize(
	w http.ResponseWriter,
	size int64,
	limits entitlement.EffectiveLimits,
	actorRole entitlement.Role,
	effective *entitlement.Subject,
	delegated bool,
) {
	const mb = 1024 * 1024
	limitMB := limits.MaxFileSize / mb
	sizeMB := size / mb

	var message string
	if delegated {
		message = fmt.Sprintf(
			"Your file size (%dMB) exceeds the maximum allowed size (%dMB) "+
				"on the %s plan. Please ask your primary artist/label to "+
				"upgrade their plan or upload a smaller file.",
			sizeMB, limitMB, effective.Subscription.Plan.DisplayName())
	} else {
		message = fmt.Sprintf(
			"Your file size (%dMB) exceeds the maximum allowed size (%dMB) %s. "+
				"Please upgrade your plan or upload a smaller file.",
			sizeMB, limitMB, limits.LimitType())
	}

	core.JSON(w, http.StatusForbidden, limitDenial{
		Error:     "Subscription limit reached",
		Message:   message,
		Limit:     limitMB,
		Current:   sizeMB,
		LimitType: limits.LimitType(),
		UpgradeOptions: entitlement.UpgradeOptions(
			actorRole,
			entitlement.FeatureFileSize,
		),
	})
}
