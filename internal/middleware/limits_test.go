// AngelaMos | 2026
// limits_test.go

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

type fixedCounter struct {
	artists  int64
	releases int64
	tracks   int64
}

func (f *fixedCounter) CountManagedArtists(
	context.Context, string,
) (int64, error) {
	return f.artists, nil
}

func (f *fixedCounter) CountUserReleases(
	context.Context, string,
) (int64, error) {
	return f.releases, nil
}

func (f *fixedCounter) CountReleaseTracks(
	context.Context, string,
) (int64, error) {
	return f.tracks, nil
}

type fixedDirectory struct {
	subjects map[string]*entitlement.Subject
}

func (d *fixedDirectory) SubjectByID(
	_ context.Context,
	id string,
) (*entitlement.Subject, error) {
	return d.subjects[id], nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGuard(
	dir entitlement.Directory,
	usage entitlement.UsageCounter,
) *LimitGuard {
	logger := quietLogger()
	return NewLimitGuard(
		entitlement.NewResolver(dir, logger),
		usage,
		logger,
	)
}

func TestCheckFeatureLimitFreeTierArtistCeiling(t *testing.T) {
	guard := newGuard(
		&fixedDirectory{},
		&fixedCounter{artists: 1},
	)

	next, called := passthrough(t)
	handler := guard.CheckFeatureLimit(entitlement.FeatureArtists)(next)

	r := withSubject(
		httptest.NewRequest(http.MethodPost, "/api/artists", nil),
		activeSubject(entitlement.RoleArtist),
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)

	body := decodeBody(t, rec)
	assert.Equal(t, "Subscription limit reached", body["error"])
	assert.EqualValues(t, 1, body["limit"])
	assert.EqualValues(t, 1, body["current"])
	assert.Equal(t, "per month", body["limitType"])
	assert.Contains(t, body["message"], "upgrade your plan")

	options, ok := body["upgradeOptions"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, options)
}

func TestCheckFeatureLimitUnderCeilingPasses(t *testing.T) {
	guard := newGuard(
		&fixedDirectory{},
		&fixedCounter{artists: 0},
	)

	next, called := passthrough(t)
	handler := guard.CheckFeatureLimit(entitlement.FeatureArtists)(next)

	r := withSubject(
		httptest.NewRequest(http.MethodPost, "/api/artists", nil),
		activeSubject(entitlement.RoleArtist),
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestCheckFeatureLimitUnlimitedNeverDenies(t *testing.T) {
	guard := newGuard(
		&fixedDirectory{},
		&fixedCounter{releases: 10000},
	)

	subject := activeSubject(entitlement.RoleLabel)
	subject.Subscription.Plan = entitlement.PlanLabel

	next, called := passthrough(t)
	handler := guard.CheckFeatureLimit(entitlement.FeatureReleases)(next)

	r := withSubject(
		httptest.NewRequest(http.MethodPost, "/api/releases", nil),
		subject,
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestCheckFeatureLimitAdminBypass(t *testing.T) {
	guard := newGuard(
		&fixedDirectory{},
		&fixedCounter{artists: 999999},
	)

	next, called := passthrough(t)
	handler := guard.CheckFeatureLimit(entitlement.FeatureArtists)(next)

	r := withSubject(
		httptest.NewRequest(http.MethodPost, "/api/artists", nil),
		activeSubject(entitlement.RoleAdmin),
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestCheckFeatureLimitTeamMemberCountsAgainstParent(t *testing.T) {
	parentID := "parent-1"
	parent := activeSubject(entitlement.RoleArtist)
	parent.ID = parentID

	member := activeSubject(entitlement.RoleTeamMember)
	member.ID = "member-1"
	member.ParentID = &parentID

	guard := newGuard(
		&fixedDirectory{subjects: map[string]*entitlement.Subject{
			parentID: parent,
		}},
		&fixedCounter{artists: 1},
	)

	next, called := passthrough(t)
	handler := guard.CheckFeatureLimit(entitlement.FeatureArtists)(next)

	r := withSubject(
		httptest.NewRequest(http.MethodPost, "/api/artists", nil),
		member,
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)

	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "Your primary artist/label")
	assert.Contains(t, body["message"], "ask them to upgrade")
}

func TestCheckFeatureLimitFileSize(t *testing.T) {
	guard := newGuard(&fixedDirectory{}, &fixedCounter{})

	t.Run("oversized declared file denied", func(t *testing.T) {
		next, called := passthrough(t)
		handler := guard.CheckFeatureLimit(entitlement.FeatureFileSize)(next)

		// Free tier caps uploads at 50MB; the payload declares 10GB.
		body := strings.NewReader(`{"title":"Song","fileSize":10737418240}`)
		r := httptest.NewRequest(
			http.MethodPost, "/api/releases/rel-1/tracks", body)
		r = withSubject(r, activeSubject(entitlement.RoleArtist))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, *called)

		resp := decodeBody(t, rec)
		assert.EqualValues(t, 50, resp["limit"])
		assert.EqualValues(t, 10240, resp["current"])
		assert.Contains(t, resp["message"], "10240MB")
		assert.Contains(t, resp["message"], "50MB")
	})

	t.Run("oversized initial track on a release denied", func(t *testing.T) {
		next, called := passthrough(t)
		handler := guard.CheckFeatureLimit(entitlement.FeatureFileSize)(next)

		body := strings.NewReader(`{
			"title": "EP",
			"tracks": [
				{"title": "A", "fileSize": 1048576},
				{"title": "B", "fileSize": 62914560}
			]
		}`)
		r := httptest.NewRequest(http.MethodPost, "/api/releases", body)
		r = withSubject(r, activeSubject(entitlement.RoleArtist))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, *called)

		resp := decodeBody(t, rec)
		assert.EqualValues(t, 60, resp["current"])
	})

	t.Run("declared size within cap passes", func(t *testing.T) {
		next, called := passthrough(t)
		handler := guard.CheckFeatureLimit(entitlement.FeatureFileSize)(next)

		body := strings.NewReader(`{"title":"Song","fileSize":10485760}`)
		r := httptest.NewRequest(
			http.MethodPost, "/api/releases/rel-1/tracks", body)
		r = withSubject(r, activeSubject(entitlement.RoleArtist))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("body is replayable after the check", func(t *testing.T) {
		payload := `{"title":"Song","fileSize":10485760}`

		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			seen = string(raw)
		})
		handler := guard.CheckFeatureLimit(entitlement.FeatureFileSize)(next)

		r := httptest.NewRequest(
			http.MethodPost,
			"/api/releases/rel-1/tracks",
			strings.NewReader(payload),
		)
		r = withSubject(r, activeSubject(entitlement.RoleArtist))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, payload, seen)
	})
}

func TestCheckFeatureLimitTracksPerRelease(t *testing.T) {
	guard := newGuard(
		&fixedDirectory{},
		&fixedCounter{tracks: 1},
	)

	t.Run("free tier second track denied", func(t *testing.T) {
		next, called := passthrough(t)
		handler := guard.CheckFeatureLimit(entitlement.FeatureTracks)(next)

		r := httptest.NewRequest(
			http.MethodPost, "/api/releases/rel-1/tracks", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("releaseID", "rel-1")
		r = r.WithContext(
			context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		r = withSubject(r, activeSubject(entitlement.RoleArtist))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, *called)
	})

	t.Run("missing release id defers to handler", func(t *testing.T) {
		next, called := passthrough(t)
		handler := guard.CheckFeatureLimit(entitlement.FeatureTracks)(next)

		r := withSubject(
			httptest.NewRequest(http.MethodPost, "/api/tracks", nil),
			activeSubject(entitlement.RoleArtist),
		)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})
}

func TestCheckFeatureLimitUnauthenticated(t *testing.T) {
	guard := newGuard(&fixedDirectory{}, &fixedCounter{})

	next, called := passthrough(t)
	handler := guard.CheckFeatureLimit(entitlement.FeatureArtists)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/artists", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}
