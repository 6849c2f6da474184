// AngelaMos | 2026
// service_test.go

package user

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

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
	"github.com/carterperez-dev/soundline/internal/middleware"
)

// memoryRepo backs the service with maps so quota accounting can be
// asserted without a database.
type memoryRepo struct {
	users   map[string]*User
	artists []*Artist
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]*User{}}
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryRepo) UpdateProfile(_ context.Context, id, name string) error {
	return nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id, status string) error {
	return nil
}

func (m *memoryRepo) UpdatePermissions(
	_ context.Context, id string, perms PermissionMap,
) error {
	return nil
}

func (m *memoryRepo) UpdateSubscription(_ context.Context, u *User) error {
	return nil
}

func (m *memoryRepo) SoftDelete(_ context.Context, id string) error {
	return nil
}

func (m *memoryRepo) List(
	_ context.Context, params ListUsersParams,
) ([]User, int, error) {
	return nil, 0, nil
}

func (m *memoryRepo) ListTeamMembers(
	_ context.Context, parentID string,
) ([]User, error) {
	return nil, nil
}

func (m *memoryRepo) CreateArtist(_ context.Context, a *Artist) error {
	m.artists = append(m.artists, a)
	return nil
}

func (m *memoryRepo) ListArtists(
	_ context.Context, userID string,
) ([]Artist, error) {
	var out []Artist
	for _, a := range m.artists {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memoryRepo) CountManagedArtists(
	_ context.Context, userID string,
) (int64, error) {
	var n int64
	for _, a := range m.artists {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

// repoDirectory resolves subjects straight from the repo, mirroring the
// wiring in main.
type repoDirectory struct {
	repo Repository
}

func (d repoDirectory) SubjectByID(
	ctx context.Context, id string,
) (*entitlement.Subject, error) {
	u, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToSubject(), nil
}

type artistCounter struct {
	repo Repository
}

func (c artistCounter) CountManagedArtists(
	ctx context.Context, userID string,
) (int64, error) {
	return c.repo.CountManagedArtists(ctx, userID)
}

func (c artistCounter) CountUserReleases(
	context.Context, string,
) (int64, error) {
	return 0, nil
}

func (c artistCounter) CountReleaseTracks(
	context.Context, string,
) (int64, error) {
	return 0, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storeFreeTierParent(repo *memoryRepo, id string) *User {
	parent := &User{
		ID:                 id,
		Email:              id + "@example.com",
		Role:               string(entitlement.RoleArtist),
		Status:             string(entitlement.StatusActive),
		Permissions:        PermissionMap{},
		SubscriptionPlan:   string(entitlement.PlanFree),
		SubscriptionStatus: entitlement.SubscriptionActive,
	}
	repo.users[id] = parent
	return parent
}

func teamMemberSubject(parentID string) *entitlement.Subject {
	return &entitlement.Subject{
		ID:       "member-1",
		Role:     entitlement.RoleTeamMember,
		Status:   entitlement.StatusActive,
		ParentID: &parentID,
		Permissions: map[string]bool{
			entitlement.PermManageArtists: true,
		},
		Subscription: entitlement.SubscriptionState{
			Plan:   entitlement.PlanFree,
			Status: entitlement.SubscriptionActive,
		},
	}
}

func TestCreateArtistAttributesToParent(t *testing.T) {
	repo := newMemoryRepo()
	parent := storeFreeTierParent(repo, "parent-1")

	resolver := entitlement.NewResolver(repoDirectory{repo}, discardLogger())
	svc := NewService(repo, resolver, artistCounter{repo})

	member := teamMemberSubject(parent.ID)

	_, err := svc.CreateArtist(
		context.Background(), member, CreateArtistRequest{Name: "Nova"})
	require.NoError(t, err)

	require.Len(t, repo.artists, 1)
	assert.Equal(t, parent.ID, repo.artists[0].UserID)

	parentCount, err := repo.CountManagedArtists(context.Background(), parent.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, parentCount)

	memberCount, err := repo.CountManagedArtists(context.Background(), member.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, memberCount)

	// The member's roster view resolves to the parent's artists.
	listed, err := svc.ListArtists(context.Background(), member)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

// Delegated creations must consume the parent's quota: on the free tier
// (one artist), a team member's first creation lands on the parent and
// the second is denied by the guard.
func TestDelegatedArtistCreationConsumesParentQuota(t *testing.T) {
	repo := newMemoryRepo()
	parent := storeFreeTierParent(repo, "parent-1")

	logger := discardLogger()
	resolver := entitlement.NewResolver(repoDirectory{repo}, logger)
	counter := artistCounter{repo}
	svc := NewService(repo, resolver, counter)
	guard := middleware.NewLimitGuard(resolver, counter, logger)

	member := teamMemberSubject(parent.ID)
	inject := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.SubjectKey, member)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, Guards{
		Authenticator:     inject,
		CheckSubscription: middleware.CheckSubscription,
		ArtistLimit: guard.CheckFeatureLimit(
			entitlement.FeatureArtists),
	})

	post := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(
			http.MethodPost, "/artists", strings.NewReader(`{"name":"Nova"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, r)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	require.Len(t, repo.artists, 1)
	assert.Equal(t, parent.ID, repo.artists[0].UserID)

	second := post()
	require.Equal(t, http.StatusForbidden, second.Code)
	assert.Len(t, repo.artists, 1)
	assert.Contains(t, second.Body.String(), "Subscription limit reached")
	assert.Contains(t, second.Body.String(), "Your primary artist/label")
}
