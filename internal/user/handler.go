// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
	"github.com/carterperez-dev/soundline/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Guards are the middleware the route tree composes around user-facing
// endpoints. The caller wires them so the handler stays ignorant of
// session and quota plumbing.
type Guards struct {
	Authenticator     func(http.Handler) http.Handler
	CheckSubscription func(http.Handler) http.Handler
	ArtistLimit       func(http.Handler) http.Handler
}

func (h *Handler) RegisterRoutes(r chi.Router, g Guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.Authenticator)
		r.Use(g.CheckSubscription)

		r.Get("/user", h.GetMe)
		r.Put("/user", h.UpdateProfile)
		r.Get("/user/limits", h.GetLimits)

		r.Get("/artists", h.ListArtists)
		r.With(
			middleware.RequirePermission(entitlement.PermManageArtists),
			g.ArtistLimit,
		).Post("/artists", h.CreateArtist)

		r.Route("/team", func(r chi.Router) {
			r.Get("/", h.ListTeamMembers)
			r.With(
				middleware.RequirePermission(entitlement.PermInviteUsers),
			).Post("/", h.InviteTeamMember)
			r.With(
				middleware.RequirePermission(entitlement.PermInviteUsers),
			).Put("/{memberID}/permissions", h.UpdateMemberPermissions)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/users", h.ListUsers)
		r.Put("/users/{userID}/status", h.UpdateUserStatus)
		r.Delete("/users/{userID}", h.DeleteUser)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, req); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetLimits(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	limits, err := h.service.Limits(r.Context(), subject)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, limits)
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	var req CreateArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	artist, err := h.service.CreateArtist(r.Context(), subject, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "artist already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, artist)
}

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	artists, err := h.service.ListArtists(r.Context(), subject)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, artists)
}

func (h *Handler) InviteTeamMember(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req InviteTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	member, err := h.service.InviteTeamMember(
		r.Context(), userID, req.Email, passwordHash, req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.Conflict(w, "email already registered")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, member)
}

func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	members, err := h.service.ListTeamMembers(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, members)
}

func (h *Handler) UpdateMemberPermissions(
	w http.ResponseWriter,
	r *http.Request,
) {
	userID := middleware.GetUserID(r.Context())

	memberID := chi.URLParam(r, "memberID")
	if memberID == "" {
		core.BadRequest(w, "member ID required")
		return
	}

	var req UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.UpdateMemberPermissions(r.Context(), userID, memberID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "team member")
		case errors.Is(err, ErrNotTeamMember),
			errors.Is(err, ErrNotMemberParent):
			core.Forbidden(w, "cannot manage this user's permissions")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
		Plan:   r.URL.Query().Get("plan"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, users, params.Page, params.PageSize, total)
}

func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.BadRequest(w, "user ID required")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), userID, req.Status); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.BadRequest(w, "user ID required")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
