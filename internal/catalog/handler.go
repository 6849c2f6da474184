// AngelaMos | 2026
// handler.go

package catalog

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

// Guards are the quota and session middleware composed around the
// catalog routes by the caller.
type Guards struct {
	Authenticator     func(http.Handler) http.Handler
	CheckSubscription func(http.Handler) http.Handler
	ReleaseLimit      func(http.Handler) http.Handler
	TrackLimit        func(http.Handler) http.Handler
	FileSizeLimit     func(http.Handler) http.Handler
}

func (h *Handler) RegisterRoutes(r chi.Router, g Guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.Authenticator)
		r.Use(g.CheckSubscription)

		r.Route("/releases", func(r chi.Router) {
			r.Get("/", h.ListReleases)
			r.With(
				middleware.RequirePermission(entitlement.PermCreateReleases),
				g.ReleaseLimit,
				g.FileSizeLimit,
			).Post("/", h.CreateRelease)

			r.Route("/{releaseID}", func(r chi.Router) {
				r.Get("/", h.GetRelease)
				r.With(
					middleware.RequirePermission(entitlement.PermEditMetadata),
				).Put("/", h.UpdateRelease)
				r.With(
					middleware.RequirePermission(entitlement.PermCreateReleases),
				).Delete("/", h.DeleteRelease)
				r.With(
					middleware.RequirePermission(
						entitlement.PermManageDistribution),
				).Post("/submit", h.SubmitRelease)

				r.Get("/tracks", h.ListTracks)
				r.With(
					middleware.RequirePermission(entitlement.PermCreateReleases),
					g.TrackLimit,
					g.FileSizeLimit,
				).Post("/tracks", h.AddTrack)
				r.With(
					middleware.RequirePermission(entitlement.PermCreateReleases),
				).Delete("/tracks/{trackID}", h.DeleteTrack)
			})
		})
	})
}

func (h *Handler) CreateRelease(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	var req CreateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	release, err := h.service.CreateRelease(r.Context(), subject, req)
	if err != nil {
		if errors.Is(err, ErrTrackLimitReached) {
			core.Forbidden(w, "Track limit for this release exceeded")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, release)
}

func (h *Handler) GetRelease(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	release, err := h.service.GetRelease(
		r.Context(), subject, chi.URLParam(r, "releaseID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, release)
}

func (h *Handler) ListReleases(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	params := ListReleasesParams{
		ArtistID: r.URL.Query().Get("artist_id"),
		Status:   r.URL.Query().Get("status"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	releases, total, err := h.service.ListReleases(r.Context(), subject, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, releases, params.Page, params.PageSize, total)
}

func (h *Handler) UpdateRelease(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	var req UpdateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	release, err := h.service.UpdateRelease(
		r.Context(), subject, chi.URLParam(r, "releaseID"), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, release)
}

func (h *Handler) SubmitRelease(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	err := h.service.SubmitRelease(
		r.Context(), subject, chi.URLParam(r, "releaseID"))
	if err != nil {
		if errors.Is(err, ErrPendingLimitReached) {
			core.Forbidden(w,
				"You've reached your limit of releases pending review. "+
					"Please wait for current submissions to be processed "+
					"or upgrade your plan.")
			return
		}
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) DeleteRelease(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	err := h.service.DeleteRelease(
		r.Context(), subject, chi.URLParam(r, "releaseID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddTrack(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	var req CreateTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	track, err := h.service.AddTrack(
		r.Context(), subject, chi.URLParam(r, "releaseID"), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, track)
}

func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	tracks, err := h.service.ListTracks(
		r.Context(), subject, chi.URLParam(r, "releaseID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, tracks)
}

func (h *Handler) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	err := h.service.DeleteTrack(
		r.Context(),
		subject,
		chi.URLParam(r, "releaseID"),
		chi.URLParam(r, "trackID"),
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "release")
	case errors.Is(err, ErrNotOwner):
		core.Forbidden(w, "You don't have permission to access this resource")
	case errors.Is(err, ErrNotEditable):
		core.Conflict(w, "release can no longer be edited")
	case errors.Is(err, ErrInvalidTransition):
		core.Conflict(w, "invalid status transition")
	default:
		core.InternalServerError(w, err)
	}
}
