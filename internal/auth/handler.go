// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/soundline/internal/config"
	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/middleware"
)

type Handler struct {
	service   *Service
	session   config.SessionConfig
	validator *validator.Validate
}

func NewHandler(service *Service, session config.SessionConfig) *Handler {
	return &Handler{
		service:   service,
		session:   session,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/logout", h.Logout)
		r.Post("/logout-all", h.LogoutAll)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	account, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.Conflict(w, "email already registered")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	core.Created(w, toAccountResponse(account))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	account, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "Invalid email or password")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	core.OK(w, toAccountResponse(account))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.session.CookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			core.InternalServerError(w, err)
			return
		}
	}

	h.clearSessionCookie(w)
	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w)
	core.NoContent(w)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toAccountResponse(a *AccountInfo) AccountResponse {
	return AccountResponse{
		ID:               a.ID,
		Email:            a.Email,
		Name:             a.Name,
		Role:             string(a.Subject.Role),
		Status:           a.Status,
		SubscriptionPlan: string(a.Subject.Subscription.Plan),
		CreatedAt:        a.CreatedAt,
	}
}
