// AngelaMos | 2026
// handler.go

package subscription

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/soundline/internal/core"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/subscription/plans", h.ListPlans)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/subscription-status", h.GetStatus)
		r.Post("/payment", h.SubmitPayment)
		r.Post("/subscription/cancel", h.Cancel)
	})
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Plans())
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	core.OK(w, h.service.Status(subject))
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payment, err := h.service.SubmitPayment(r.Context(), subject, req)
	if err != nil {
		if errors.Is(err, ErrPaymentAlreadyPending) {
			core.Conflict(w, "a payment is already pending review")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, payment)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == nil {
		core.Unauthorized(w, "Not authenticated")
		return
	}

	if err := h.service.Cancel(r.Context(), subject); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
