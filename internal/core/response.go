// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: message})
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnauthorized, errorBody{Error: message})
}

func Forbidden(w http.ResponseWriter, message string) {
	JSON(w, http.StatusForbidden, errorBody{Error: message})
}

func NotFound(w http.ResponseWriter, resource string) {
	JSON(w, http.StatusNotFound, errorBody{
		Error: fmt.Sprintf("%s not found", resource),
	})
}

func Conflict(w http.ResponseWriter, message string) {
	JSON(w, http.StatusConflict, errorBody{Error: message})
}

func PaymentRequired(w http.ResponseWriter, errMsg, message string) {
	JSON(w, http.StatusPaymentRequired, errorBody{
		Error:   errMsg,
		Message: message,
	})
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	JSON(w, http.StatusInternalServerError, errorBody{Error: "Server error"})
}

func JSONError(w http.ResponseWriter, err error) {
	if appErr, ok := AsAppError(err); ok {
		JSON(w, appErr.Status, errorBody{Error: appErr.Message})
		return
	}

	InternalServerError(w, err)
}

type paginatedResponse struct {
	Data       any `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

func Paginated(w http.ResponseWriter, data any, page, pageSize, total int) {
	resp := paginatedResponse{Data: data}
	resp.Pagination.Page = page
	resp.Pagination.PageSize = pageSize
	resp.Pagination.Total = total

	if pageSize > 0 {
		resp.Pagination.TotalPages = (total + pageSize - 1) / pageSize
	}

	JSON(w, http.StatusOK, resp)
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages,
				fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			messages = append(messages,
				fmt.Sprintf("%s must be a valid email", fieldErr.Field()))
		case "min":
			messages = append(messages,
				fmt.Sprintf("%s must be at least %s characters",
					fieldErr.Field(), fieldErr.Param()))
		case "max":
			messages = append(messages,
				fmt.Sprintf("%s must be at most %s characters",
					fieldErr.Field(), fieldErr.Param()))
		case "oneof":
			messages = append(messages,
				fmt.Sprintf("%s must be one of: %s",
					fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages,
				fmt.Sprintf("%s is invalid", fieldErr.Field()))
		}
	}

	return strings.Join(messages, "; ")
}
