package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
	"github.com/mhasan0505/sanslibyzebin/pkg/validator"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	// Redirect points the client at a page it can navigate to instead.
	Redirect string `json:"redirect,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardized error response based on the error type.
// Internal errors are logged with the request-scoped logger when the
// RequestLogger middleware is mounted, otherwise with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	writeError(w, r, err, fallback, "")
}

// WriteErrorWithRedirect is WriteError plus a navigation escape hatch the
// client can follow, e.g. back to the collections page.
func WriteErrorWithRedirect(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger, redirect string) {
	writeError(w, r, err, fallback, redirect)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger, redirect string) {
	status, code, message := apperrors.Classify(err)
	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Error: &ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: logger.CorrelationIDFromContext(r.Context()),
		Redirect:  redirect,
	}})
}

// WriteAppError renders e without logging it. Middleware that already logged
// the failure, or rejects a request before any handler runs, uses it. r may
// be nil when no request id is available.
func WriteAppError(w http.ResponseWriter, r *http.Request, e *apperrors.AppError) {
	body := &ErrorResponse{Code: e.Code, Message: e.Message}
	if r != nil {
		body.RequestID = logger.CorrelationIDFromContext(r.Context())
	}
	WriteJSON(w, e.Status, Response{Error: body})
}

// WriteValidationError writes a standardized validation error response.
// It handles ValidationError from the validator package and returns field-level errors.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 INVALID_PARAMETER response and returns false, signaling the caller to
// return early.
func ParseID(w http.ResponseWriter, r *http.Request, name, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil || id < 1 {
		WriteAppError(w, r, apperrors.InvalidParameter(name, param, "a positive integer"))
		return 0, false
	}
	return id, true
}
