package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Wire codes carried in the "code" field of an error envelope.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeForbidden        = "FORBIDDEN"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Sentinel errors shared by the storefront packages. Every AppError wraps
// exactly one of them so callers can branch with errors.Is.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrServiceUnavail   = errors.New("service unavailable")
	ErrInternal         = errors.New("internal error")
)

// kind describes how a sentinel is presented to shoppers.
type kind struct {
	sentinel error
	status   int
	code     string
	// public is shown instead of the error text; empty means the error text
	// is safe to show.
	public string
}

var (
	notFound     = kind{ErrNotFound, http.StatusNotFound, CodeNotFound, "resource not found"}
	invalidInput = kind{ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput, ""}
	forbidden    = kind{ErrForbidden, http.StatusForbidden, CodeForbidden, "forbidden"}
	unsupported  = kind{ErrUnsupportedMedia, http.StatusUnsupportedMediaType, CodeUnsupportedMedia, ""}
	unavailable  = kind{ErrServiceUnavail, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable"}
	internal     = kind{ErrInternal, http.StatusInternalServerError, CodeInternal, "an internal error occurred"}

	kinds = []kind{notFound, invalidInput, forbidden, unsupported, unavailable}
)

// AppError is a structured application error carrying its HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(k kind, message string, cause error) *AppError {
	err := k.sentinel
	if cause != nil {
		err = errors.Join(k.sentinel, cause)
	}
	return &AppError{Code: k.code, Message: message, Status: k.status, Err: err}
}

// NotFound reports a missing product, category or collection.
func NotFound(resource, id string) *AppError {
	return newError(notFound, fmt.Sprintf("%s with id %s not found", resource, id), nil)
}

// InvalidInput reports a request the shopper can fix.
func InvalidInput(message string) *AppError {
	return newError(invalidInput, message, nil)
}

// InvalidParameter reports a malformed query or path parameter.
func InvalidParameter(name, value, want string) *AppError {
	e := newError(invalidInput, fmt.Sprintf("%s must be %s: %q", name, want, value), nil)
	e.Code = CodeInvalidParameter
	return e
}

// Forbidden reports a caller outside an allowlist.
func Forbidden(message string) *AppError {
	return newError(forbidden, message, nil)
}

// UnsupportedMediaType reports a body in a format the API does not accept.
func UnsupportedMediaType(want string) *AppError {
	return newError(unsupported, "Content-Type must be "+want, nil)
}

// Unavailable wraps a failure of a backing dependency such as the session store.
func Unavailable(dependency string, err error) *AppError {
	return newError(unavailable, dependency+" is unavailable", err)
}

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return newError(internal, internal.public, err)
}

// Classify maps any error to the status, code and shopper-facing message it
// is rendered with. AppErrors keep their own message; bare sentinels fall
// back to a public text unless their message is safe to echo.
func Classify(err error) (status int, code, message string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Code, appErr.Message
	}
	for _, k := range kinds {
		if !errors.Is(err, k.sentinel) {
			continue
		}
		if k.public != "" {
			return k.status, k.code, k.public
		}
		return k.status, k.code, err.Error()
	}
	return internal.status, internal.code, internal.public
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	status, _, _ := Classify(err)
	return status
}
