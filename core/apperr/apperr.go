package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the stable machine-readable error category exposed to API clients.
type Kind string

const (
	// KindInvalidInput marks malformed or empty request data. User-correctable.
	KindInvalidInput Kind = "invalid_input"
	// KindNotFound marks an absent session, item, or catalog entry.
	KindNotFound Kind = "not_found"
	// KindConflict marks a repeat scan rejected under the reject-duplicate policy.
	KindConflict Kind = "conflict"
	// KindStateError marks an operation invalid for the current session status.
	KindStateError Kind = "state_error"
	// KindUnavailable marks an unreachable dependency (catalog API, database).
	// Transient; the caller may retry.
	KindUnavailable Kind = "dependency_unavailable"
)

// Error carries a kind tag alongside the human-readable message.
// Data optionally holds a payload the client needs to render the failure
// (e.g. the existing scan line on a duplicate rejection).
type Error struct {
	Kind    Kind
	Message string
	Data    any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithData returns a copy of the error carrying a client-facing payload.
func (e *Error) WithData(data any) *Error {
	clone := *e
	clone.Data = data
	return &clone
}

// KindOf extracts the kind from an error chain. Unknown errors report an
// empty kind so callers can treat them as internal failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is allows errors.Is matching on the kind alone.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindStateError:
		// The session exists but refuses writes; 423 distinguishes this from
		// both 404 and 409 so scanner UIs can phrase the feedback differently.
		return fiber.StatusLocked
	case KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// body is the JSON error envelope rendered to clients.
type body struct {
	Error struct {
		Kind    Kind   `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
	Data any `json:"data,omitempty"`
}

// Respond writes the error as a JSON response with the mapped status code.
func Respond(c *fiber.Ctx, err error) error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = &Error{Kind: "", Message: "internal error", Err: err}
	}

	var b body
	b.Error.Kind = appErr.Kind
	b.Error.Message = appErr.Message
	b.Data = appErr.Data
	return c.Status(StatusCode(appErr.Kind)).JSON(b)
}

// ErrorHandler is the app-level Fiber error handler for errors that escape
// a handler without being rendered by Respond.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiber.Map{"kind": "", "message": fiberErr.Message},
		})
	}
	return Respond(c, err)
}
