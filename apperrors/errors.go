package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds. Compare with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrExternal     = errors.New("external service failed")
	ErrBusinessRule = errors.New("business rule violated")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a fixed user-facing message plus the underlying cause.
type Error struct {
	Op      string // e.g. "highlight.Swap"
	Kind    error  // one of the Err* kinds above
	Message string // shown to the user as-is
	Err     error  // cause, never shown
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is lets errors.Is match the kind as well as the wrapped cause.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(op, msg string) error {
	return &Error{Op: op, Kind: ErrValidation, Message: msg}
}

func NotFound(op, msg string) error {
	return &Error{Op: op, Kind: ErrNotFound, Message: msg}
}

func BusinessRule(op, msg string) error {
	return &Error{Op: op, Kind: ErrBusinessRule, Message: msg}
}

func Unauthorized(op, msg string) error {
	return &Error{Op: op, Kind: ErrUnauthorized, Message: msg}
}

// External wraps a store or gateway failure behind a fixed message.
func External(op, msg string, err error) error {
	return &Error{Op: op, Kind: ErrExternal, Message: msg, Err: err}
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// Status maps an error kind to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBusinessRule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrExternal):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes {"error": message} with the status matching err.
func Respond(c *gin.Context, err error) {
	c.JSON(Status(err), gin.H{"error": Message(err)})
}
