package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures surfaced by the booking core.
type ErrorKind string

const (
	KindTransport         ErrorKind = "TransportError"
	KindAuth              ErrorKind = "AuthError"
	KindInvalidTransition ErrorKind = "InvalidTransition"
	KindInvalidState      ErrorKind = "InvalidState"
	KindValidation        ErrorKind = "ValidationError"
	KindNotFound          ErrorKind = "NotFound"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrTransport         = &Error{Kind: KindTransport}
	ErrAuth              = &Error{Kind: KindAuth}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

// Error carries a kind, the operation that failed and a human readable message.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrAuth) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error of the given kind around cause.
func WrapError(kind ErrorKind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: cause}
}

// ParseErrorKind reports whether s names a known error kind.
func ParseErrorKind(s string) (ErrorKind, bool) {
	switch k := ErrorKind(s); k {
	case KindTransport, KindAuth, KindInvalidTransition, KindInvalidState, KindValidation, KindNotFound:
		return k, true
	}
	return "", false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}

// StatusFor maps an error kind onto the HTTP status the dev backend answers with.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidTransition, KindInvalidState:
		return http.StatusBadRequest
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
