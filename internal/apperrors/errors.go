package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Error is the API-facing error carrying the HTTP status a handler should
// respond with. Messages on validation and not-found errors are safe to show
// to the client verbatim; database errors are not.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Database(msg string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, cause: cause}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// IsValidation reports whether err is a 400-class error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusBadRequest
}

// IsNotFound reports whether err is a 404-class error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// Postgres error codes worth translating into user-facing messages.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Translate maps store-level errors into the taxonomy. Errors that are
// already classified pass through unchanged; constraint violations become
// validation errors so the client sees a usable message instead of a
// database error code.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("record not found")
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Validation("a record with these values already exists")
		case pgForeignKeyViolation:
			return Validation("referenced record does not exist or is still in use")
		}
	}
	return Database("database error occurred", err)
}
