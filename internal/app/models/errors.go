package models

import "errors"

// Domain errors. Handlers classify them with errors.Is and map them to
// HTTP status codes; anything else is reported as an internal error.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
	ErrRateLimited     = errors.New("too many requests")
)

// DetailedError pairs a sentinel kind with the message shown to API clients.
type DetailedError struct {
	Kind   error
	Detail string
}

func (e *DetailedError) Error() string { return e.Detail }

func (e *DetailedError) Unwrap() error { return e.Kind }

// WithDetail wraps a sentinel kind with a client-facing message.
func WithDetail(kind error, detail string) error {
	return &DetailedError{Kind: kind, Detail: detail}
}
