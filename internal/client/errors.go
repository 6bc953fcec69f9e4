package client

import "fmt"

// APIError is a server rejection that no more specific error type covers.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Detail)
}

// ValidationError covers bad input, whether caught locally before any I/O or
// rejected by the server with a 400.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// AuthorizationError covers 401 and 403: missing, expired or insufficient
// credentials.
type AuthorizationError struct {
	StatusCode int
	Detail     string
}

func (e *AuthorizationError) Error() string { return e.Detail }

type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// DuplicateItemError means the list already holds this media entry. The
// Detail is the server's message, shown to the user verbatim.
type DuplicateItemError struct {
	Detail string
}

func (e *DuplicateItemError) Error() string { return e.Detail }

// DuplicateRatingError means the user already rated this media entry; the
// caller should offer update or delete instead.
type DuplicateRatingError struct {
	Detail string
}

func (e *DuplicateRatingError) Error() string { return e.Detail }

// NetworkError wraps transport failures: connection refused, timeouts,
// cancelled contexts, unreadable responses.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }
