// Package apperr defines the error taxonomy shared by services, the
// repositories and the access gate. Errors are matched with errors.Is, so
// wrapping with fmt.Errorf("%w: detail", ...) keeps the classification
// while adding internal context. Anything outside the taxonomy is treated
// as an internal failure and rejected — the gate fails closed.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so accounts cannot be enumerated through the login endpoint.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive rejects a correctly authenticated but deactivated
	// principal.
	ErrAccountInactive = errors.New("account is deactivated")

	// ErrUnauthenticated means no verifiable credential was presented.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the principal lacks the required permission.
	ErrForbidden = errors.New("permission denied")

	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource already exists")

	// ErrStoreUnavailable wraps infrastructure failures from the data
	// layer.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// HTTPStatus maps a taxonomy error to its response status. Unclassified
// errors report 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountInactive), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe text for an error. Wrapped detail stays
// in the logs; clients only ever see the sentinel's message.
func Message(err error) string {
	for _, sentinel := range []error{
		ErrInvalidCredentials,
		ErrAccountInactive,
		ErrUnauthenticated,
		ErrForbidden,
		ErrNotFound,
		ErrConflict,
		ErrStoreUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}
