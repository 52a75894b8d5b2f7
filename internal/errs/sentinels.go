// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"context"
	"errors"
)

// Common sentinels across request/service/repository layers.
var (
	// ErrInvalidRequest indicates a malformed envelope, an unknown function token
	// or a missing required field. Client fault, never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized indicates missing authentication or a credential mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrStorage indicates an underlying storage failure.
	ErrStorage = errors.New("storage error")
)

// Reply codes reported to clients.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodeCanceled       = "CANCELED"
	CodeInternal       = "INTERNAL"
)

// Code maps err to a stable reply code. Unauthorized wins over NotFound so that
// a login against an unknown email looks like a wrong password.
func Code(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	default:
		return CodeInternal
	}
}
