// Package common defines sentinel errors shared by the repositories,
// services and transport layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors. Services wrap ErrorValidation with the offending
	// field, e.g. fmt.Errorf("%w: subject is required", ErrorValidation).
	ErrorValidation = errors.New("validation error")

	// Credential errors.
	ErrorDuplicateEmail     = errors.New("email already in use")
	ErrorInvalidCredentials = errors.New("invalid credentials")
)
