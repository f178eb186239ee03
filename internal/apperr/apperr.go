// Package apperr defines the error taxonomy shared by services and handlers.
// Services wrap one of these sentinels with context; handlers map the
// sentinel to an HTTP status code and never leak anything else.
package apperr

import "errors"

// ErrValidation marks bad or missing client input.
var ErrValidation = errors.New("invalid input")

// ErrUnauthorized marks a missing, invalid, or expired credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden marks a valid identity attempting a forbidden action.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound marks an absent resource.
var ErrNotFound = errors.New("not found")

// ErrConflict marks a uniqueness violation.
var ErrConflict = errors.New("already exists")

// ErrDependency marks a failure in an external collaborator (store, mail).
var ErrDependency = errors.New("dependency failure")
