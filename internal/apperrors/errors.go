package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the caller is not permitted to perform the action.
var ErrForbidden = errors.New("action forbidden")

// ErrLookup indicates that a collaborator lookup (account directory, party
// directory, fee schedule) failed for infrastructure reasons. Callers decide
// whether to retry; the engine never does.
var ErrLookup = errors.New("lookup failed")

// ErrInternal indicates an unexpected internal fault.
var ErrInternal = errors.New("internal error")
