// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file defines the error taxonomy exposed by the store
// gateway.
//
// Callers are expected to branch with errors.Is / the classification helpers
// rather than string-matching driver messages themselves:
//
//   - ErrNotFound: the requested row does not exist.
//   - IsUnavailable(err): the store could not be reached; retry with backoff.
//   - IsConstraintViolation(err): a uniqueness/FK invariant was violated in a
//     way the idempotent insert path did not expect. Fatal; never retried or
//     swallowed.
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// unavailableMarkers are driver message fragments that indicate the store
// itself is unreachable or refusing connections, as opposed to a bad query.
var unavailableMarkers = []string{
	"unable to open database",
	"database is locked",
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"bad connection",
}

// IsUnavailable reports whether err indicates the store could not be reached.
// Such failures are retryable at the gateway boundary with bounded backoff.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrInvalidDB) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsConstraintViolation reports whether err is a schema/invariant violation
// (unique key, foreign key, check). These are fatal: the idempotent insert
// path already absorbs the expected duplicate-key case via ON CONFLICT, so
// anything surfacing here means an invariant is broken.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}
