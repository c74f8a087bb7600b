package core

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for entities that do not exist or are not owned
// by the requesting user. The HTTP layer maps it to 404 in both cases so that
// ownership probing cannot reveal existence.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized marks missing, malformed or expired credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict marks operations blocked by referential integrity, such as
// deleting a subcategory that transactions or budgets still reference.
var ErrConflict = errors.New("conflict")

// RateNotFoundError is returned when no exchange rate covers a required
// currency pair as of a given date, in either direction. Reports must fail
// with it instead of defaulting the rate.
type RateNotFoundError struct {
	From string
	To   string
	AsOf Date
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no exchange rate for %s->%s as of %s", e.From, e.To, e.AsOf)
}

// IsRateNotFound reports whether err carries a RateNotFoundError.
func IsRateNotFound(err error) bool {
	var rnf *RateNotFoundError
	return errors.As(err, &rnf)
}
