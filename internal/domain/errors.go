package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrInvalidCredentials is returned on login failure. Unknown email and
// wrong password produce this same value so callers cannot probe for
// registered addresses.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoData is returned by the export when the store has no tables.
var ErrNoData = errors.New("no data to export")
