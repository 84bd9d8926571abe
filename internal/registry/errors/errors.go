// Package errors defines the sentinel errors shared across the registry
// service layers. Handlers translate them into HTTP status codes.
package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrConflict     = fmt.Errorf("already exists")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrForbidden    = fmt.Errorf("forbidden")
)
