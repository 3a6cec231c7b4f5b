package http

import "errors"

// ErrUnauthorized is returned when session authentication fails.
var ErrUnauthorized = errors.New("unauthorized")
