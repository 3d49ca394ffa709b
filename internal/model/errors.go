package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by storage, services and handlers. Callers wrap
// them with detail (fmt.Errorf("%w: ...")) and handlers map them to HTTP
// status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrStore              = errors.New("store failure")
)
