package contract

import "errors"

var (
	ErrContentLoad     = errors.New("content load failed")
	ErrGraphInvalid    = errors.New("scene graph validation failed")
	ErrValidation      = errors.New("validation failed")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)
