package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("unauthorized access to this chat")
	ErrValidation = errors.New("validation failed")
)
