package errors

import "errors"

var (
	ErrTargetNotFound = errors.New("target not found")
	ErrTargetExists   = errors.New("target already registered")
	ErrInvalidTarget  = errors.New("target controller id is invalid")
)
