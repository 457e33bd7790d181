package service

import "errors"

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	ErrNotFound          = errors.New("record not found")
	ErrImmutableState    = errors.New("invoiced items cannot be modified")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicate         = errors.New("record already exists")
)
