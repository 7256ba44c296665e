package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidRole  = errors.New("invalid role")
	ErrSelfRemoval  = errors.New("cannot remove own account")
	ErrLastAdmin    = errors.New("cannot remove last super admin")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
