package repository

import "errors"

// Domain errors surfaced to the handler boundary

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrSheetNotFound = errors.New("sheet not found")
)
