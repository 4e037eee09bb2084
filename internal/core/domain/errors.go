package domain

import "errors"

// Validation.
var (
	ErrValidation       = errors.New("all fields are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrOwnerNotFound    = errors.New("debt owner does not exist")
)

// Conflict.
var ErrUserExists = errors.New("username already taken")

// Authentication.
var (
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUnauthenticated    = errors.New("invalid token")
)

// Authorization.
var ErrForbidden = errors.New("access denied")

// Not found.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrDebtNotFound = errors.New("debt not found")
)
