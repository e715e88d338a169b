package domain

import "errors"

// Field validation failures. ErrInvalidPassword is wrapped with a message
// naming the first rule that failed (blank, length, uppercase, lowercase,
// digit, special character).
var (
	ErrInvalidName     = errors.New("name must be at least 3 characters and not blank")
	ErrInvalidEmail    = errors.New("email must be a valid address of at least 15 characters")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidRoleName = errors.New("role name must be at least 3 characters and not blank")
)

// Persistence-level invariant failures.
var (
	ErrUserExists   = errors.New("user already exists with this email")
	ErrUserNotFound = errors.New("user not found")
	ErrRoleExists   = errors.New("role already exists")
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleInUse    = errors.New("role is still assigned to users")
)

// Authentication and token failures. ErrInvalidCredentials deliberately
// covers both unknown email and wrong password so callers cannot enumerate
// accounts.
var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrInvalidToken             = errors.New("invalid token")
	ErrTokenExpired             = errors.New("token expired")
	ErrInvalidResetToken        = errors.New("invalid password reset token")
	ErrResetTokenExpired        = errors.New("password reset token has expired")
)
