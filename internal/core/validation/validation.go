// Package validation holds the field-level rules applied before any
// persistence check. All functions are pure: they inspect their input and
// return a typed domain error, or nil.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/confidence/identity-api/internal/core/domain"
)

const (
	minNameLen     = 3
	minEmailLen    = 15
	minPasswordLen = 8
	minRoleNameLen = 3

	specialChars = `!@#$%^&*()_+-={}[]:;"'<>,.?/`
)

// Name rejects blank names and names shorter than three characters.
func Name(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) < minNameLen {
		return domain.ErrInvalidName
	}
	return nil
}

// Email rejects blank values, addresses shorter than fifteen characters,
// and anything net/mail cannot parse as a bare address.
func Email(email string) error {
	if strings.TrimSpace(email) == "" || utf8.RuneCountInString(email) < minEmailLen {
		return domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.ErrInvalidEmail
	}
	return nil
}

// Password runs the six password rules in order: blank, length, uppercase,
// lowercase, digit, special character. The first failing rule wins and its
// message is attached to domain.ErrInvalidPassword.
func Password(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: cannot be blank", domain.ErrInvalidPassword)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: must have at least %d characters", domain.ErrInvalidPassword, minPasswordLen)
	}
	if !containsFunc(password, unicode.IsUpper) {
		return fmt.Errorf("%w: must contain at least one uppercase letter", domain.ErrInvalidPassword)
	}
	if !containsFunc(password, unicode.IsLower) {
		return fmt.Errorf("%w: must contain at least one lowercase letter", domain.ErrInvalidPassword)
	}
	if !containsFunc(password, unicode.IsDigit) {
		return fmt.Errorf("%w: must contain at least one digit", domain.ErrInvalidPassword)
	}
	if !strings.ContainsAny(password, specialChars) {
		return fmt.Errorf("%w: must contain at least one special character", domain.ErrInvalidPassword)
	}
	return nil
}

// RoleName rejects blank role names and names shorter than three characters.
func RoleName(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) < minRoleNameLen {
		return domain.ErrInvalidRoleName
	}
	return nil
}

func containsFunc(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if fn(r) {
			return true
		}
	}
	return false
}
