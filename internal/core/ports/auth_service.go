package ports

import (
	"context"

	"github.com/confidence/identity-api/internal/core/domain"
)

// AuthService authenticates credentials and issues identity tokens.
type AuthService interface {
	// Login verifies the email/password pair and returns a signed bearer
	// token. Unknown email and wrong password are indistinguishable to the
	// caller.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenService issues and verifies stateless identity tokens. Expiry is the
// only invalidation mechanism; there is no revocation list.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify returns the embedded subject (the user's email). The caller is
	// responsible for resolving the subject back to a User.
	Verify(token string) (string, error)
}

// RecoveryService drives the forgot/reset-password flow.
type RecoveryService interface {
	// RequestReset mints a reset token and mails a reset link. An unknown
	// email completes as a silent no-op so the endpoint never leaks whether
	// an address is registered.
	RequestReset(ctx context.Context, email string) error
	// ResetPassword consumes the token exactly once: the token is deleted on
	// success and a second call with the same value fails.
	ResetPassword(ctx context.Context, tokenValue, newPassword string) error
}
