package domain

import "time"

// PasswordResetToken authorizes exactly one password change for one user.
// Lifecycle: issued → consumed (deleted on successful reset) or left to
// expire. The value is an opaque random string, never a JWT.
type PasswordResetToken struct {
	ID         string
	Token      string
	UserID     string
	ExpiryDate time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token's expiry has passed at the given instant.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return t.ExpiryDate.Before(now)
}
