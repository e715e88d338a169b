package ports

import (
	"context"

	"github.com/confidence/identity-api/internal/core/domain"
)

// ResetTokenRepository persists password reset tokens. Tokens are deleted on
// successful consumption; expiry is checked at read time rather than swept.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	FindByToken(ctx context.Context, value string) (*domain.PasswordResetToken, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUserID removes all outstanding tokens for a user and returns
	// how many were removed.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
