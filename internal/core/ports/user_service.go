package ports

import (
	"context"

	"github.com/confidence/identity-api/internal/core/domain"
)

// CreateUserInput carries all data needed to register a new user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateNameInput renames a user. Nil means the field was absent from the
// request and must be left untouched.
type UpdateNameInput struct {
	Name *string
}

// UpdateEmailInput changes a user's email address.
type UpdateEmailInput struct {
	Email string
}

// UpdatePasswordInput changes a user's password after re-verifying the
// current one.
type UpdatePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// UserService defines use-case operations on user accounts.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateName(ctx context.Context, input UpdateNameInput, id string) (*domain.User, error)
	UpdateEmail(ctx context.Context, input UpdateEmailInput, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, input UpdatePasswordInput, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	SearchByEmail(ctx context.Context, email string) (*domain.User, error)
	SearchByName(ctx context.Context, name string) ([]*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
