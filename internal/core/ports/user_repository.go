package ports

import (
	"context"

	"github.com/confidence/identity-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Uniqueness of email is additionally enforced by a storage-level unique
// index: the service-layer ExistsByEmail check is a fast path, the index is
// the backstop when two concurrent creations race past it.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByNameContaining matches the name substring case-insensitively.
	FindByNameContaining(ctx context.Context, name string) ([]*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// CountByRoleName reports how many users reference the named role.
	CountByRoleName(ctx context.Context, roleName string) (int64, error)
}
