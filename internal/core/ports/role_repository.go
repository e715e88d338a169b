package ports

import (
	"context"

	"github.com/confidence/identity-api/internal/core/domain"
)

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// FindByNameContaining matches the name substring case-insensitively.
	FindByNameContaining(ctx context.Context, name string) ([]*domain.Role, error)
	FindAll(ctx context.Context) ([]*domain.Role, error)
}
