package ports

import (
	"context"

	"github.com/confidence/identity-api/internal/core/domain"
)

// CreateRoleInput carries the data for a new role.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput is a partial update: nil fields were absent from the
// request and are left untouched.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// RoleService defines use-case operations on roles.
type RoleService interface {
	Create(ctx context.Context, input CreateRoleInput) (*domain.Role, error)
	Update(ctx context.Context, input UpdateRoleInput, id string) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	SearchByID(ctx context.Context, id string) (*domain.Role, error)
	SearchByName(ctx context.Context, name string) ([]*domain.Role, error)
	ListAll(ctx context.Context) ([]*domain.Role, error)
}
