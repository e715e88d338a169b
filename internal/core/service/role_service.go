package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
	"github.com/confidence/identity-api/internal/core/validation"
)

// RoleService implements role CRUD with name uniqueness enforcement.
type RoleService struct {
	roles  ports.RoleRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, logger: logger}
}

func (s *RoleService) Create(ctx context.Context, input ports.CreateRoleInput) (*domain.Role, error) {
	if err := validation.RoleName(input.Name); err != nil {
		return nil, err
	}

	exists, err := s.roles.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrRoleExists
	}

	role := &domain.Role{Name: input.Name, Description: input.Description}
	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return created, nil
}

// Update applies a partial update: only fields present in the input are
// touched. A rename that collides with another role fails; renaming a role
// to its own current name does not.
func (s *RoleService) Update(ctx context.Context, input ports.UpdateRoleInput, id string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validation.RoleName(*input.Name); err != nil {
			return nil, err
		}
		if *input.Name != role.Name {
			exists, err := s.roles.ExistsByName(ctx, *input.Name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrRoleExists
			}
		}
		role.Name = *input.Name
	}
	if input.Description != nil {
		role.Description = *input.Description
	}

	return s.roles.Update(ctx, role)
}

// Delete removes a role. Deletion is blocked while any user still references
// the role, so assignments never silently dangle.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.users.CountByRoleName(ctx, role.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrRoleInUse
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("role_id", id).Str("name", role.Name).Msg("role deleted")
	return nil
}

func (s *RoleService) SearchByID(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) SearchByName(ctx context.Context, name string) ([]*domain.Role, error) {
	return s.roles.FindByNameContaining(ctx, name)
}

func (s *RoleService) ListAll(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.FindAll(ctx)
}
