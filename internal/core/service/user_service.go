package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/confidence/identity-api/internal/api/metrics"
	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
	"github.com/confidence/identity-api/internal/core/validation"
)

// UserService enforces the create/update invariants on user accounts:
// field validation first, then uniqueness and existence checks, then the
// mutation. Nothing is persisted when any step fails.
type UserService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	defaultRole string
	logger      zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, defaultRole string, logger zerolog.Logger) *UserService {
	if defaultRole == "" {
		defaultRole = domain.RoleUser
	}
	return &UserService{users: users, roles: roles, defaultRole: defaultRole, logger: logger}
}

// Create registers a new user with exactly the default role assigned. The
// default role must pre-exist; its absence is a configuration fault surfaced
// as ErrRoleNotFound.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if err := validation.Name(input.Name); err != nil {
		return nil, err
	}
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrUserExists
	}

	defaultRole, err := s.roles.FindByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.logger.Error().Str("role", s.defaultRole).Msg("default role missing, registration impossible")
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Roles:        []domain.Role{*defaultRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// UpdateName renames a user. An absent name leaves the record untouched.
func (s *UserService) UpdateName(ctx context.Context, input ports.UpdateNameInput, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validation.Name(*input.Name); err != nil {
			return nil, err
		}
		user.Name = *input.Name
	}

	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

// UpdateEmail changes a user's email. Setting the current email back is a
// no-op success; only a collision with another user fails.
func (s *UserService) UpdateEmail(ctx context.Context, input ports.UpdateEmailInput, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, input.Email) {
		exists, err := s.users.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserExists
		}
	}

	user.Email = input.Email
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

// UpdatePassword changes a user's password after verifying the current one
// against the stored hash.
func (s *UserService) UpdatePassword(ctx context.Context, input ports.UpdatePasswordInput, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return nil, domain.ErrCurrentPasswordIncorrect
	}

	if err := validation.Password(input.NewPassword); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) SearchByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *UserService) SearchByName(ctx context.Context, name string) ([]*domain.User, error) {
	return s.users.FindByNameContaining(ctx, name)
}

func (s *UserService) ListAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}
