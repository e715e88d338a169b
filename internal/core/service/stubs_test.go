package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
)

// Map-backed stub repositories shared by the service tests.

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = "user_" + strconv.Itoa(r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *stubUserRepo) FindByNameContaining(_ context.Context, name string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(name)) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) CountByRoleName(_ context.Context, roleName string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.HasRole(roleName) {
			n++
		}
	}
	return n, nil
}

type stubRoleRepo struct {
	roles  map[string]*domain.Role
	nextID int
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]*domain.Role)}
}

// seed inserts a role bypassing uniqueness checks, for test setup.
func (r *stubRoleRepo) seed(name, description string) *domain.Role {
	r.nextID++
	role := &domain.Role{ID: "role_" + strconv.Itoa(r.nextID), Name: name, Description: description}
	r.roles[role.ID] = role
	return role
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	copy := *role
	r.nextID++
	copy.ID = "role_" + strconv.Itoa(r.nextID)
	r.roles[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if _, ok := r.roles[role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	copy := *role
	r.roles[role.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	copy := *role
	return &copy, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			copy := *role
			return &copy, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByName(ctx, name)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *stubRoleRepo) FindByNameContaining(_ context.Context, name string) ([]*domain.Role, error) {
	var out []*domain.Role
	for _, role := range r.roles {
		if strings.Contains(strings.ToLower(role.Name), strings.ToLower(name)) {
			copy := *role
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) FindAll(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		copy := *role
		out = append(out, &copy)
	}
	return out, nil
}

type stubTokenRepo struct {
	tokens map[string]*domain.PasswordResetToken
	nextID int
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.PasswordResetToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.nextID++
	copy := *token
	copy.ID = "token_" + strconv.Itoa(r.nextID)
	r.tokens[copy.ID] = &copy
	token.ID = copy.ID
	return nil
}

func (r *stubTokenRepo) FindByToken(_ context.Context, value string) (*domain.PasswordResetToken, error) {
	for _, t := range r.tokens {
		if t.Token == value {
			copy := *t
			return &copy, nil
		}
	}
	return nil, domain.ErrInvalidResetToken
}

func (r *stubTokenRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tokens[id]; !ok {
		return domain.ErrInvalidResetToken
	}
	delete(r.tokens, id)
	return nil
}

func (r *stubTokenRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	var n int64
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

type stubMailer struct {
	sent []ports.Mail
}

func (m *stubMailer) Enqueue(mail ports.Mail) {
	m.sent = append(m.sent, mail)
}

type stubThrottle struct {
	allow bool
	err   error
	calls int
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	t.calls++
	return t.allow, t.err
}
