package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
)

func TestUserHandler_UpdateName_PartialBody(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		updateNameFn: func(ctx context.Context, input ports.UpdateNameInput, id string) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			if input.Name == nil || *input.Name != "Alice Cooper" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: id, Name: *input.Name, Email: "alice.johnson@example.com"}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/users/u1", `{"name":"Alice Cooper"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.UpdateName(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateName_AbsentFieldStaysNil(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		updateNameFn: func(ctx context.Context, input ports.UpdateNameInput, id string) (*domain.User, error) {
			if input.Name != nil {
				t.Fatalf("absent field must arrive as nil, got %q", *input.Name)
			}
			return &domain.User{ID: id, Name: "Alice Johnson"}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/users/u1", `{}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.UpdateName(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestUserHandler_UpdateEmail_NotFound(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		updateEmailFn: func(ctx context.Context, input ports.UpdateEmailInput, id string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/users/email/missing", `{"email":"alice.johnson@example.com"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.UpdateEmail(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound passed through, got %v", err)
	}
}

func TestUserHandler_UpdatePassword_WrongCurrent(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		updatePasswordFn: func(ctx context.Context, input ports.UpdatePasswordInput, id string) (*domain.User, error) {
			return nil, domain.ErrCurrentPasswordIncorrect
		},
	})

	body := `{"current_password":"wrong-pass","new_password":"Str0ng!pass"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/users/password/u1", body), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.UpdatePassword(c); !errors.Is(err, domain.ErrCurrentPasswordIncorrect) {
		t.Fatalf("expected ErrCurrentPasswordIncorrect passed through, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/users/u1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_FindByEmail(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		searchByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email != "alice.johnson@example.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return &domain.User{ID: "u1", Email: email}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/by-email?email=alice.johnson@example.com", nil)
	rec := httptest.NewRecorder()

	if err := h.FindByEmail(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{
		listAllFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "u1", Name: "Alice Johnson"},
				{ID: "u2", Name: "Bob Smithers"},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
}
