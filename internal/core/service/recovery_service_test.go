package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/confidence/identity-api/internal/core/domain"
)

func newRecoveryFixture(t *testing.T) (*RecoveryService, *stubUserRepo, *stubTokenRepo, *stubMailer) {
	t.Helper()
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	mailer := &stubMailer{}
	svc := NewRecoveryService(users, tokens, mailer, nil, "https://app.example.com/reset-password", discard)
	return svc, users, tokens, mailer
}

func TestRecoveryService_RequestReset_SendsMailWithToken(t *testing.T) {
	svc, users, tokens, mailer := newRecoveryFixture(t)
	seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Sup3r$ecret!")

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.To != "ana.silva@example.com" {
		t.Fatalf("unexpected recipient: %s", mail.To)
	}
	if !strings.Contains(mail.Body, "https://app.example.com/reset-password?token=") {
		t.Fatalf("mail body missing reset link: %q", mail.Body)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("expected 1 persisted token, got %d", len(tokens.tokens))
	}
	for _, tok := range tokens.tokens {
		if !strings.Contains(mail.Body, tok.Token) {
			t.Fatalf("mail body does not carry the persisted token value")
		}
		if got, want := tok.ExpiryDate.Sub(tok.CreatedAt), time.Hour; got != want {
			t.Fatalf("expected 1h expiry window, got %v", got)
		}
	}
}

func TestRecoveryService_RequestReset_UnknownEmailIsSilent(t *testing.T) {
	svc, _, tokens, mailer := newRecoveryFixture(t)

	if err := svc.RequestReset(context.Background(), "unknown@example.com"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(mailer.sent))
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("expected no token persisted, got %d", len(tokens.tokens))
	}
}

// A new request invalidates any previously issued token for the same user.
func TestRecoveryService_RequestReset_SingleActiveToken(t *testing.T) {
	svc, users, tokens, mailer := newRecoveryFixture(t)
	seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Sup3r$ecret!")

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	first := mailer.sent[0]

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}

	if len(tokens.tokens) != 1 {
		t.Fatalf("expected exactly 1 live token, got %d", len(tokens.tokens))
	}
	for _, tok := range tokens.tokens {
		if strings.Contains(first.Body, tok.Token) {
			t.Fatalf("second request did not rotate the token value")
		}
	}
}

func TestRecoveryService_RequestReset_Throttled(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	mailer := &stubMailer{}
	throttle := &stubThrottle{allow: false}
	svc := NewRecoveryService(users, tokens, mailer, throttle, "https://app.example.com/reset-password", discard)
	seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Sup3r$ecret!")

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("throttled request should succeed silently, got %v", err)
	}
	if len(mailer.sent) != 0 || len(tokens.tokens) != 0 {
		t.Fatalf("throttled request must not mint tokens or send mail")
	}
	if throttle.calls != 1 {
		t.Fatalf("expected throttle consulted once, got %d", throttle.calls)
	}
}

// Throttle infrastructure errors fail open: the request proceeds.
func TestRecoveryService_RequestReset_ThrottleFailOpen(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	mailer := &stubMailer{}
	throttle := &stubThrottle{err: errors.New("redis down")}
	svc := NewRecoveryService(users, tokens, mailer, throttle, "https://app.example.com/reset-password", discard)
	seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Sup3r$ecret!")

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("request should fail open, got %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected mail despite throttle error, got %d", len(mailer.sent))
	}
}

func issuedToken(t *testing.T, tokens *stubTokenRepo) *domain.PasswordResetToken {
	t.Helper()
	for _, tok := range tokens.tokens {
		return tok
	}
	t.Fatalf("no token issued")
	return nil
}

func TestRecoveryService_ResetPassword_Success(t *testing.T) {
	svc, users, tokens, _ := newRecoveryFixture(t)
	user := seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Old$ecret123")
	oldHash := user.PasswordHash

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	tok := issuedToken(t, tokens)

	if err := svc.ResetPassword(context.Background(), tok.Token, "N3w$ecret!pw"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	updated, err := users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Fatalf("password hash unchanged")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("N3w$ecret!pw")); err != nil {
		t.Fatalf("new hash does not match new password: %v", err)
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("expected token consumed, %d left", len(tokens.tokens))
	}
}

// Single use: a consumed token value must never work again.
func TestRecoveryService_ResetPassword_SecondUseFails(t *testing.T) {
	svc, users, tokens, _ := newRecoveryFixture(t)
	seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Old$ecret123")

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	tok := issuedToken(t, tokens)

	if err := svc.ResetPassword(context.Background(), tok.Token, "N3w$ecret!pw"); err != nil {
		t.Fatalf("first reset failed: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), tok.Token, "An0ther$pw!x"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken on reuse, got %v", err)
	}
}

func TestRecoveryService_ResetPassword_UnknownToken(t *testing.T) {
	svc, _, _, _ := newRecoveryFixture(t)

	if err := svc.ResetPassword(context.Background(), "no-such-token", "N3w$ecret!pw"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}

// An expired token always fails and is left in place; only a successful
// reset deletes it.
func TestRecoveryService_ResetPassword_Expired(t *testing.T) {
	svc, users, tokens, _ := newRecoveryFixture(t)
	seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Old$ecret123")

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	tok := issuedToken(t, tokens)

	svc.now = func() time.Time { return tok.ExpiryDate.Add(time.Minute) }

	if err := svc.ResetPassword(context.Background(), tok.Token, "N3w$ecret!pw"); !errors.Is(err, domain.ErrResetTokenExpired) {
		t.Fatalf("expected ErrResetTokenExpired, got %v", err)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("expired token must not be deleted by the expiry check")
	}
}

// An invalid new password fails validation and leaves both the token and the
// stored hash untouched.
func TestRecoveryService_ResetPassword_InvalidNewPassword(t *testing.T) {
	svc, users, tokens, _ := newRecoveryFixture(t)
	user := seedUser(t, users, "Ana Silva", "ana.silva@example.com", "Old$ecret123")
	oldHash := user.PasswordHash

	if err := svc.RequestReset(context.Background(), "ana.silva@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	tok := issuedToken(t, tokens)

	if err := svc.ResetPassword(context.Background(), tok.Token, "Nodigits$pw"); !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}

	unchanged, _ := users.FindByID(context.Background(), user.ID)
	if unchanged.PasswordHash != oldHash {
		t.Fatalf("password hash must be unchanged after failed validation")
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("token must survive a failed reset")
	}
}
