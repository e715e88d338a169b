package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/confidence/identity-api/internal/api/metrics"
	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
	"github.com/confidence/identity-api/internal/core/validation"
)

const resetTokenTTL = time.Hour

// MailEnqueuer hands outbound mail to the async dispatcher. Delivery is
// fire-and-forget: enqueue never fails and sends never roll anything back.
type MailEnqueuer interface {
	Enqueue(mail ports.Mail)
}

// ResetThrottle limits how often a single email address can request a reset.
// Implementations fail open: on infrastructure errors the request is allowed.
type ResetThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// RecoveryService orchestrates the forgot/reset-password flow: minting
// single-use, time-bound tokens and consuming them to authorize a password
// change.
type RecoveryService struct {
	users    ports.UserRepository
	tokens   ports.ResetTokenRepository
	mailer   MailEnqueuer
	throttle ResetThrottle
	resetURL string
	logger   zerolog.Logger
	now      func() time.Time
}

func NewRecoveryService(
	users ports.UserRepository,
	tokens ports.ResetTokenRepository,
	mailer MailEnqueuer,
	throttle ResetThrottle,
	resetURL string,
	logger zerolog.Logger,
) *RecoveryService {
	return &RecoveryService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		throttle: throttle,
		resetURL: resetURL,
		logger:   logger,
		now:      time.Now,
	}
}

// RequestReset mints a reset token for the account registered under email
// and mails a reset link. An unknown email completes as a silent success and
// sends nothing, so the endpoint never reveals whether an address is
// registered. Issuing a new token invalidates any previous unexpired tokens
// for the same user.
func (s *RecoveryService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.ResetRequestsTotal.WithLabelValues("unknown_email").Inc()
			s.logger.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("reset throttle check failed, allowing request")
		} else if !allowed {
			metrics.ResetRequestsTotal.WithLabelValues("throttled").Inc()
			s.logger.Info().Str("user_id", user.ID).Msg("password reset request throttled")
			return nil
		}
	}

	if _, err := s.tokens.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("invalidate previous reset tokens: %w", err)
	}

	now := s.now().UTC()
	token := &domain.PasswordResetToken{
		Token:      uuid.NewString(),
		UserID:     user.ID,
		ExpiryDate: now.Add(resetTokenTTL),
		CreatedAt:  now,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("persist reset token: %w", err)
	}

	resetLink := s.resetURL + "?token=" + token.Token
	body := fmt.Sprintf(
		"Hello, %s\n\nUse the link below to reset your password (valid for 1 hour):\n%s\n\nIf you did not request this, please ignore this email.",
		user.Name, resetLink,
	)
	s.mailer.Enqueue(ports.Mail{
		To:      user.Email,
		Subject: "Password reset request",
		Body:    body,
	})

	metrics.ResetRequestsTotal.WithLabelValues("sent").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("password reset token issued")
	return nil
}

// ResetPassword looks up the token by value, validates and applies the new
// password, then deletes the token. Single use is enforced by the deletion:
// a second call with the same value fails with ErrInvalidResetToken. An
// expired token is left in place; only a successful reset consumes it.
func (s *RecoveryService) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	token, err := s.tokens.FindByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			metrics.ResetsTotal.WithLabelValues("invalid_token").Inc()
		}
		return err
	}

	if token.Expired(s.now()) {
		metrics.ResetsTotal.WithLabelValues("expired").Inc()
		return domain.ErrResetTokenExpired
	}

	if err := validation.Password(newPassword); err != nil {
		metrics.ResetsTotal.WithLabelValues("invalid_password").Inc()
		return err
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now().UTC()
	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	metrics.ResetsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}
