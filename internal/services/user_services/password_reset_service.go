// File: internal/services/user_services/password_reset_service.go
package user_services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/repository/reset"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
)

// ResendInterval is the minimum gap between two codes for one address.
const ResendInterval = time.Minute

// Mailer delivers reset codes.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, code string) error
}

// PasswordResetService handles the forgot-password flow.
type PasswordResetService struct {
	userRepo  userrepo.UserRepository
	resetRepo reset.ResetRepository
	mailer    Mailer
	logger    Logger
}

func NewPasswordResetService(userRepo userrepo.UserRepository, resetRepo reset.ResetRepository, mailer Mailer, logger Logger) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		logger:    logger,
	}
}

// RequestReset mails a code to a registered address. Unknown addresses get
// the same nil result so callers cannot probe for accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if !domain.IsValidEmail(email) {
		return newValidationError("a valid email is required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.logger.Warn("password reset requested for unknown email", "email", maskEmail(email))
			return nil
		}
		return err
	}
	if !user.IsActive {
		s.logger.Warn("password reset requested for deactivated account", "user_id", user.ID)
		return nil
	}

	existing, err := s.resetRepo.FindActiveByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load reset code: %w", err)
	}
	if existing != nil && time.Since(existing.CreatedAt) < ResendInterval {
		s.logger.Warn("password reset rate limited", "user_id", user.ID)
		return ErrResetTooSoon
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.resetRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("failed to clear old codes: %w", err)
	}
	if err := s.resetRepo.Create(ctx, &domain.PasswordResetCode{
		Email:       email,
		Code:        code,
		ExpiresAt:   time.Now().Add(domain.ResetCodeTTL),
		MaxAttempts: domain.ResetCodeMaxAttempts,
	}); err != nil {
		s.logger.Error("failed to save password reset code", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to save reset code: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, email, user.Name, code); err != nil {
		s.logger.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	s.logger.Info("password reset code sent", "user_id", user.ID)
	return nil
}

// ConfirmReset sets a new password when code matches the active code for email.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || code == "" || newPassword == "" {
		return newValidationError("email, code and new password are required")
	}
	if len(newPassword) < domain.MinPasswordLength {
		return newValidationError(fmt.Sprintf("password must be at least %d characters long", domain.MinPasswordLength))
	}

	active, err := s.resetRepo.FindActiveByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load reset code: %w", err)
	}
	if active == nil || !active.IsValid() {
		s.logger.Warn("password reset with no valid code", "email", maskEmail(email))
		return ErrInvalidResetCode
	}

	if subtle.ConstantTimeCompare([]byte(active.Code), []byte(code)) != 1 {
		active.IncrementAttempt()
		if err := s.resetRepo.Update(ctx, active); err != nil {
			s.logger.Error("failed to record reset attempt", "error", err)
		}
		s.logger.Warn("invalid password reset code provided", "email", maskEmail(email), "attempts", active.Attempts)
		return ErrInvalidResetCode
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidResetCode
	}
	if err := user.HashPassword(newPassword); err != nil {
		return newValidationError(err.Error())
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.PasswordHash); err != nil {
		s.logger.Error("failed to save new password", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to update password: %w", err)
	}

	active.UseCode()
	if err := s.resetRepo.Update(ctx, active); err != nil {
		s.logger.Error("failed to mark reset code used", "error", err, "user_id", user.ID)
	}
	s.logger.Info("password reset successfully", "user_id", user.ID)
	return nil
}

// PurgeExpired removes expired and used codes.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.resetRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to purge reset codes", "error", err)
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired reset codes purged", "count", n)
	}
	return n, nil
}

// generateCode creates a 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
