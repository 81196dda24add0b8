// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"
	"fmt"
	"strings"

	"github.com/iyunix/go-kanoon/internal/domain"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
)

// UserService manages a signed-in user's own profile.
type UserService struct {
	userRepo userrepo.UserRepository
	logger   Logger
}

func NewUserService(userRepo userrepo.UserRepository, logger Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile edits name, phone and, for lawyers, the profile fields.
// The email cannot be changed.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return nil, newValidationError("name cannot be empty")
		}
		update.Name = &trimmed
	}
	update.apply(user)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("profile update failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if current == "" || next == "" {
		return newValidationError("current and new password are required")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ValidatePassword(current); err != nil {
		s.logger.Warn("password change with wrong current password", "user_id", userID)
		return ErrIncorrectPassword
	}
	if err := user.HashPassword(next); err != nil {
		return newValidationError(err.Error())
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, user.PasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Info("password changed", "user_id", userID)
	return nil
}
