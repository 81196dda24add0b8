// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-kanoon/internal/auth"
	"github.com/iyunix/go-kanoon/internal/domain"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
)

type AuthService struct {
	userRepo  userrepo.UserRepository
	revoker   auth.Revoker
	lockout   *LockoutService
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    Logger
}

func NewAuthService(
	userRepo userrepo.UserRepository,
	revoker auth.Revoker,
	lockout *LockoutService,
	jwtSecret string,
	tokenTTL time.Duration,
	logger Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		revoker:   revoker,
		lockout:   lockout,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// TokenTTL is how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if err := s.validateRegistrationInput(&in); err != nil {
		s.logger.Warn("registration validation failed", "email", maskEmail(in.Email), "error", err.Error())
		return nil, "", err
	}

	s.logger.Info("user registration attempt", "email", maskEmail(in.Email), "user_type", in.UserType)

	user := &domain.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          in.Email,
		PhoneNo:        strings.TrimSpace(in.PhoneNo),
		UserType:       domain.UserType(in.UserType),
		IsActive:       true,
		Degree:         strings.TrimSpace(in.Degree),
		College:        strings.TrimSpace(in.College),
		Qualifications: strings.TrimSpace(in.Qualifications),
		SocialMedia:    strings.TrimSpace(in.SocialMedia),
		ProfilePicURL:  strings.TrimSpace(in.ProfilePicURL),
	}
	if !user.IsLawyer() {
		user.ClearLawyerFields()
	}
	if err := user.HashPassword(in.Password); err != nil {
		return nil, "", newValidationError(err.Error())
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			s.logger.Warn("registration failed - email already exists", "email", maskEmail(in.Email))
			return nil, "", ErrEmailTaken
		}
		s.logger.Error("user creation failed", "error", err, "email", maskEmail(in.Email))
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(created)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered successfully", "user_id", created.ID, "user_type", created.UserType)
	return created, token, nil
}

func (s *AuthService) validateRegistrationInput(in *RegisterInput) error {
	in.Email = domain.NormalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return newValidationError("name, email and password are required")
	}
	if !domain.IsValidEmail(in.Email) {
		return newValidationError("invalid email format")
	}
	if len(in.Password) < domain.MinPasswordLength {
		return newValidationError(fmt.Sprintf("password must be at least %d characters long", domain.MinPasswordLength))
	}
	in.UserType = strings.ToLower(strings.TrimSpace(in.UserType))
	if in.UserType == "" {
		in.UserType = string(domain.UserTypeUser)
	}
	if in.UserType != string(domain.UserTypeUser) && in.UserType != string(domain.UserTypeLawyer) {
		return newValidationError("user type must be 'user' or 'lawyer'")
	}
	return nil
}

// Login checks credentials and returns the user with a token. Repeated
// failures for one address lock it out for LockoutDuration.
func (s *AuthService) Login(ctx context.Context, email, password, sourceIP string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_email", email != "",
			"has_password", password != "")
		return nil, "", newValidationError("email and password are required")
	}

	if locked, remaining := s.lockout.IsAccountLocked(email); locked {
		s.logger.Warn("login attempt on locked account", "email", maskEmail(email), "remaining", remaining.Round(time.Second).String())
		return nil, "", ErrAccountLocked
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, userrepo.ErrUserNotFound) {
			s.logger.Error("login lookup failed", "error", err)
			return nil, "", err
		}
		s.logger.Warn("login failed - user not found", "email", maskEmail(email))
		return nil, "", s.failLogin(email, sourceIP)
	}

	if err := user.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", user.ID)
		return nil, "", s.failLogin(email, sourceIP)
	}

	if !user.IsActive {
		s.logger.Warn("login attempt by deactivated user", "user_id", user.ID)
		return nil, "", ErrAccountInactive
	}

	s.lockout.ClearFailedAttempts(email)
	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("login successful", "user_id", user.ID, "user_type", user.UserType)
	return user, token, nil
}

func (s *AuthService) failLogin(email, sourceIP string) error {
	if s.lockout.RecordFailedAttempt(email, sourceIP) {
		return ErrAccountLocked
	}
	return ErrInvalidCredentials
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// Nothing to revoke.
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.TTL()); err != nil {
		s.logger.Error("token revocation failed", "user_id", claims.UserID, "error", err)
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate validates a token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	claims, err := auth.ValidateToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Debug("JWT token validation failed", "error", err)
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Error("revocation check failed", "error", err)
		return nil, fmt.Errorf("revocation check failed: %w", err)
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	token, err := auth.GenerateJWT(user.ID, string(user.UserType), s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", user.ID)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
