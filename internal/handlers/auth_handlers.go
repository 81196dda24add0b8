// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/iyunix/go-kanoon/internal/dtos"
	"github.com/iyunix/go-kanoon/internal/middleware"
	"github.com/iyunix/go-kanoon/internal/ratelimit"
	"github.com/iyunix/go-kanoon/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	auth         *user_services.AuthService
	users        *user_services.UserService
	resets       *user_services.PasswordResetService
	secureCookie bool
	logger       Logger
}

func NewAuthHandler(
	auth *user_services.AuthService,
	users *user_services.UserService,
	resets *user_services.PasswordResetService,
	secureCookie bool,
	logger Logger,
) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, resets: resets, secureCookie: secureCookie, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in user_services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	user, token, err := h.auth.Register(r.Context(), in)
	if err != nil {
		switch {
		case user_services.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user_services.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email already registered")
		default:
			h.logger.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Registration failed. Please try again.")
		}
		return
	}

	setAuthCookie(w, token, h.auth.TokenTTL(), h.secureCookie)
	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user":    dtos.FromDomain(*user),
		"token":   token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password, ratelimit.GetClientIP(r))
	if err != nil {
		switch {
		case user_services.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user_services.ErrAccountLocked):
			writeError(w, http.StatusTooManyRequests, "Too many failed attempts. Please try again later.")
		case errors.Is(err, user_services.ErrAccountInactive):
			writeError(w, http.StatusUnauthorized, "Account is deactivated")
		case errors.Is(err, user_services.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Login failed. Please try again.")
		}
		return
	}

	setAuthCookie(w, token, h.auth.TokenTTL(), h.secureCookie)
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    dtos.FromDomain(*user),
		"token":   token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout failed", "error", err)
		}
	}
	middleware.ClearAuthCookie(w, h.secureCookie)
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "Logout successful"})
}

// Verify reports whether the caller holds a valid token. It never fails with 401.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		writeSuccess(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	claims, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		writeSuccess(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	user, err := h.users.GetProfile(r.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		writeSuccess(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          dtos.FromDomain(*user),
	})
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.resets.RequestReset(r.Context(), req.Email); err != nil {
		switch {
		case user_services.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user_services.ErrResetTooSoon):
			writeError(w, http.StatusTooManyRequests, err.Error())
		default:
			h.logger.Error("password reset request failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Could not send reset code. Please try again later.")
		}
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "If an account exists for this email, a reset code has been sent.",
	})
}

func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if err := h.resets.ConfirmReset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case user_services.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user_services.ErrInvalidResetCode):
			writeError(w, http.StatusBadRequest, "Invalid or expired reset code")
		default:
			h.logger.Error("password reset confirm failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Password reset failed")
		}
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "Password has been reset. You can now log in."})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user_services.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get profile failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": dtos.FromDomain(*user)})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var update user_services.ProfileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		switch {
		case user_services.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user_services.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("profile update failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    dtos.FromDomain(*user),
	})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case user_services.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user_services.ErrIncorrectPassword):
			writeError(w, http.StatusBadRequest, "Current password is incorrect")
		default:
			h.logger.Error("password change failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "Password changed successfully"})
}
