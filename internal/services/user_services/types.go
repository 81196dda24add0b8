package user_services

import (
	"errors"

	"github.com/iyunix/go-kanoon/internal/domain"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
)

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrAccountLocked      = errors.New("account temporarily locked due to too many failed attempts")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrEmailTaken         = userrepo.ErrEmailTaken
	ErrUserNotFound       = userrepo.ErrUserNotFound
	ErrResetTooSoon       = errors.New("please wait before requesting another code")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RegisterInput is what a new account is created from.
type RegisterInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PhoneNo        string `json:"phone_no"`
	UserType       string `json:"user_type"`
	Degree         string `json:"degree"`
	College        string `json:"college"`
	Qualifications string `json:"qualifications"`
	SocialMedia    string `json:"social_media"`
	ProfilePicURL  string `json:"profile_pic_url"`
}

// ProfileUpdate holds the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name           *string `json:"name"`
	PhoneNo        *string `json:"phone_no"`
	Degree         *string `json:"degree"`
	College        *string `json:"college"`
	Qualifications *string `json:"qualifications"`
	SocialMedia    *string `json:"social_media"`
	ProfilePicURL  *string `json:"profile_pic_url"`
}

func (p ProfileUpdate) apply(u *domain.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.PhoneNo, p.PhoneNo)
	if u.IsLawyer() {
		set(&u.Degree, p.Degree)
		set(&u.College, p.College)
		set(&u.Qualifications, p.Qualifications)
		set(&u.SocialMedia, p.SocialMedia)
		set(&u.ProfilePicURL, p.ProfilePicURL)
	}
}

func maskEmail(email string) string {
	if len(email) <= 3 {
		return "****"
	}
	return email[:3] + "****"
}
