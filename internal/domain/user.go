// File: internal/domain/user.go
package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserType separates ordinary clients from lawyers listed in the directory.
type UserType string

const (
	UserTypeUser   UserType = "user"
	UserTypeLawyer UserType = "lawyer"
)

const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	PhoneNo      string    `json:"phone_no" gorm:"size:20"`
	UserType     UserType  `json:"user_type" gorm:"size:20;not null;default:user;index"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`

	// Lawyer profile
	Degree         string `json:"degree" gorm:"size:100"`
	College        string `json:"college" gorm:"size:200"`
	Qualifications string `json:"qualifications" gorm:"type:text"`
	SocialMedia    string `json:"social_media" gorm:"size:200"`
	ProfilePicURL  string `json:"profile_pic_url" gorm:"size:300"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters long")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the stored hash.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsLawyer() bool {
	return u.UserType == UserTypeLawyer
}

// ClearLawyerFields drops profile fields that only lawyers may carry.
func (u *User) ClearLawyerFields() {
	u.Degree = ""
	u.College = ""
	u.Qualifications = ""
	u.SocialMedia = ""
	u.ProfilePicURL = ""
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("name is required")
	}
	if !IsValidEmail(u.Email) {
		return errors.New("invalid email format")
	}
	if u.UserType != UserTypeUser && u.UserType != UserTypeLawyer {
		return errors.New("user type must be 'user' or 'lawyer'")
	}
	return nil
}

// IsValidEmail reports whether email looks like an address we can deliver to.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
