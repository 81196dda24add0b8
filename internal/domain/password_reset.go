// File: internal/domain/password_reset.go
package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	ResetCodeTTL         = 15 * time.Minute
	ResetCodeMaxAttempts = 5
)

// PasswordResetCode holds a short-lived code mailed to a user who forgot their password.
type PasswordResetCode struct {
	ID    uint   `gorm:"primaryKey"`
	Email string `gorm:"index;not null;size:120"`
	Code  string `gorm:"not null;size:10"`

	ExpiresAt   time.Time `gorm:"index;not null"`
	Attempts    int       `gorm:"not null;default:0"`
	MaxAttempts int       `gorm:"not null;default:5"`

	UsedAt *time.Time `gorm:"default:null"`
	IsUsed bool       `gorm:"default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsValid checks if the code can still be redeemed.
func (c *PasswordResetCode) IsValid() bool {
	return !c.IsUsed && c.Attempts < c.MaxAttempts && time.Now().Before(c.ExpiresAt)
}

// CanAttempt checks if more attempts are allowed
func (c *PasswordResetCode) CanAttempt() bool {
	return c.Attempts < c.MaxAttempts && !c.IsUsed
}

// UseCode marks the code as used
func (c *PasswordResetCode) UseCode() {
	now := time.Now()
	c.IsUsed = true
	c.UsedAt = &now
}

func (c *PasswordResetCode) IncrementAttempt() {
	c.Attempts++
}
