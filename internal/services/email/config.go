// File: internal/services/email/config.go
package email

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey      string
	FromAddress string
	FromName    string
	MaxRetries  uint
	RetryDelay  time.Duration
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is required")
	}
	if c.FromAddress == "" {
		return fmt.Errorf("MAIL_FROM is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		FromName:   "Kanoon",
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}
