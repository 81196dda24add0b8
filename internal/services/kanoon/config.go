// File: internal/services/kanoon/config.go
package kanoon

import (
	"fmt"
	"time"
)

const (
	DefaultBaseURL = "https://api.indiankanoon.org"
	// PublicDocURL is where a human can read a document by its tid.
	PublicDocURL = "https://indiankanoon.org/doc/%s/"
)

type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	ExcerptChars int
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("INDIAN_KANOON_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ExcerptChars <= 0 {
		return fmt.Errorf("excerpt length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      20 * time.Second,
		ExcerptChars: 1000,
	}
}
