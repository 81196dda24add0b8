// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// Conversation
	HistoryLimit     int // prior messages replayed to the model
	MaxMessageLength int

	// Legal search
	ReferenceCount int
	SearchTimeout  time.Duration

	// Model
	Temperature         float32
	AnalysisTemperature float32
	LLMTimeout          time.Duration
}

func (c *Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit cannot be negative")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.ReferenceCount < 0 || c.ReferenceCount > 10 {
		return fmt.Errorf("reference_count must be between 0 and 10")
	}
	if c.LLMTimeout <= 0 || c.SearchTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:        10,
		MaxMessageLength:    4000,
		ReferenceCount:      3,
		SearchTimeout:       30 * time.Second,
		Temperature:         0.3,
		AnalysisTemperature: 0.1,
		LLMTimeout:          90 * time.Second,
	}
}
