// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

// GeminiOpenAIBaseURL is Google's OpenAI-compatible endpoint for Gemini models.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	Timeout time.Duration

	// Chat answers lean on citations; document review wants near-deterministic output.
	ChatTemperature     float32
	AnalysisTemperature float32
	MaxTokens           int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ChatTemperature < 0 || c.ChatTemperature > 2 || c.AnalysisTemperature < 0 || c.AnalysisTemperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:             GeminiOpenAIBaseURL,
		Model:               "gemini-1.5-flash",
		Timeout:             60 * time.Second,
		ChatTemperature:     0.3,
		AnalysisTemperature: 0.1,
		MaxTokens:           2048,
	}
}
