// File: internal/services/chat/context.go
package chat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var lawKeywords = []string{
	"indian", "india", "ipc", "crpc", "constitution", "section",
	"act", "law", "case", "statute", "article", "court",
}

var lawReferencePattern = regexp.MustCompile(`(?i)\b(section|article|ipc)\s*\d+`)

// IsIndianLawRelated decides whether a question is worth a legal search.
// The match is deliberately loose.
func IsIndianLawRelated(text string) bool {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return false
	}
	for _, kw := range lawKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return lawReferencePattern.MatchString(text)
}

// TruncateText safely truncates a UTF-8 string to maxLen runes.
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}
	runes := []rune(input)
	return string(runes[:maxLen])
}

// SanitizeForPrompt strips NUL bytes, normalises line endings and collapses
// runs of blank lines.
func SanitizeForPrompt(input string) string {
	sanitized := strings.ReplaceAll(input, "\x00", "")
	sanitized = strings.ReplaceAll(sanitized, "\r\n", "\n")
	sanitized = strings.ReplaceAll(sanitized, "\r", "\n")
	for strings.Contains(sanitized, "\n\n\n") {
		sanitized = strings.ReplaceAll(sanitized, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(sanitized)
}

func (s *Service) validateMessage(operation, text string) (string, error) {
	text = SanitizeForPrompt(text)
	if text == "" {
		return "", NewValidationError(operation, "message cannot be empty")
	}
	if utf8.RuneCountInString(text) > s.config.MaxMessageLength {
		return "", NewValidationError(operation, "message is too long")
	}
	return text, nil
}
