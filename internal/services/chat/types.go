// File: internal/services/chat/types.go
package chat

import "github.com/iyunix/go-kanoon/internal/domain"

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Exchange is a stored question and its stored reply.
type Exchange struct {
	UserMessage      *domain.ChatMessage `json:"user_message"`
	AssistantMessage *domain.ChatMessage `json:"ai_response"`
}

type QuickAnswer struct {
	Question   string                  `json:"question"`
	Response   string                  `json:"response"`
	Sources    []string                `json:"sources"`
	References []domain.LegalReference `json:"references,omitempty"`
}

// AnalysisReference is a case or statute the model cites in a structured analysis.
type AnalysisReference struct {
	Title     string   `json:"title"`
	Source    string   `json:"source"`
	Relevance string   `json:"relevance"`
	KeyPoints []string `json:"key_points"`
	Citation  string   `json:"citation"`
}

type LegalAnalysis struct {
	QuerySummary          string              `json:"query_summary"`
	ApplicableLaws        []string            `json:"applicable_laws"`
	KeyPrinciples         []string            `json:"key_principles"`
	PracticalImplications string              `json:"practical_implications"`
	References            []AnalysisReference `json:"references"`
}
