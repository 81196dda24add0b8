// File: internal/services/chat/analysis.go
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iyunix/go-kanoon/internal/services/ai"
)

// AnalyzeQuery asks the model for a structured legal analysis. A reply that
// does not parse still yields an analysis carrying the raw text.
func (s *Service) AnalyzeQuery(ctx context.Context, query string) (*LegalAnalysis, error) {
	query, err := s.validateMessage("analyze_query", query)
	if err != nil {
		return nil, err
	}

	refs := s.fetchReferences(ctx, query)
	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()
	reply, err := s.llm.Complete(llmCtx, ai.CompletionRequest{
		Prompt:      buildAnalysisPrompt(query, refs),
		Temperature: s.config.AnalysisTemperature,
		JSON:        true,
	})
	if err != nil {
		s.logger.Error("legal analysis completion failed", "error", err)
		return nil, NewAIError("analyze_query", err)
	}

	analysis, ok := ParseAnalysis(reply)
	if !ok {
		s.logger.Warn("legal analysis reply was not valid JSON", "reply_length", len(reply))
		analysis = fallbackAnalysis(query, reply)
	}
	return analysis, nil
}

// ParseAnalysis decodes a model reply, tolerating code fences.
func ParseAnalysis(reply string) (*LegalAnalysis, bool) {
	var analysis LegalAnalysis
	if err := json.Unmarshal([]byte(ai.StripCodeFence(reply)), &analysis); err != nil {
		return nil, false
	}
	if analysis.QuerySummary == "" && len(analysis.ApplicableLaws) == 0 && analysis.PracticalImplications == "" {
		return nil, false
	}
	return &analysis, true
}

func fallbackAnalysis(query, reply string) *LegalAnalysis {
	return &LegalAnalysis{
		QuerySummary:          query,
		ApplicableLaws:        []string{"Could not parse detailed laws"},
		KeyPrinciples:         []string{"Error in legal analysis"},
		PracticalImplications: reply,
	}
}

// FormatAnalysis renders an analysis as Markdown.
func FormatAnalysis(a *LegalAnalysis) string {
	if a == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("### Query Summary\n")
	b.WriteString(a.QuerySummary)
	b.WriteString("\n\n")

	if len(a.ApplicableLaws) > 0 {
		b.WriteString("### Applicable Laws\n")
		for _, law := range a.ApplicableLaws {
			fmt.Fprintf(&b, "- %s\n", law)
		}
		b.WriteString("\n")
	}

	if len(a.KeyPrinciples) > 0 {
		b.WriteString("### Key Legal Principles\n")
		for _, p := range a.KeyPrinciples {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Practical Implications\n")
	b.WriteString(a.PracticalImplications)
	b.WriteString("\n")

	if len(a.References) > 0 {
		b.WriteString("\n### Legal References\n")
		for _, ref := range a.References {
			fmt.Fprintf(&b, "\n**%s**", ref.Title)
			if ref.Source != "" {
				fmt.Fprintf(&b, " _(Source: %s)_", ref.Source)
			}
			b.WriteString("\n")
			if ref.Relevance != "" {
				fmt.Fprintf(&b, "- Relevance: %s\n", ref.Relevance)
			}
			if len(ref.KeyPoints) > 0 {
				b.WriteString("- Key Points:\n")
				for _, kp := range ref.KeyPoints {
					fmt.Fprintf(&b, "  - %s\n", kp)
				}
			}
			if ref.Citation != "" {
				fmt.Fprintf(&b, "- Citation: %s\n", ref.Citation)
			}
		}
	}
	return b.String()
}
