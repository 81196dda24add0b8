// File: internal/services/chat/rag.go
package chat

import (
	"fmt"
	"strings"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/services/ai"
)

const SystemPrompt = `You are a specialized AI assistant for Indian legal matters.
You have expertise in:
- Indian Penal Code (IPC)
- Code of Criminal Procedure (CrPC)
- Constitution of India
- Civil Procedure Code (CPC)
- Contract Law
- Property Law
- Family Law
- Corporate Law

Provide accurate, helpful legal information in plain language.
Always cite relevant sections and case laws when possible.
Keep responses clear, structured and professional, formatted as Markdown.
End every answer with a short note that the user should consult a qualified lawyer for advice on their specific situation.`

const analysisPrompt = `You are an AI legal expert specializing in Indian law.

USER QUERY: %s

INDIAN KANOON DATA:
%s

Analyze the query and the legal references above. Respond with a single JSON object with exactly these fields:
{
  "query_summary": "concise summary of the legal question",
  "applicable_laws": ["applicable laws and sections"],
  "key_principles": ["key legal principles relevant to the query"],
  "practical_implications": "practical implications for the person asking",
  "references": [
    {"title": "", "source": "", "relevance": "", "key_points": [""], "citation": ""}
  ]
}

Cite legal references properly and keep a professional legal tone.
Include only factual information supported by the data above or well-established legal principles.`

// BuildReferenceBlock renders search results as prompt context.
func BuildReferenceBlock(refs []domain.LegalReference) string {
	if len(refs) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results. Here are the top matches:\n", len(refs))
	for i, ref := range refs {
		fmt.Fprintf(&b, "\nDOCUMENT %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", ref.Title)
		fmt.Fprintf(&b, "Source: %s\n", ref.Source)
		fmt.Fprintf(&b, "Date: %s\n", ref.Date)
		fmt.Fprintf(&b, "Link: %s\n", ref.Link)
		fmt.Fprintf(&b, "Excerpt: %s\n", ref.Excerpt)
	}
	return b.String()
}

// BuildPrompt appends the legal references, when any, to the user's question.
func BuildPrompt(question string, refs []domain.LegalReference) string {
	block := BuildReferenceBlock(refs)
	if block == "" {
		return question
	}
	return fmt.Sprintf("%s\n\nRelevant documents from Indian Kanoon:\n%s\nUse these documents where they apply and cite them by title.", question, block)
}

func buildAnalysisPrompt(query string, refs []domain.LegalReference) string {
	block := BuildReferenceBlock(refs)
	if block == "" {
		block = "No results available."
	}
	return fmt.Sprintf(analysisPrompt, query, block)
}

func historyTurns(messages []domain.ChatMessage) []ai.Turn {
	turns := make([]ai.Turn, 0, len(messages))
	for _, m := range messages {
		role := ai.RoleUser
		if m.MessageType == domain.MessageTypeAssistant {
			role = ai.RoleAssistant
		}
		turns = append(turns, ai.Turn{Role: role, Content: m.Content})
	}
	return turns
}
