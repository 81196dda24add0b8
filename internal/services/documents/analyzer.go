// File: internal/services/documents/analyzer.go
package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iyunix/go-kanoon/internal/services/ai"
)

const analysisPrompt = `Analyze the following legal document and provide:
1. A comprehensive summary (2-3 paragraphs)
2. Key legal points (as a list)
3. Important sections or clauses
4. Legal implications or considerations
5. Recommendations or next steps

Document text:
%s

Respond with a single JSON object in this format:
{
  "summary": "detailed summary here",
  "key_points": ["point 1", "point 2"],
  "important_sections": ["section 1", "section 2"],
  "legal_implications": ["implication 1"],
  "recommendations": ["recommendation 1"]
}`

// Analysis is the model's review of a document.
type Analysis struct {
	Summary           string   `json:"summary"`
	KeyPoints         TextList `json:"key_points"`
	ImportantSections TextList `json:"important_sections"`
	LegalImplications TextList `json:"legal_implications"`
	Recommendations   TextList `json:"recommendations"`
}

// TextList accepts either a JSON array or a single string. Models are not
// consistent about which one they return.
type TextList []string

func (t *TextList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if s := strings.TrimSpace(single); s != "" {
			*t = TextList{s}
		} else {
			*t = nil
		}
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(TextList, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(item))
		if s != "" {
			out = append(out, s)
		}
	}
	*t = out
	return nil
}

// Analyzer sends document text to the model.
type Analyzer struct {
	llm         ai.CompletionProvider
	maxChars    int
	temperature float32
	logger      Logger
}

func NewAnalyzer(llm ai.CompletionProvider, maxChars int, temperature float32, logger Logger) *Analyzer {
	return &Analyzer{llm: llm, maxChars: maxChars, temperature: temperature, logger: logger}
}

// Analyze reviews the first maxChars characters of text. A reply that is not
// JSON becomes the summary.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	runes := []rune(text)
	if len(runes) > a.maxChars {
		text = string(runes[:a.maxChars])
	}

	reply, err := a.llm.Complete(ctx, ai.CompletionRequest{
		Prompt:      fmt.Sprintf(analysisPrompt, text),
		Temperature: a.temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(ai.StripCodeFence(reply)), &analysis); err != nil {
		a.logger.Warn("document analysis reply was not valid JSON", "reply_length", len(reply))
		return &Analysis{Summary: strings.TrimSpace(reply)}, nil
	}
	return &analysis, nil
}
