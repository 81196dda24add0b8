// File: internal/services/documents/report.go
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// Report renders a document's analysis as Markdown.
func (s *Service) Report(ctx context.Context, userID, id uint) (string, *domain.Document, error) {
	doc, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return "", nil, err
	}
	return BuildReport(doc), doc, nil
}

func BuildReport(doc *domain.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Document Report: %s\n\n", doc.OriginalFilename)
	fmt.Fprintf(&b, "- **Uploaded:** %s\n", doc.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- **Status:** %s\n", doc.ProcessingStatus)
	fmt.Fprintf(&b, "- **Size:** %s\n", humanSize(doc.FileSize))
	if doc.ProcessingError != "" {
		fmt.Fprintf(&b, "- **Error:** %s\n", doc.ProcessingError)
	}

	b.WriteString("\n## Summary\n\n")
	if doc.Summary != "" {
		b.WriteString(doc.Summary)
	} else {
		b.WriteString("_No summary available._")
	}
	b.WriteString("\n")

	analysis := doc.LegalAnalysis.Data()
	writeList(&b, "Key Points", doc.KeyPoints)
	writeList(&b, "Important Sections", analysis.ImportantSections)
	writeList(&b, "Legal Implications", analysis.LegalImplications)
	writeList(&b, "Recommendations", analysis.Recommendations)

	b.WriteString("\n---\n_This report is AI-generated and is not legal advice. Consult a qualified lawyer._\n")
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
