// File: internal/services/chat/sources.go
package chat

import "strings"

// sourceKeywords are listed in the order they are reported.
var sourceKeywords = []string{
	"IPC", "CrPC", "Constitution", "CPC", "Section",
	"Article", "Act", "Supreme Court", "High Court",
}

// ExtractSources lists the legal sources a reply mentions, in canonical
// spelling. Matching is case-insensitive substring matching.
func ExtractSources(reply string) []string {
	lower := strings.ToLower(reply)
	sources := make([]string, 0, len(sourceKeywords))
	for _, kw := range sourceKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			sources = append(sources, kw)
		}
	}
	return sources
}
