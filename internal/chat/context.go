package chat

import (
	"fmt"
	"strings"

	"hrchat/internal/vectordb"
)

const noDataPlaceholder = "Tidak ada data relevan yang ditemukan untuk pertanyaan ini."

const previewLength = 160

// BuildContext concatenates the statistics block and the retrieved document
// texts into one prompt context. When both are empty an explicit placeholder
// is substituted so the model is never handed an empty prompt.
func BuildContext(statsText string, results []vectordb.SearchResult) string {
	var sections []string

	if statsText != "" {
		sections = append(sections, statsText)
	}

	for _, r := range results {
		sections = append(sections, fmt.Sprintf("[%s] %s", r.Document.Metadata.Type, r.Document.Content))
	}

	if len(sections) == 0 {
		return noDataPlaceholder
	}
	return strings.Join(sections, "\n---\n")
}

// BuildSources derives citation records from the filtered documents,
// independent of the context string.
func BuildSources(results []vectordb.SearchResult) []Source {
	sources := make([]Source, 0, len(results))
	for _, r := range results {
		m := r.Document.Metadata
		sources = append(sources, Source{
			Type:           string(m.Type),
			EmployeeID:     m.EmployeeID,
			Name:           m.Name,
			Department:     m.Department,
			Position:       m.Position,
			Similarity:     similarityPercent(r.Similarity),
			Preview:        preview(r.Document.Content),
			AdditionalInfo: m.Extra,
		})
	}
	return sources
}

// similarityPercent rescales a cosine similarity to a 0-100 integer for
// display. Negative similarities clamp to 0.
func similarityPercent(sim float32) int {
	pct := int(sim * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
