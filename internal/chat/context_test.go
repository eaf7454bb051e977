package chat

import (
	"strings"
	"testing"

	"hrchat/internal/vectordb"
)

func TestBuildContext_Placeholder(t *testing.T) {
	got := BuildContext("", nil)
	if got != noDataPlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestBuildContext_SectionsAndSeparator(t *testing.T) {
	results := []vectordb.SearchResult{
		{Document: vectordb.Document{
			Content:  "Karyawan Budi bekerja di departemen IT.",
			Metadata: vectordb.Metadata{Type: vectordb.TypeEmployee},
		}},
	}

	got := BuildContext("=== Statistik Karyawan ===\nTotal karyawan: 3", results)
	if !strings.Contains(got, "Total karyawan: 3") {
		t.Error("missing statistics block")
	}
	if !strings.Contains(got, "[EMPLOYEE] Karyawan Budi") {
		t.Errorf("missing typed document section: %q", got)
	}
	if !strings.Contains(got, "\n---\n") {
		t.Error("missing section separator")
	}
	if strings.Contains(got, noDataPlaceholder) {
		t.Error("placeholder must not appear when content exists")
	}
}

func TestBuildSources(t *testing.T) {
	results := []vectordb.SearchResult{
		{
			Document: vectordb.Document{
				Content: strings.Repeat("a", 200),
				Metadata: vectordb.Metadata{
					Type:       vectordb.TypeShift,
					EmployeeID: "emp-1",
					Name:       "Budi",
					Department: "IT",
					Extra:      "Shift Pagi",
				},
			},
			Similarity: 0.874,
		},
	}

	sources := BuildSources(results)
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	src := sources[0]
	if src.Type != "SHIFT" || src.Name != "Budi" || src.AdditionalInfo != "Shift Pagi" {
		t.Errorf("unexpected source: %+v", src)
	}
	if src.Similarity != 87 {
		t.Errorf("similarity = %d, want 87", src.Similarity)
	}
	if len([]rune(src.Preview)) != previewLength+3 || !strings.HasSuffix(src.Preview, "...") {
		t.Errorf("preview not truncated correctly: %d runes", len([]rune(src.Preview)))
	}
}

func TestSimilarityPercent_Clamps(t *testing.T) {
	if got := similarityPercent(-0.3); got != 0 {
		t.Errorf("negative similarity: got %d, want 0", got)
	}
	if got := similarityPercent(1.5); got != 100 {
		t.Errorf("oversized similarity: got %d, want 100", got)
	}
}
