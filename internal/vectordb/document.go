package vectordb

import "time"

// DocumentType categorizes the kind of entity a document was rendered from.
type DocumentType string

const (
	TypeEmployee   DocumentType = "EMPLOYEE"
	TypeAttendance DocumentType = "ATTENDANCE"
	TypeShift      DocumentType = "SHIFT"
)

// AllTypes lists every document type in canonical order.
func AllTypes() []DocumentType {
	return []DocumentType{TypeEmployee, TypeAttendance, TypeShift}
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeEmployee, TypeAttendance, TypeShift:
		return true
	}
	return false
}

// Document is one embedded entity version: the exact text that was embedded,
// its vector, and denormalized display metadata.
type Document struct {
	ID       string
	Content  string
	Vector   []float32
	Metadata Metadata
}

// Metadata carries the logical key (OrgID, Type, EntityID) back to the source
// entity plus display fields for citations.
type Metadata struct {
	Type       DocumentType
	EntityID   string
	OrgID      string
	EmployeeID string
	Name       string
	Department string
	Position   string
	Status     string
	Date       time.Time
	Extra      string
}

// SearchResult pairs a document with its cosine similarity to the query.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchOptions narrows a similarity search.
type SearchOptions struct {
	Limit         int
	Type          DocumentType // empty matches all types
	MinSimilarity float32
}

// RegistryStats summarizes the embedding registry for one document type.
type RegistryStats struct {
	TotalEmbeddings int
	LastUpdated     time.Time
}
