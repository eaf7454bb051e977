package chat

import "time"

// Source is a citation shown next to a generated answer: which document
// backed it and how similar it was.
type Source struct {
	Type           string `json:"type"`
	EmployeeID     string `json:"employee_id,omitempty"`
	Name           string `json:"name,omitempty"`
	Department     string `json:"department,omitempty"`
	Position       string `json:"position,omitempty"`
	Similarity     int    `json:"similarity"` // 0-100
	Preview        string `json:"preview"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Message is one prior conversation turn supplied by the caller.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// QueryRequest is one question against the HR assistant.
type QueryRequest struct {
	OrgID    string
	UserID   string
	Question string
	Limit    int
	History  []Message
}

// Meta is the audit trail of what evidence produced an answer.
type Meta struct {
	TotalSources  int      `json:"total_sources"`
	SearchTimeMs  int64    `json:"search_time_ms"`
	TotalTimeMs   int64    `json:"total_time_ms"`
	DocumentTypes []string `json:"document_types"`
}

// QueryResponse is the answer plus its evidence.
type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Meta    Meta     `json:"meta"`
}

// TurnContext is the persisted form of Meta plus the sources themselves.
type TurnContext struct {
	Sources       []Source `json:"sources"`
	TotalSources  int      `json:"total_sources"`
	SearchTimeMs  int64    `json:"search_time_ms"`
	TotalTimeMs   int64    `json:"total_time_ms"`
	DocumentTypes []string `json:"document_types"`
}

// ChatTurn is one persisted question/answer exchange. Immutable after
// creation except deletion.
type ChatTurn struct {
	ID        string      `json:"id"`
	OrgID     string      `json:"org_id"`
	UserID    string      `json:"user_id"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Context   TurnContext `json:"context"`
	CreatedAt time.Time   `json:"created_at"`
}
