// Package chat implements the retrieval-augmented question answering
// pipeline: route the question, gather live statistics and similar
// documents, assemble a context, generate an answer and persist the
// exchange.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"hrchat/internal/intent"
	"hrchat/internal/llm"
	"hrchat/internal/vectordb"
)

// Validation errors, surfaced verbatim to callers. Everything else collapses
// to a generic failure message.
var (
	ErrEmptyQuestion   = errors.New("question is required")
	ErrQuestionTooLong = errors.New("question is too long (max 1000 characters)")
)

const (
	maxQuestionLength  = 1000
	maxHistoryMessages = 6 // 3 exchanges; older turns are dropped, never summarized
	defaultLimit       = 10
)

const systemPrompt = `Kamu adalah asisten HR yang membantu menjawab pertanyaan tentang karyawan, kehadiran, dan jadwal shift.
Jawab berdasarkan konteks yang diberikan. Jika konteks tidak memuat jawabannya, katakan bahwa datanya tidak tersedia.
Untuk pertanyaan jumlah atau statistik, gunakan angka dari blok statistik, bukan perkiraan dari dokumen.
Jawab singkat dan jelas dalam bahasa yang sama dengan pertanyaan.`

// Engine is the top-level query orchestrator.
type Engine struct {
	stats     *StatsBuilder
	retriever *Retriever
	provider  llm.Provider
	model     string
	history   *HistoryStore

	// now is swappable for tests.
	now func() time.Time
}

// NewEngine wires the pipeline together.
func NewEngine(stats *StatsBuilder, retriever *Retriever, provider llm.Provider, model string, history *HistoryStore) *Engine {
	return &Engine{
		stats:     stats,
		retriever: retriever,
		provider:  provider,
		model:     model,
		history:   history,
		now:       time.Now,
	}
}

// History exposes the underlying history store.
func (e *Engine) History() *HistoryStore { return e.history }

// Query answers one question. Statistics and retrieval run in parallel; the
// exchange is persisted best-effort after a successful generation.
func (e *Engine) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if len(question) > maxQuestionLength {
		return nil, ErrQuestionTooLong
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	start := e.now()
	cls := intent.Classify(question)

	var (
		wg         sync.WaitGroup
		statsText  string
		statsErr   error
		results    []vectordb.SearchResult
		searchTime time.Duration
		retErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		statsText, statsErr = e.stats.Build(ctx, req.OrgID, cls.Types)
	}()
	go func() {
		defer wg.Done()
		searchStart := time.Now()
		results, retErr = e.retriever.Retrieve(ctx, req.OrgID, question, cls.Types, limit)
		searchTime = time.Since(searchStart)
	}()
	wg.Wait()

	if retErr != nil {
		return nil, fmt.Errorf("retrieval failed: %w", retErr)
	}
	if statsErr != nil {
		return nil, fmt.Errorf("statistics failed: %w", statsErr)
	}

	filtered := FilterByDate(results, question, e.now())
	contextText := BuildContext(statsText, filtered)
	sources := BuildSources(filtered)

	messages := e.buildMessages(question, contextText, req.History)
	completion, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	docTypes := make([]string, len(cls.Types))
	for i, t := range cls.Types {
		docTypes[i] = string(t)
	}

	meta := Meta{
		TotalSources:  len(sources),
		SearchTimeMs:  searchTime.Milliseconds(),
		TotalTimeMs:   time.Since(start).Milliseconds(),
		DocumentTypes: docTypes,
	}

	// Persistence failure must not erase a successful answer.
	turn := ChatTurn{
		OrgID:    req.OrgID,
		UserID:   req.UserID,
		Question: question,
		Answer:   completion.Content,
		Context: TurnContext{
			Sources:       sources,
			TotalSources:  meta.TotalSources,
			SearchTimeMs:  meta.SearchTimeMs,
			TotalTimeMs:   meta.TotalTimeMs,
			DocumentTypes: docTypes,
		},
	}
	if _, err := e.history.CreateTurn(ctx, turn); err != nil {
		log.Printf("chat: persisting turn: %v", err)
	}

	return &QueryResponse{
		Answer:  completion.Content,
		Sources: sources,
		Meta:    meta,
	}, nil
}

// buildMessages assembles the prompt: system instructions, the last few
// conversation turns, then the context and question.
func (e *Engine) buildMessages(question, contextText string, history []Message) []llm.Message {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Konteks:\n%s\n\nPertanyaan: %s", contextText, question),
	})
	return messages
}
