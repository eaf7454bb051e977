package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrchat/internal/chat"
	"hrchat/internal/indexer"
	"hrchat/internal/vectordb"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// chatQueryRequest is the POST /api/chat/query body.
type chatQueryRequest struct {
	Question string         `json:"question"`
	UserID   string         `json:"user_id,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	History  []chat.Message `json:"history,omitempty"`
}

func (s *Server) handleChatQuery(w http.ResponseWriter, r *http.Request) {
	var req chatQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.engine.Query(r.Context(), chat.QueryRequest{
		OrgID:    s.orgID(r),
		UserID:   req.UserID,
		Question: req.Question,
		Limit:    req.Limit,
		History:  req.History,
	})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyQuestion) || errors.Is(err, chat.ErrQuestionTooLong) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("server: chat query: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to answer question")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")
	userID := r.URL.Query().Get("user_id")

	turns, total, err := s.engine.History().ListTurns(r.Context(), s.orgID(r), userID, page, limit, search)
	if err != nil {
		log.Printf("server: listing history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list chat history")
		return
	}
	if turns == nil {
		turns = []chat.ChatTurn{}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"turns": turns,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	turn, err := s.engine.History().GetTurn(r.Context(), s.orgID(r), id)
	if err != nil {
		log.Printf("server: getting turn %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to get chat turn")
		return
	}
	if turn == nil {
		writeError(w, http.StatusNotFound, "chat turn not found")
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.engine.History().DeleteTurn(r.Context(), s.orgID(r), id); err != nil {
		writeError(w, http.StatusNotFound, "chat turn not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	n, err := s.engine.History().ClearTurns(r.Context(), s.orgID(r), userID)
	if err != nil {
		log.Printf("server: clearing history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear chat history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": n})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	var req indexer.ReindexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	result, err := s.indexer.Reindex(r.Context(), s.orgID(r), req, nil)
	if err != nil {
		log.Printf("server: reindex: %v", err)
		writeError(w, http.StatusInternalServerError, "reindex failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     result.Success,
		"failed":      result.Failed,
		"total":       result.Total,
		"errors":      result.Errors,
		"duration_ms": time.Since(started).Milliseconds(),
	})
}

func (s *Server) handleEmbeddingSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	opts := vectordb.SearchOptions{Limit: 10}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if t := r.URL.Query().Get("type"); t != "" {
		dt := vectordb.DocumentType(t)
		if !dt.Valid() {
			writeError(w, http.StatusBadRequest, "unknown document type: "+t)
			return
		}
		opts.Type = dt
	}
	if min, err := strconv.ParseFloat(r.URL.Query().Get("min_similarity"), 32); err == nil {
		opts.MinSimilarity = float32(min)
	}

	vectors, err := s.embedder.Embed(r.Context(), []string{q})
	if err != nil || len(vectors) != 1 {
		log.Printf("server: embedding search query: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to embed query")
		return
	}

	results, err := s.store.Search(r.Context(), vectors[0], s.orgID(r), opts)
	if err != nil {
		log.Printf("server: embedding search: %v", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	out := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		out = append(out, map[string]interface{}{
			"type":       res.Document.Metadata.Type,
			"entity_id":  res.Document.Metadata.EntityID,
			"name":       res.Document.Metadata.Name,
			"content":    res.Document.Content,
			"similarity": res.Similarity,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": out, "total": len(out)})
}

// typeStats is the per-type block of the embeddings stats response.
type typeStats struct {
	Entities      int     `json:"entities"`
	Embeddings    int     `json:"embeddings"`
	Coverage      float64 `json:"coverage_percent"`
	NeedsIndexing bool    `json:"needs_indexing"`
	LastUpdated   string  `json:"last_updated,omitempty"`
}

func (s *Server) handleEmbeddingStats(w http.ResponseWriter, r *http.Request) {
	org := s.orgID(r)

	perType := make(map[string]typeStats, len(vectordb.AllTypes()))
	for _, t := range vectordb.AllTypes() {
		entities, err := s.hrStore.CountEntities(r.Context(), org, t)
		if err != nil {
			log.Printf("server: counting %s entities: %v", t, err)
			writeError(w, http.StatusInternalServerError, "failed to compute statistics")
			return
		}

		stats, err := s.store.Stats(r.Context(), org, t)
		if err != nil {
			log.Printf("server: registry stats for %s: %v", t, err)
			writeError(w, http.StatusInternalServerError, "failed to compute statistics")
			return
		}

		ts := typeStats{
			Entities:      entities,
			Embeddings:    stats.TotalEmbeddings,
			Coverage:      100,
			NeedsIndexing: stats.TotalEmbeddings < entities,
		}
		if entities > 0 {
			ts.Coverage = float64(stats.TotalEmbeddings) / float64(entities) * 100
			if ts.Coverage > 100 {
				ts.Coverage = 100
			}
		}
		if !stats.LastUpdated.IsZero() {
			ts.LastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
		}
		perType[string(t)] = ts
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"types":           perType,
		"total_documents": s.store.Count(),
	})
}
