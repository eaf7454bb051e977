package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hrchat/internal/db"
)

// HistoryStore manages persistence of chat turns.
type HistoryStore struct {
	db *db.DB
}

// NewHistoryStore creates a new history store.
func NewHistoryStore(database *db.DB) *HistoryStore {
	return &HistoryStore{db: database}
}

// CreateTurn persists a completed exchange.
func (s *HistoryStore) CreateTurn(ctx context.Context, turn ChatTurn) (*ChatTurn, error) {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.UserID == "" {
		turn.UserID = "anonymous"
	}
	turn.CreatedAt = time.Now().UTC()

	contextJSON, err := json.Marshal(turn.Context)
	if err != nil {
		return nil, fmt.Errorf("marshalling turn context: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_turns (id, org_id, user_id, question, answer, context_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.OrgID, turn.UserID, turn.Question, turn.Answer, string(contextJSON), turn.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting chat turn: %w", err)
	}
	return &turn, nil
}

// GetTurn retrieves one turn by id.
func (s *HistoryStore) GetTurn(ctx context.Context, orgID, id string) (*ChatTurn, error) {
	var turn ChatTurn
	var contextJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, org_id, user_id, question, answer, context_json, created_at
		 FROM chat_turns WHERE id = ? AND org_id = ?`, id, orgID,
	).Scan(&turn.ID, &turn.OrgID, &turn.UserID, &turn.Question, &turn.Answer, &contextJSON, &turn.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat turn: %w", err)
	}
	if err := json.Unmarshal([]byte(contextJSON), &turn.Context); err != nil {
		return nil, fmt.Errorf("unmarshalling turn context: %w", err)
	}
	return &turn, nil
}

// ListTurns returns a page of turns, newest first, with an optional text
// search over question and answer. It also returns the total match count.
func (s *HistoryStore) ListTurns(ctx context.Context, orgID, userID string, page, limit int, search string) ([]ChatTurn, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := ` WHERE org_id = ?`
	args := []interface{}{orgID}
	if userID != "" {
		where += ` AND user_id = ?`
		args = append(args, userID)
	}
	if search != "" {
		where += ` AND (question LIKE ? OR answer LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_turns`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting chat turns: %w", err)
	}

	query := `SELECT id, org_id, user_id, question, answer, context_json, created_at
		 FROM chat_turns` + where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing chat turns: %w", err)
	}
	defer rows.Close()

	var turns []ChatTurn
	for rows.Next() {
		var turn ChatTurn
		var contextJSON string
		if err := rows.Scan(&turn.ID, &turn.OrgID, &turn.UserID, &turn.Question, &turn.Answer, &contextJSON, &turn.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning chat turn: %w", err)
		}
		if err := json.Unmarshal([]byte(contextJSON), &turn.Context); err != nil {
			return nil, 0, fmt.Errorf("unmarshalling turn context: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, total, rows.Err()
}

// DeleteTurn removes one turn.
func (s *HistoryStore) DeleteTurn(ctx context.Context, orgID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_turns WHERE id = ? AND org_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting chat turn: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("chat turn not found: %s", id)
	}
	return nil
}

// ClearTurns removes all turns for a user (or the whole organization when
// userID is empty). Returns the number removed.
func (s *HistoryStore) ClearTurns(ctx context.Context, orgID, userID string) (int64, error) {
	query := `DELETE FROM chat_turns WHERE org_id = ?`
	args := []interface{}{orgID}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clearing chat turns: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
