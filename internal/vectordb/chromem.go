package vectordb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"hrchat/internal/db"
	"hrchat/internal/embeddings"
)

const collectionName = "hr_documents"

// ChromemStore implements Store using chromem-go for vectors and a SQLite
// registry table for logical-key bookkeeping.
type ChromemStore struct {
	vdb        *chromem.DB
	collection *chromem.Collection
	registry   *db.DB
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates an in-memory ChromemStore backed by the given
// registry database. The embedder is only used when chromem needs to embed
// query text itself; all document vectors are supplied explicitly.
func NewChromemStore(embedder embeddings.Embedder, registry *db.DB) (*ChromemStore, error) {
	vdb := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := vdb.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		vdb:        vdb,
		collection: col,
		registry:   registry,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, doc Document) error {
	m := doc.Metadata
	if !m.Type.Valid() {
		return fmt.Errorf("invalid document type %q", m.Type)
	}
	if m.OrgID == "" || m.EntityID == "" {
		return fmt.Errorf("document missing logical key (org=%q, entity=%q)", m.OrgID, m.EntityID)
	}

	existing, err := s.registryDocIDs(ctx, m.OrgID, m.Type, m.EntityID)
	if err != nil {
		return err
	}
	for _, id := range existing {
		if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
			return fmt.Errorf("delete stale document %s: %w", id, err)
		}
	}

	docID := doc.ID
	if docID == "" {
		docID = uuid.New().String()
	}

	err = s.collection.AddDocument(ctx, chromem.Document{
		ID:        docID,
		Content:   doc.Content,
		Embedding: doc.Vector,
		Metadata:  metadataToMap(m),
	})
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	tx, err := s.registry.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registry tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM embedding_registry WHERE org_id = ? AND doc_type = ? AND entity_id = ?`,
		m.OrgID, m.Type, m.EntityID,
	); err != nil {
		return fmt.Errorf("clear registry rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO embedding_registry (doc_id, org_id, doc_type, entity_id, content_hash, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		docID, m.OrgID, m.Type, m.EntityID, contentHash(doc.Content), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert registry row: %w", err)
	}
	return tx.Commit()
}

func (s *ChromemStore) DeleteByLogicalKey(ctx context.Context, orgID string, t DocumentType, entityID string) error {
	ids, err := s.registryDocIDs(ctx, orgID, t, entityID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
	}

	// Also sweep by metadata, in case a vector row exists without a
	// registry entry.
	if s.collection.Count() > 0 {
		where := map[string]string{"org_id": orgID, "type": string(t), "entity_id": entityID}
		if err := s.collection.Delete(ctx, where, nil); err != nil {
			return fmt.Errorf("delete by metadata: %w", err)
		}
	}

	_, err = s.registry.ExecContext(ctx,
		`DELETE FROM embedding_registry WHERE org_id = ? AND doc_type = ? AND entity_id = ?`,
		orgID, t, entityID,
	)
	if err != nil {
		return fmt.Errorf("delete registry rows: %w", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, vector []float32, orgID string, opts SearchOptions) ([]SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	where := map[string]string{"org_id": orgID}
	if opts.Type != "" {
		where["type"] = string(opts.Type)
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.Similarity < opts.MinSimilarity {
			continue
		}
		searchResults = append(searchResults, SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Vector:   r.Embedding,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		})
	}

	return searchResults, nil
}

func (s *ChromemStore) CleanupDuplicates(ctx context.Context, orgID string, t DocumentType) (int, error) {
	query := `SELECT doc_type, entity_id FROM embedding_registry
		WHERE org_id = ?`
	args := []interface{}{orgID}
	if t != "" {
		query += ` AND doc_type = ?`
		args = append(args, t)
	}
	query += ` GROUP BY doc_type, entity_id HAVING COUNT(*) > 1`

	rows, err := s.registry.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("finding duplicate keys: %w", err)
	}
	defer rows.Close()

	type key struct {
		docType  string
		entityID string
	}
	var keys []key
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.docType, &k.entityID); err != nil {
			return 0, fmt.Errorf("scanning duplicate key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	removed := 0
	for _, k := range keys {
		// Keep the most recently updated row, drop the rest.
		staleRows, err := s.registry.QueryContext(ctx,
			`SELECT doc_id FROM embedding_registry
			 WHERE org_id = ? AND doc_type = ? AND entity_id = ?
			 ORDER BY updated_at DESC, doc_id`,
			orgID, k.docType, k.entityID,
		)
		if err != nil {
			return removed, fmt.Errorf("listing duplicate rows: %w", err)
		}
		var docIDs []string
		for staleRows.Next() {
			var id string
			if err := staleRows.Scan(&id); err != nil {
				staleRows.Close()
				return removed, fmt.Errorf("scanning duplicate row: %w", err)
			}
			docIDs = append(docIDs, id)
		}
		staleRows.Close()
		if err := staleRows.Err(); err != nil {
			return removed, err
		}

		for _, id := range docIDs[1:] {
			if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
				return removed, fmt.Errorf("delete duplicate %s: %w", id, err)
			}
			if _, err := s.registry.ExecContext(ctx,
				`DELETE FROM embedding_registry WHERE doc_id = ?`, id,
			); err != nil {
				return removed, fmt.Errorf("delete duplicate registry row %s: %w", id, err)
			}
			removed++
		}
	}

	return removed, nil
}

func (s *ChromemStore) Stats(ctx context.Context, orgID string, t DocumentType) (*RegistryStats, error) {
	var stats RegistryStats
	var last sql.NullTime
	err := s.registry.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(updated_at) FROM embedding_registry
		 WHERE org_id = ? AND doc_type = ?`,
		orgID, t,
	).Scan(&stats.TotalEmbeddings, &last)
	if err != nil {
		return nil, fmt.Errorf("registry stats: %w", err)
	}
	if last.Valid {
		stats.LastUpdated = last.Time
	}
	return &stats, nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.vdb.ExportToFile(dir+"/chromem.gob.gz", true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	err := s.vdb.ImportFromFile(dir+"/chromem.gob.gz", "")
	if err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.vdb.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) registryDocIDs(ctx context.Context, orgID string, t DocumentType, entityID string) ([]string, error) {
	rows, err := s.registry.QueryContext(ctx,
		`SELECT doc_id FROM embedding_registry
		 WHERE org_id = ? AND doc_type = ? AND entity_id = ?`,
		orgID, t, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("registry lookup: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning registry row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:8])
}

// metadataToMap converts Metadata to a flat map[string]string for chromem.
func metadataToMap(m Metadata) map[string]string {
	md := map[string]string{
		"type":        string(m.Type),
		"entity_id":   m.EntityID,
		"org_id":      m.OrgID,
		"employee_id": m.EmployeeID,
		"name":        m.Name,
		"department":  m.Department,
		"position":    m.Position,
		"status":      m.Status,
		"extra":       m.Extra,
	}
	if !m.Date.IsZero() {
		md["date"] = m.Date.Format(time.RFC3339)
	}
	return md
}

// mapToMetadata converts a flat map[string]string back to Metadata.
func mapToMetadata(m map[string]string) Metadata {
	date, _ := time.Parse(time.RFC3339, m["date"])

	return Metadata{
		Type:       DocumentType(m["type"]),
		EntityID:   m["entity_id"],
		OrgID:      m["org_id"],
		EmployeeID: m["employee_id"],
		Name:       m["name"],
		Department: m["department"],
		Position:   m["position"],
		Status:     m["status"],
		Date:       date,
		Extra:      m["extra"],
	}
}
