// Package indexer keeps the semantic index in sync with the relational HR
// data: it renders entities to canonical text, embeds them and writes the
// result to the vector store.
package indexer

import (
	"context"
	"fmt"
	"log"
	"time"

	"hrchat/internal/embeddings"
	"hrchat/internal/hr"
	"hrchat/internal/vectordb"
)

// Indexer orchestrates embedding creation and refresh.
type Indexer struct {
	hrStore    *hr.Store
	embedder   embeddings.Embedder
	store      vectordb.Store
	expansions KeywordExpansions
}

// New creates an Indexer. A nil expansions table falls back to the defaults.
func New(hrStore *hr.Store, embedder embeddings.Embedder, store vectordb.Store, expansions KeywordExpansions) *Indexer {
	if expansions == nil {
		expansions = DefaultKeywordExpansions()
	}
	return &Indexer{
		hrStore:    hrStore,
		embedder:   embedder,
		store:      store,
		expansions: expansions,
	}
}

// EmbedOne loads one entity with its joins, renders it, embeds the text and
// upserts the document. An embedding failure is fatal to this operation; the
// caller decides whether that aborts anything larger.
func (ix *Indexer) EmbedOne(ctx context.Context, orgID string, t vectordb.DocumentType, entityID string) error {
	content, meta, err := ix.render(ctx, orgID, t, entityID)
	if err != nil {
		return err
	}

	vectors, err := ix.embedder.Embed(ctx, []string{content})
	if err != nil {
		return fmt.Errorf("embed %s %s: %w", t, entityID, err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embed %s %s: got %d vectors, expected 1", t, entityID, len(vectors))
	}

	doc := vectordb.Document{
		Content:  content,
		Vector:   vectors[0],
		Metadata: meta,
	}
	if err := ix.store.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("upsert %s %s: %w", t, entityID, err)
	}
	return nil
}

// EmbedBulk embeds entities sequentially, collecting per-item errors instead
// of aborting. Cancellation is honored at the loop boundary: remaining items
// are reported as failed with the context error.
func (ix *Indexer) EmbedBulk(ctx context.Context, orgID string, t vectordb.DocumentType, entityIDs []string, onProgress ProgressFunc) *BulkResult {
	result := &BulkResult{Total: len(entityIDs)}

	for i, id := range entityIDs {
		if err := ctx.Err(); err != nil {
			result.addError(fmt.Errorf("embed %s %s: %w", t, id, err))
			continue
		}

		if err := ix.EmbedOne(ctx, orgID, t, id); err != nil {
			log.Printf("indexer: %v", err)
			result.addError(err)
		} else {
			result.Success++
		}

		if onProgress != nil {
			onProgress(i+1, len(entityIDs), id)
		}
	}

	return result
}

// EmbedByDateRange resolves the id set for entities in [start, end) and
// delegates to EmbedBulk. Employees have no record date, so a range request
// for them embeds everyone.
func (ix *Indexer) EmbedByDateRange(ctx context.Context, orgID string, t vectordb.DocumentType, start, end *time.Time, onProgress ProgressFunc) (*BulkResult, error) {
	ids, err := ix.resolveIDs(ctx, orgID, t, start, end)
	if err != nil {
		return nil, err
	}
	return ix.EmbedBulk(ctx, orgID, t, ids, onProgress), nil
}

// CleanupDuplicates removes redundant rows per logical key. Its outcome is
// logged but never fails a reindex.
func (ix *Indexer) CleanupDuplicates(ctx context.Context, orgID string, t vectordb.DocumentType) {
	removed, err := ix.store.CleanupDuplicates(ctx, orgID, t)
	if err != nil {
		log.Printf("indexer: duplicate cleanup for org %s type %s: %v", orgID, t, err)
		return
	}
	if removed > 0 {
		log.Printf("indexer: removed %d duplicate embeddings for org %s type %s", removed, orgID, t)
	}
}

// ReindexRequest describes one reindex operation.
type ReindexRequest struct {
	Type       vectordb.DocumentType `json:"document_type,omitempty"`
	EntityIDs  []string              `json:"document_ids,omitempty"`
	ReindexAll bool                  `json:"reindex_all,omitempty"`
	StartDate  *time.Time            `json:"start_date,omitempty"`
	EndDate    *time.Time            `json:"end_date,omitempty"`
}

// Validate rejects malformed requests before any side effect.
func (r ReindexRequest) Validate() error {
	if r.Type != "" && !r.Type.Valid() {
		return fmt.Errorf("unknown document type %q", r.Type)
	}
	if !r.ReindexAll && len(r.EntityIDs) == 0 && r.StartDate == nil && r.EndDate == nil {
		return fmt.Errorf("reindex request must set reindex_all, document_ids, or a date range")
	}
	if len(r.EntityIDs) > 0 && r.Type == "" {
		return fmt.Errorf("document_ids requires a document_type")
	}
	return nil
}

// Reindex runs a bulk reindex. Full reindexes are preceded by a duplicate
// cleanup pass per type.
func (ix *Indexer) Reindex(ctx context.Context, orgID string, req ReindexRequest, onProgress ProgressFunc) (*BulkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	types := vectordb.AllTypes()
	if req.Type != "" {
		types = []vectordb.DocumentType{req.Type}
	}

	if len(req.EntityIDs) > 0 {
		ix.CleanupDuplicates(ctx, orgID, req.Type)
		return ix.EmbedBulk(ctx, orgID, req.Type, req.EntityIDs, onProgress), nil
	}

	combined := &BulkResult{}
	for _, t := range types {
		ix.CleanupDuplicates(ctx, orgID, t)

		result, err := ix.EmbedByDateRange(ctx, orgID, t, req.StartDate, req.EndDate, onProgress)
		if err != nil {
			return nil, err
		}
		combined.merge(result)
	}
	return combined, nil
}

func (ix *Indexer) render(ctx context.Context, orgID string, t vectordb.DocumentType, entityID string) (string, vectordb.Metadata, error) {
	switch t {
	case vectordb.TypeEmployee:
		d, err := ix.hrStore.GetEmployeeDetail(ctx, orgID, entityID)
		if err != nil {
			return "", vectordb.Metadata{}, err
		}
		if d == nil {
			return "", vectordb.Metadata{}, fmt.Errorf("employee not found: %s", entityID)
		}
		status := "aktif"
		if !d.Active {
			status = "nonaktif"
		}
		return FormatEmployee(d), vectordb.Metadata{
			Type:       t,
			EntityID:   entityID,
			OrgID:      orgID,
			EmployeeID: d.ID,
			Name:       d.Name,
			Department: d.Department,
			Position:   d.Position,
			Status:     status,
			Date:       d.HireDate,
		}, nil

	case vectordb.TypeAttendance:
		d, err := ix.hrStore.GetAttendanceDetail(ctx, orgID, entityID)
		if err != nil {
			return "", vectordb.Metadata{}, err
		}
		if d == nil {
			return "", vectordb.Metadata{}, fmt.Errorf("attendance not found: %s", entityID)
		}
		return FormatAttendance(d), vectordb.Metadata{
			Type:       t,
			EntityID:   entityID,
			OrgID:      orgID,
			EmployeeID: d.EmployeeID,
			Name:       d.EmployeeName,
			Department: d.Department,
			Status:     d.Status,
			Date:       d.Date,
			Extra:      fmt.Sprintf("masuk %s, pulang %s", d.CheckIn, d.CheckOut),
		}, nil

	case vectordb.TypeShift:
		d, err := ix.hrStore.GetShiftAllocationDetail(ctx, orgID, entityID)
		if err != nil {
			return "", vectordb.Metadata{}, err
		}
		if d == nil {
			return "", vectordb.Metadata{}, fmt.Errorf("shift allocation not found: %s", entityID)
		}
		return FormatShiftAllocation(d, ix.expansions), vectordb.Metadata{
			Type:       t,
			EntityID:   entityID,
			OrgID:      orgID,
			EmployeeID: d.EmployeeID,
			Name:       d.EmployeeName,
			Department: d.Department,
			Status:     d.AttendanceTypeName,
			Date:       d.Date,
			Extra:      d.ShiftName,
		}, nil

	default:
		return "", vectordb.Metadata{}, fmt.Errorf("unknown document type %q", t)
	}
}

func (ix *Indexer) resolveIDs(ctx context.Context, orgID string, t vectordb.DocumentType, start, end *time.Time) ([]string, error) {
	switch t {
	case vectordb.TypeEmployee:
		return ix.hrStore.ListEmployeeIDs(ctx, orgID)
	case vectordb.TypeAttendance:
		return ix.hrStore.ListAttendanceIDs(ctx, orgID, start, end)
	case vectordb.TypeShift:
		return ix.hrStore.ListShiftAllocationIDs(ctx, orgID, start, end)
	default:
		return nil, fmt.Errorf("unknown document type %q", t)
	}
}
