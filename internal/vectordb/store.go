package vectordb

import "context"

// Store persists embedded documents and serves similarity search. Every
// operation is scoped to one organization.
type Store interface {
	// Upsert writes a document, replacing any existing rows with the same
	// logical key (OrgID, Type, EntityID). Concurrent upserts to the same
	// key are last-write-wins.
	Upsert(ctx context.Context, doc Document) error

	// DeleteByLogicalKey removes every row matching the logical key,
	// including duplicates left behind by racing writers.
	DeleteByLogicalKey(ctx context.Context, orgID string, t DocumentType, entityID string) error

	// Search returns up to opts.Limit documents ordered by descending cosine
	// similarity to the query vector.
	Search(ctx context.Context, vector []float32, orgID string, opts SearchOptions) ([]SearchResult, error)

	// CleanupDuplicates deletes all but the most recently updated row for
	// each logical key that has more than one. Returns the number removed.
	CleanupDuplicates(ctx context.Context, orgID string, t DocumentType) (int, error)

	// Stats summarizes the registry for one document type.
	Stats(ctx context.Context, orgID string, t DocumentType) (*RegistryStats, error)

	// Count returns the total number of stored documents.
	Count() int

	// Persist saves the vector data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the vector data from the given directory.
	Load(ctx context.Context, dir string) error
}
