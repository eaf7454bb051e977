package indexer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"hrchat/internal/db"
	"hrchat/internal/hr"
	"hrchat/internal/vectordb"
)

// mockEmbedder returns deterministic embeddings based on text content.
type mockEmbedder struct {
	dims int
	err  error
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dims)
		for j, ch := range text {
			vec[(int(ch)+j)%m.dims] += 1.0
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		results[i] = vec
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

// mockStore records upserts and deletes; failEntity makes one entity fail.
type mockStore struct {
	mu         sync.Mutex
	upserts    []vectordb.Document
	deletes    []string
	failEntity string
	failCount  int // fail this many times before succeeding; -1 fails forever
	cleaned    int
}

func (m *mockStore) Upsert(_ context.Context, doc vectordb.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.Metadata.EntityID == m.failEntity {
		if m.failCount != 0 {
			if m.failCount > 0 {
				m.failCount--
			}
			return errors.New("store unavailable")
		}
	}
	m.upserts = append(m.upserts, doc)
	return nil
}

func (m *mockStore) DeleteByLogicalKey(_ context.Context, orgID string, t vectordb.DocumentType, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, fmt.Sprintf("%s/%s/%s", orgID, t, entityID))
	return nil
}

func (m *mockStore) Search(context.Context, []float32, string, vectordb.SearchOptions) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (m *mockStore) CleanupDuplicates(context.Context, string, vectordb.DocumentType) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaned++
	return 0, nil
}

func (m *mockStore) Stats(context.Context, string, vectordb.DocumentType) (*vectordb.RegistryStats, error) {
	return &vectordb.RegistryStats{}, nil
}

func (m *mockStore) Count() int                            { return 0 }
func (m *mockStore) Persist(context.Context, string) error { return nil }
func (m *mockStore) Load(context.Context, string) error    { return nil }

func (m *mockStore) upsertedEntities() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.upserts))
	for i, d := range m.upserts {
		ids[i] = d.Metadata.EntityID
	}
	return ids
}

func setupIndexer(t *testing.T, store vectordb.Store) (*Indexer, *hr.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	hrStore := hr.NewStore(database)
	return New(hrStore, &mockEmbedder{dims: 16}, store, nil), hrStore
}

func seedEmployee(t *testing.T, hrStore *hr.Store, org, name string) *hr.Employee {
	t.Helper()
	e, err := hrStore.CreateEmployee(context.Background(), hr.Employee{
		OrgID: org, Name: name, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	return e
}

func TestEmbedOne_Employee(t *testing.T) {
	store := &mockStore{}
	ix, hrStore := setupIndexer(t, store)
	ctx := context.Background()

	e := seedEmployee(t, hrStore, "default", "Budi")

	if err := ix.EmbedOne(ctx, "default", vectordb.TypeEmployee, e.ID); err != nil {
		t.Fatalf("EmbedOne: %v", err)
	}
	if len(store.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(store.upserts))
	}
	doc := store.upserts[0]
	if doc.Metadata.Type != vectordb.TypeEmployee || doc.Metadata.EntityID != e.ID {
		t.Errorf("wrong logical key: %+v", doc.Metadata)
	}
	if !strings.Contains(doc.Content, "Karyawan Budi") {
		t.Errorf("unexpected content: %q", doc.Content)
	}
	if len(doc.Vector) != 16 {
		t.Errorf("vector dims = %d, want 16", len(doc.Vector))
	}
}

func TestEmbedOne_NotFound(t *testing.T) {
	ix, _ := setupIndexer(t, &mockStore{})

	err := ix.EmbedOne(context.Background(), "default", vectordb.TypeEmployee, "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestEmbedBulk_ContinuesPastFailures(t *testing.T) {
	ix, hrStore := setupIndexer(t, &mockStore{})
	ctx := context.Background()

	good := seedEmployee(t, hrStore, "default", "Budi")

	result := ix.EmbedBulk(ctx, "default", vectordb.TypeEmployee,
		[]string{good.ID, "missing-1", "missing-2"}, nil)

	if result.Success != 1 {
		t.Errorf("Success = %d, want 1", result.Success)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2", result.Failed)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 recorded errors, got %d", len(result.Errors))
	}
}

func TestEmbedBulk_Progress(t *testing.T) {
	ix, hrStore := setupIndexer(t, &mockStore{})
	ctx := context.Background()

	e1 := seedEmployee(t, hrStore, "default", "Budi")
	e2 := seedEmployee(t, hrStore, "default", "Siti")

	var calls []int
	ix.EmbedBulk(ctx, "default", vectordb.TypeEmployee, []string{e1.ID, e2.ID},
		func(current, total int, _ string) {
			if total != 2 {
				t.Errorf("total = %d, want 2", total)
			}
			calls = append(calls, current)
		})

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("progress calls = %v", calls)
	}
}

func TestEmbedBulk_Cancellation(t *testing.T) {
	ix, hrStore := setupIndexer(t, &mockStore{})

	e := seedEmployee(t, hrStore, "default", "Budi")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := ix.EmbedBulk(ctx, "default", vectordb.TypeEmployee, []string{e.ID, e.ID}, nil)
	if result.Success != 0 {
		t.Errorf("Success = %d, want 0 after cancellation", result.Success)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2", result.Failed)
	}
}

func TestReindexRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     ReindexRequest
		wantErr bool
	}{
		{"all", ReindexRequest{ReindexAll: true}, false},
		{"ids with type", ReindexRequest{Type: vectordb.TypeEmployee, EntityIDs: []string{"a"}}, false},
		{"ids without type", ReindexRequest{EntityIDs: []string{"a"}}, true},
		{"bad type", ReindexRequest{Type: "WIDGET", ReindexAll: true}, true},
		{"empty", ReindexRequest{}, true},
	}
	for _, tc := range cases {
		err := tc.req.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestReindex_AllTypes(t *testing.T) {
	store := &mockStore{}
	ix, hrStore := setupIndexer(t, store)
	ctx := context.Background()

	e := seedEmployee(t, hrStore, "default", "Budi")
	a, err := hrStore.CreateAttendance(ctx, hr.Attendance{
		OrgID: "default", EmployeeID: e.ID,
		Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Status: hr.StatusPresent,
	})
	if err != nil {
		t.Fatalf("CreateAttendance: %v", err)
	}

	result, err := ix.Reindex(ctx, "default", ReindexRequest{ReindexAll: true}, nil)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if result.Success != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}

	ids := store.upsertedEntities()
	if len(ids) != 2 {
		t.Fatalf("upserts = %v", ids)
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[e.ID] || !found[a.ID] {
		t.Errorf("missing entities in %v", ids)
	}

	// Full reindex runs duplicate cleanup once per type.
	if store.cleaned != len(vectordb.AllTypes()) {
		t.Errorf("cleanup runs = %d, want %d", store.cleaned, len(vectordb.AllTypes()))
	}
}

func TestReindex_DateRange(t *testing.T) {
	store := &mockStore{}
	ix, hrStore := setupIndexer(t, store)
	ctx := context.Background()

	e := seedEmployee(t, hrStore, "default", "Budi")
	inRange, _ := hrStore.CreateAttendance(ctx, hr.Attendance{
		OrgID: "default", EmployeeID: e.ID,
		Date: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), Status: hr.StatusPresent,
	})
	hrStore.CreateAttendance(ctx, hr.Attendance{
		OrgID: "default", EmployeeID: e.ID,
		Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), Status: hr.StatusPresent,
	})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	result, err := ix.Reindex(ctx, "default", ReindexRequest{
		Type: vectordb.TypeAttendance, StartDate: &start, EndDate: &end,
	}, nil)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if result.Success != 1 {
		t.Fatalf("Success = %d, want 1", result.Success)
	}
	if ids := store.upsertedEntities(); len(ids) != 1 || ids[0] != inRange.ID {
		t.Errorf("upserts = %v, want only %s", ids, inRange.ID)
	}
}

func TestRender_ShiftAllocationMetadata(t *testing.T) {
	store := &mockStore{}
	ix, hrStore := setupIndexer(t, store)
	ctx := context.Background()

	e := seedEmployee(t, hrStore, "default", "Budi")
	shift, _ := hrStore.CreateShift(ctx, "default", "Shift Pagi", "08:00", "16:00")
	leave, _ := hrStore.CreateAttendanceType(ctx, "default", "Cuti Tahunan", false)
	alloc, err := hrStore.CreateShiftAllocation(ctx, hr.ShiftAllocation{
		OrgID: "default", EmployeeID: e.ID, ShiftID: shift.ID, AttendanceTypeID: leave.ID,
		Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateShiftAllocation: %v", err)
	}

	if err := ix.EmbedOne(ctx, "default", vectordb.TypeShift, alloc.ID); err != nil {
		t.Fatalf("EmbedOne: %v", err)
	}

	doc := store.upserts[0]
	if doc.Metadata.Status != "Cuti Tahunan" || doc.Metadata.Extra != "Shift Pagi" {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if !strings.Contains(doc.Content, "Kata terkait:") {
		t.Errorf("non-presence allocation should carry synonyms: %q", doc.Content)
	}
}
