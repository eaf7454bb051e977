package hr

import (
	"context"
	"testing"
	"time"

	"hrchat/internal/db"
	"hrchat/internal/vectordb"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

type change struct {
	orgID    string
	docType  vectordb.DocumentType
	entityID string
	deleted  bool
}

func recordChanges(store *Store) *[]change {
	var changes []change
	store.OnChange = func(orgID string, t vectordb.DocumentType, entityID string, deleted bool) {
		changes = append(changes, change{orgID, t, entityID, deleted})
	}
	return &changes
}

func TestCreateEmployee_NotifiesAndDefaults(t *testing.T) {
	store := setupTestStore(t)
	changes := recordChanges(store)
	ctx := context.Background()

	e, err := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.HireDate.IsZero() {
		t.Error("expected hire date default")
	}

	if len(*changes) != 1 {
		t.Fatalf("expected 1 change notification, got %d", len(*changes))
	}
	c := (*changes)[0]
	if c.orgID != "default" || c.docType != vectordb.TypeEmployee || c.entityID != e.ID || c.deleted {
		t.Errorf("unexpected change: %+v", c)
	}
}

func TestGetEmployeeDetail_Joins(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	dept, _ := store.CreateDepartment(ctx, "default", "IT")
	pos, _ := store.CreatePosition(ctx, "default", "Software Engineer")

	e, err := store.CreateEmployee(ctx, Employee{
		OrgID: "default", Name: "Budi", Email: "budi@example.com",
		DepartmentID: dept.ID, PositionID: pos.ID, Salary: 10000000, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	d, err := store.GetEmployeeDetail(ctx, "default", e.ID)
	if err != nil {
		t.Fatalf("GetEmployeeDetail: %v", err)
	}
	if d == nil {
		t.Fatal("expected employee")
	}
	if d.Department != "IT" || d.Position != "Software Engineer" {
		t.Errorf("joined names: dept=%q pos=%q", d.Department, d.Position)
	}
}

func TestGetEmployeeDetail_NoReferences(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Siti", Active: true})

	d, err := store.GetEmployeeDetail(ctx, "default", e.ID)
	if err != nil {
		t.Fatalf("GetEmployeeDetail: %v", err)
	}
	if d.Department != "" || d.Position != "" {
		t.Errorf("expected empty joined names, got dept=%q pos=%q", d.Department, d.Position)
	}
}

func TestDeleteEmployee(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})
	changes := recordChanges(store)

	if err := store.DeleteEmployee(ctx, "default", e.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if err := store.DeleteEmployee(ctx, "default", e.ID); err == nil {
		t.Error("second delete must report not found")
	}

	if len(*changes) != 1 || !(*changes)[0].deleted {
		t.Errorf("expected one delete notification, got %+v", *changes)
	}
}

func TestOrgScoping(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "org-a", Name: "Budi", Active: true})

	d, err := store.GetEmployeeDetail(ctx, "org-b", e.ID)
	if err != nil {
		t.Fatalf("GetEmployeeDetail: %v", err)
	}
	if d != nil {
		t.Error("employee must not be visible from another org")
	}
	if err := store.DeleteEmployee(ctx, "org-b", e.ID); err == nil {
		t.Error("cross-org delete must fail")
	}
}

func TestListAttendanceIDs_DateRange(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})

	septDate := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	augDate := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	sept, _ := store.CreateAttendance(ctx, Attendance{OrgID: "default", EmployeeID: e.ID, Date: septDate, Status: StatusPresent})
	store.CreateAttendance(ctx, Attendance{OrgID: "default", EmployeeID: e.ID, Date: augDate, Status: StatusPresent})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	ids, err := store.ListAttendanceIDs(ctx, "default", &start, &end)
	if err != nil {
		t.Fatalf("ListAttendanceIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != sept.ID {
		t.Errorf("ids = %v, want [%s]", ids, sept.ID)
	}

	all, err := store.ListAttendanceIDs(ctx, "default", nil, nil)
	if err != nil {
		t.Fatalf("ListAttendanceIDs: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unbounded list = %d, want 2", len(all))
	}
}

func TestGetShiftAllocationDetail_PresenceDefault(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})

	// No attendance type at all: presence defaults to true.
	alloc, err := store.CreateShiftAllocation(ctx, ShiftAllocation{
		OrgID: "default", EmployeeID: e.ID, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateShiftAllocation: %v", err)
	}

	d, err := store.GetShiftAllocationDetail(ctx, "default", alloc.ID)
	if err != nil {
		t.Fatalf("GetShiftAllocationDetail: %v", err)
	}
	if !d.RequiresPresence {
		t.Error("missing attendance type must default to requires-presence")
	}

	leave, _ := store.CreateAttendanceType(ctx, "default", "Cuti Tahunan", false)
	alloc2, _ := store.CreateShiftAllocation(ctx, ShiftAllocation{
		OrgID: "default", EmployeeID: e.ID, AttendanceTypeID: leave.ID,
		Date: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})
	d2, err := store.GetShiftAllocationDetail(ctx, "default", alloc2.ID)
	if err != nil {
		t.Fatalf("GetShiftAllocationDetail: %v", err)
	}
	if d2.RequiresPresence {
		t.Error("leave type must not require presence")
	}
	if d2.AttendanceTypeName != "Cuti Tahunan" {
		t.Errorf("joined type name = %q", d2.AttendanceTypeName)
	}
}

func TestCountEntities(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})
	store.CreateAttendance(ctx, Attendance{OrgID: "default", EmployeeID: e.ID, Date: time.Now(), Status: StatusPresent})

	for _, tc := range []struct {
		docType vectordb.DocumentType
		want    int
	}{
		{vectordb.TypeEmployee, 1},
		{vectordb.TypeAttendance, 1},
		{vectordb.TypeShift, 0},
	} {
		got, err := store.CountEntities(ctx, "default", tc.docType)
		if err != nil {
			t.Fatalf("CountEntities(%s): %v", tc.docType, err)
		}
		if got != tc.want {
			t.Errorf("CountEntities(%s) = %d, want %d", tc.docType, got, tc.want)
		}
	}

	if _, err := store.CountEntities(ctx, "default", "WIDGET"); err == nil {
		t.Error("unknown type must error")
	}
}
