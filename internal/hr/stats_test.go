package hr

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestEmployeeStatistics(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	it, _ := store.CreateDepartment(ctx, "default", "IT")
	store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", DepartmentID: it.ID, Active: true})
	store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Siti", DepartmentID: it.ID, Active: true})
	store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Agus", Active: false})

	stats, err := store.EmployeeStatistics(ctx, "default")
	if err != nil {
		t.Fatalf("EmployeeStatistics: %v", err)
	}
	if stats.Total != 3 || stats.Active != 2 {
		t.Errorf("total=%d active=%d, want 3/2", stats.Total, stats.Active)
	}

	want := []NameCount{{"IT", 2}, {"Tanpa Departemen", 1}}
	if !reflect.DeepEqual(stats.ByDepartment, want) {
		t.Errorf("ByDepartment = %v, want %v", stats.ByDepartment, want)
	}
}

func TestAttendanceStatistics_Windows(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})

	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	today := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)
	earlierThisMonth := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)

	store.CreateAttendance(ctx, Attendance{OrgID: "default", EmployeeID: e.ID, Date: today, Status: StatusPresent})
	store.CreateAttendance(ctx, Attendance{OrgID: "default", EmployeeID: e.ID, Date: earlierThisMonth, Status: StatusLate})
	store.CreateAttendance(ctx, Attendance{OrgID: "default", EmployeeID: e.ID, Date: lastMonth, Status: StatusPresent})

	stats, err := store.AttendanceStatistics(ctx, "default", now)
	if err != nil {
		t.Fatalf("AttendanceStatistics: %v", err)
	}
	if stats.Today != 1 {
		t.Errorf("Today = %d, want 1", stats.Today)
	}
	if stats.ThisMonth != 2 {
		t.Errorf("ThisMonth = %d, want 2", stats.ThisMonth)
	}
	if len(stats.ByStatus) != 2 {
		t.Errorf("ByStatus = %v", stats.ByStatus)
	}
}

func TestShiftStatistics(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e, _ := store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "Budi", Active: true})
	morning, _ := store.CreateShift(ctx, "default", "Shift Pagi", "08:00", "16:00")

	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	store.CreateShiftAllocation(ctx, ShiftAllocation{
		OrgID: "default", EmployeeID: e.ID, ShiftID: morning.ID,
		Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	store.CreateShiftAllocation(ctx, ShiftAllocation{
		OrgID: "default", EmployeeID: e.ID, ShiftID: morning.ID,
		Date: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})

	stats, err := store.ShiftStatistics(ctx, "default", now)
	if err != nil {
		t.Fatalf("ShiftStatistics: %v", err)
	}
	if stats.AllocationsToday != 1 {
		t.Errorf("AllocationsToday = %d, want 1", stats.AllocationsToday)
	}
	want := []NameCount{{"Shift Pagi", 2}}
	if !reflect.DeepEqual(stats.ByShift, want) {
		t.Errorf("ByShift = %v, want %v", stats.ByShift, want)
	}
}

func TestStatistics_Deterministic(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	it, _ := store.CreateDepartment(ctx, "default", "IT")
	fin, _ := store.CreateDepartment(ctx, "default", "Keuangan")
	store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "A", DepartmentID: it.ID, Active: true})
	store.CreateEmployee(ctx, Employee{OrgID: "default", Name: "B", DepartmentID: fin.ID, Active: true})

	first, err := store.EmployeeStatistics(ctx, "default")
	if err != nil {
		t.Fatalf("EmployeeStatistics: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := store.EmployeeStatistics(ctx, "default")
		if err != nil {
			t.Fatalf("EmployeeStatistics: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}
