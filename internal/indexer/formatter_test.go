package indexer

import (
	"strings"
	"testing"
	"time"

	"hrchat/internal/hr"
)

func TestFormatEmployee(t *testing.T) {
	d := &hr.EmployeeDetail{
		Employee: hr.Employee{
			Name:     "Budi Santoso",
			Email:    "budi@example.com",
			Salary:   12000000,
			HireDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
			Active:   true,
		},
		Department: "IT",
		Position:   "Software Engineer",
	}

	got := FormatEmployee(d)
	for _, want := range []string{
		"Karyawan Budi Santoso (budi@example.com)",
		"departemen IT",
		"jabatan Software Engineer",
		"Bergabung sejak 2022-03-01",
		"Gaji: Rp 12000000",
		"karyawan aktif",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestFormatEmployee_SparseFields(t *testing.T) {
	d := &hr.EmployeeDetail{Employee: hr.Employee{Name: "Siti"}}

	got := FormatEmployee(d)
	if !strings.HasPrefix(got, "Karyawan Siti.") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if strings.Contains(got, "Gaji") || strings.Contains(got, "departemen") {
		t.Errorf("empty fields must be omitted: %q", got)
	}
	if !strings.Contains(got, "sudah tidak aktif") {
		t.Errorf("inactive status missing: %q", got)
	}
}

func TestFormatAttendance_StatusLabels(t *testing.T) {
	d := &hr.AttendanceDetail{
		Attendance: hr.Attendance{
			Date:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Status:  hr.StatusLate,
			CheckIn: "08:45",
		},
		EmployeeName: "Budi",
		Department:   "IT",
	}

	got := FormatAttendance(d)
	if !strings.Contains(got, "status terlambat") {
		t.Errorf("expected localized status label, got %q", got)
	}
	if !strings.Contains(got, "Jam masuk 08:45") {
		t.Errorf("missing check-in: %q", got)
	}
	if strings.Contains(got, "Jam pulang") {
		t.Errorf("empty check-out must be omitted: %q", got)
	}
}

func TestFormatShiftAllocation_ExpandsNonPresenceTypes(t *testing.T) {
	d := &hr.ShiftAllocationDetail{
		ShiftAllocation: hr.ShiftAllocation{
			Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		EmployeeName:       "Budi",
		AttendanceTypeName: "Cuti Tahunan",
		RequiresPresence:   false,
	}

	got := FormatShiftAllocation(d, DefaultKeywordExpansions())
	if !strings.Contains(got, "Budi tidak masuk kerja") {
		t.Errorf("missing absence sentence: %q", got)
	}
	if !strings.Contains(got, "Kata terkait:") || !strings.Contains(got, "vacation") {
		t.Errorf("missing synonym expansion: %q", got)
	}
}

func TestFormatShiftAllocation_NoExpansionForPresence(t *testing.T) {
	d := &hr.ShiftAllocationDetail{
		ShiftAllocation: hr.ShiftAllocation{
			Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		EmployeeName:       "Budi",
		ShiftName:          "Shift Pagi",
		AttendanceTypeName: "Reguler",
		RequiresPresence:   true,
	}

	got := FormatShiftAllocation(d, DefaultKeywordExpansions())
	if strings.Contains(got, "Kata terkait") {
		t.Errorf("presence types must not get synonyms: %q", got)
	}
	if !strings.Contains(got, "Shift Shift Pagi") {
		t.Errorf("missing shift name: %q", got)
	}
}

func TestKeywordExpansions_SubstringMatch(t *testing.T) {
	exp := DefaultKeywordExpansions()

	if got := exp.expand("Cuti Melahirkan"); len(got) == 0 {
		t.Error("expected fragment match on 'cuti'")
	}
	if got := exp.expand("Reguler"); got != nil {
		t.Errorf("expected no match, got %v", got)
	}
}
