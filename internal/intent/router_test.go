package intent

import (
	"testing"

	"hrchat/internal/vectordb"
)

func TestClassify_DefaultsToAllTypes(t *testing.T) {
	cls := Classify("tolong bantu saya")
	if len(cls.Types) != len(vectordb.AllTypes()) {
		t.Fatalf("expected all types for unmatched question, got %v", cls.Types)
	}
	if cls.IsStats {
		t.Error("expected IsStats false")
	}
}

func TestClassify_AttendanceKeywords(t *testing.T) {
	for _, q := range []string{
		"siapa yang telat hari ini",
		"show me attendance for last week",
		"berapa yang hadir kemarin",
	} {
		cls := Classify(q)
		if !cls.Has(vectordb.TypeAttendance) {
			t.Errorf("%q: expected ATTENDANCE in %v", q, cls.Types)
		}
	}
}

func TestClassify_LeaveHitsBothTypes(t *testing.T) {
	for _, q := range []string{
		"siapa yang sedang cuti bulan ini?",
		"who is on leave today",
		"ada yang izin besok?",
	} {
		cls := Classify(q)
		if !cls.Has(vectordb.TypeAttendance) || !cls.Has(vectordb.TypeShift) {
			t.Errorf("%q: expected ATTENDANCE and SHIFT, got %v", q, cls.Types)
		}
	}
}

func TestClassify_EmployeeKeywords(t *testing.T) {
	cls := Classify("Berapa banyak karyawan di departemen IT?")
	if !cls.Has(vectordb.TypeEmployee) {
		t.Fatalf("expected EMPLOYEE, got %v", cls.Types)
	}
	if !cls.IsStats {
		t.Error("expected IsStats true for 'berapa'")
	}
}

func TestClassify_StatsDetection(t *testing.T) {
	cases := map[string]bool{
		"berapa total gaji karyawan":     true,
		"how many employees do we have":  true,
		"rata-rata kehadiran bulan ini":  true,
		"siapa manajer departemen IT":    false,
		"jadwal shift minggu ini gimana": false,
	}
	for q, want := range cases {
		if got := Classify(q).IsStats; got != want {
			t.Errorf("%q: IsStats = %v, want %v", q, got, want)
		}
	}
}

func TestClassify_CanonicalOrder(t *testing.T) {
	// Shift keyword appears before employee keyword, but output order
	// follows the canonical type order.
	cls := Classify("jadwal shift untuk karyawan baru")
	want := []vectordb.DocumentType{vectordb.TypeEmployee, vectordb.TypeShift}
	if len(cls.Types) != len(want) {
		t.Fatalf("got %v, want %v", cls.Types, want)
	}
	for i := range want {
		if cls.Types[i] != want[i] {
			t.Fatalf("got %v, want %v", cls.Types, want)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	cls := Classify("SIAPA YANG CUTI?")
	if !cls.Has(vectordb.TypeAttendance) {
		t.Errorf("expected uppercase question to match, got %v", cls.Types)
	}
}
