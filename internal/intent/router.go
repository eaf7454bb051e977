// Package intent maps free-text questions to the document types worth
// searching, using a data-driven keyword table rather than a learned
// classifier. Keywords cover Indonesian and English phrasing.
package intent

import (
	"strings"

	"hrchat/internal/vectordb"
)

// Classification is the routing decision for one question.
type Classification struct {
	// Types is never empty: when no keyword matches, all types are searched.
	Types []vectordb.DocumentType

	// IsStats indicates the question asks for a quantity. It is a hint for
	// prompt emphasis, not a gate: statistics are computed for every routed
	// type that has a renderer.
	IsStats bool
}

// Has reports whether the classification includes the given type.
func (c Classification) Has(t vectordb.DocumentType) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// rule maps a keyword list to the document types it implies.
type rule struct {
	keywords []string
	types    []vectordb.DocumentType
}

var statsKeywords = []string{
	"berapa", "jumlah", "total", "statistik", "rata-rata",
	"how many", "how much", "count", "statistics", "average",
}

var routingRules = []rule{
	{
		keywords: []string{
			"absen", "absensi", "hadir", "kehadiran", "telat", "terlambat",
			"masuk kerja", "pulang kerja", "check in", "check out", "check-in", "check-out",
			"attendance", "present", "late", "clock in", "clock out",
		},
		types: []vectordb.DocumentType{vectordb.TypeAttendance},
	},
	{
		// Leave is recorded both as an attendance status and as a shift
		// allocation with a non-presence attendance type, so these words
		// route to both.
		keywords: []string{
			"cuti", "izin", "sakit", "libur", "berhalangan",
			"leave", "sick", "permission", "holiday", "day off", "time off",
		},
		types: []vectordb.DocumentType{vectordb.TypeAttendance, vectordb.TypeShift},
	},
	{
		keywords: []string{
			"shift", "jadwal", "roster", "jam kerja",
			"schedule", "working hours", "rotation",
		},
		types: []vectordb.DocumentType{vectordb.TypeShift},
	},
	{
		keywords: []string{
			"karyawan", "pegawai", "staf", "siapa", "gaji", "jabatan",
			"posisi", "departemen", "divisi",
			"employee", "staff", "who", "salary", "position", "department", "role",
		},
		types: []vectordb.DocumentType{vectordb.TypeEmployee},
	},
}

// Classify routes a question to the relevant document types and detects
// whether it asks for aggregate numbers.
func Classify(question string) Classification {
	q := strings.ToLower(question)

	var cls Classification
	for _, kw := range statsKeywords {
		if strings.Contains(q, kw) {
			cls.IsStats = true
			break
		}
	}

	matched := make(map[vectordb.DocumentType]bool)
	for _, r := range routingRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				for _, t := range r.types {
					matched[t] = true
				}
				break
			}
		}
	}

	// An empty type set would silently suppress retrieval; search
	// everything instead.
	if len(matched) == 0 {
		cls.Types = vectordb.AllTypes()
		return cls
	}

	for _, t := range vectordb.AllTypes() {
		if matched[t] {
			cls.Types = append(cls.Types, t)
		}
	}
	return cls
}
