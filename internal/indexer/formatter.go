package indexer

import (
	"fmt"
	"strings"

	"hrchat/internal/hr"
)

const dateLayout = "2006-01-02"

// KeywordExpansions maps an attendance-type name fragment to synonym keywords
// injected into shift-allocation documents for non-presence types. The extra
// occurrences improve semantic recall for loosely worded questions. The table
// is data so deployments can localize it without code changes.
type KeywordExpansions map[string][]string

// DefaultKeywordExpansions covers the common Indonesian absence types.
func DefaultKeywordExpansions() KeywordExpansions {
	return KeywordExpansions{
		"cuti":  {"cuti", "liburan", "tidak masuk", "istirahat", "leave", "vacation", "day off"},
		"izin":  {"izin", "permisi", "berhalangan", "permission", "excused"},
		"sakit": {"sakit", "tidak sehat", "berobat", "sick", "unwell"},
		"libur": {"libur", "hari libur", "tanggal merah", "holiday"},
	}
}

// expand returns the synonym list for an attendance type name, matching by
// case-insensitive substring.
func (k KeywordExpansions) expand(typeName string) []string {
	lowered := strings.ToLower(typeName)
	for fragment, synonyms := range k {
		if strings.Contains(lowered, fragment) {
			return synonyms
		}
	}
	return nil
}

// FormatEmployee renders an employee record as a canonical paragraph. The
// output is what gets embedded and what is shown as retrieval evidence, so it
// uses display names throughout, never foreign keys.
func FormatEmployee(d *hr.EmployeeDetail) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Karyawan %s", d.Name)
	if d.Email != "" {
		fmt.Fprintf(&sb, " (%s)", d.Email)
	}
	if d.Department != "" {
		fmt.Fprintf(&sb, " bekerja di departemen %s", d.Department)
	}
	if d.Position != "" {
		fmt.Fprintf(&sb, " dengan jabatan %s", d.Position)
	}
	sb.WriteString(".")

	if !d.HireDate.IsZero() {
		fmt.Fprintf(&sb, " Bergabung sejak %s.", d.HireDate.Format(dateLayout))
	}
	if d.Salary > 0 {
		fmt.Fprintf(&sb, " Gaji: Rp %.0f.", d.Salary)
	}
	if d.Active {
		sb.WriteString(" Status: karyawan aktif.")
	} else {
		sb.WriteString(" Status: sudah tidak aktif.")
	}

	return sb.String()
}

// FormatAttendance renders an attendance record as a canonical paragraph.
func FormatAttendance(d *hr.AttendanceDetail) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Catatan kehadiran %s", d.EmployeeName)
	if d.Department != "" {
		fmt.Fprintf(&sb, " dari departemen %s", d.Department)
	}
	fmt.Fprintf(&sb, " pada tanggal %s: status %s.", d.Date.Format(dateLayout), attendanceStatusLabel(d.Status))

	if d.CheckIn != "" {
		fmt.Fprintf(&sb, " Jam masuk %s.", d.CheckIn)
	}
	if d.CheckOut != "" {
		fmt.Fprintf(&sb, " Jam pulang %s.", d.CheckOut)
	}
	if d.Notes != "" {
		fmt.Fprintf(&sb, " Catatan: %s.", d.Notes)
	}

	return sb.String()
}

// FormatShiftAllocation renders a shift allocation as a canonical paragraph.
// For attendance types that do not require presence, synonym keywords from
// the expansion table are appended so semantic search surfaces these records
// for loosely worded questions.
func FormatShiftAllocation(d *hr.ShiftAllocationDetail, expansions KeywordExpansions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Alokasi shift %s", d.EmployeeName)
	if d.Department != "" {
		fmt.Fprintf(&sb, " (departemen %s)", d.Department)
	}
	fmt.Fprintf(&sb, " pada tanggal %s.", d.Date.Format(dateLayout))

	if d.ShiftName != "" {
		fmt.Fprintf(&sb, " Shift %s", d.ShiftName)
		if d.ShiftStart != "" && d.ShiftEnd != "" {
			fmt.Fprintf(&sb, " (%s-%s)", d.ShiftStart, d.ShiftEnd)
		}
		sb.WriteString(".")
	}
	if d.AttendanceTypeName != "" {
		fmt.Fprintf(&sb, " Jenis kehadiran: %s.", d.AttendanceTypeName)
	}
	if d.Notes != "" {
		fmt.Fprintf(&sb, " Catatan: %s.", d.Notes)
	}

	if !d.RequiresPresence && d.AttendanceTypeName != "" {
		if synonyms := expansions.expand(d.AttendanceTypeName); len(synonyms) > 0 {
			fmt.Fprintf(&sb, " %s tidak masuk kerja. Kata terkait: %s.", d.EmployeeName, strings.Join(synonyms, ", "))
		}
	}

	return sb.String()
}

func attendanceStatusLabel(status string) string {
	switch status {
	case hr.StatusPresent:
		return "hadir"
	case hr.StatusLate:
		return "terlambat"
	case hr.StatusAbsent:
		return "tidak hadir tanpa keterangan"
	case hr.StatusLeave:
		return "cuti"
	case hr.StatusSick:
		return "sakit"
	case hr.StatusPermission:
		return "izin"
	default:
		return status
	}
}
