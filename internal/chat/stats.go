package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrchat/internal/hr"
	"hrchat/internal/vectordb"
)

// StatsBuilder renders live aggregate counts as prompt text. Counts always
// come from the relational store: similarity search cannot reliably answer
// "how many" questions, and the vector index may lag behind the data.
type StatsBuilder struct {
	hrStore *hr.Store

	// Now is swappable for tests.
	Now func() time.Time
}

// NewStatsBuilder creates a StatsBuilder.
func NewStatsBuilder(hrStore *hr.Store) *StatsBuilder {
	return &StatsBuilder{hrStore: hrStore, Now: time.Now}
}

// Build renders one statistics block per requested type that has a renderer.
func (b *StatsBuilder) Build(ctx context.Context, orgID string, types []vectordb.DocumentType) (string, error) {
	now := b.Now()
	var blocks []string

	for _, t := range types {
		switch t {
		case vectordb.TypeEmployee:
			stats, err := b.hrStore.EmployeeStatistics(ctx, orgID)
			if err != nil {
				return "", fmt.Errorf("employee statistics: %w", err)
			}
			blocks = append(blocks, renderEmployeeStats(stats))

		case vectordb.TypeAttendance:
			stats, err := b.hrStore.AttendanceStatistics(ctx, orgID, now)
			if err != nil {
				return "", fmt.Errorf("attendance statistics: %w", err)
			}
			blocks = append(blocks, renderAttendanceStats(stats))

		case vectordb.TypeShift:
			stats, err := b.hrStore.ShiftStatistics(ctx, orgID, now)
			if err != nil {
				return "", fmt.Errorf("shift statistics: %w", err)
			}
			blocks = append(blocks, renderShiftStats(stats))
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

func renderEmployeeStats(s *hr.EmployeeStats) string {
	var sb strings.Builder
	sb.WriteString("=== Statistik Karyawan ===\n")
	fmt.Fprintf(&sb, "Total karyawan: %d\n", s.Total)
	fmt.Fprintf(&sb, "Karyawan aktif: %d\n", s.Active)
	if len(s.ByDepartment) > 0 {
		sb.WriteString("Per departemen:\n")
		for _, nc := range s.ByDepartment {
			fmt.Fprintf(&sb, "- %s: %d\n", nc.Name, nc.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderAttendanceStats(s *hr.AttendanceStats) string {
	var sb strings.Builder
	sb.WriteString("=== Statistik Kehadiran ===\n")
	fmt.Fprintf(&sb, "Catatan kehadiran hari ini: %d\n", s.Today)
	fmt.Fprintf(&sb, "Catatan kehadiran bulan ini: %d\n", s.ThisMonth)
	if len(s.ByStatus) > 0 {
		sb.WriteString("Per status bulan ini:\n")
		for _, nc := range s.ByStatus {
			fmt.Fprintf(&sb, "- %s: %d\n", nc.Name, nc.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderShiftStats(s *hr.ShiftStats) string {
	var sb strings.Builder
	sb.WriteString("=== Statistik Shift ===\n")
	fmt.Fprintf(&sb, "Alokasi shift hari ini: %d\n", s.AllocationsToday)
	if len(s.ByShift) > 0 {
		sb.WriteString("Per shift bulan ini:\n")
		for _, nc := range s.ByShift {
			fmt.Fprintf(&sb, "- %s: %d\n", nc.Name, nc.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
