package hr

import (
	"context"
	"fmt"
	"time"
)

// NameCount pairs a display name with a count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EmployeeStats holds live headcount aggregates.
type EmployeeStats struct {
	Total        int         `json:"total"`
	Active       int         `json:"active"`
	ByDepartment []NameCount `json:"by_department"`
}

// AttendanceStats holds live attendance aggregates.
type AttendanceStats struct {
	Today     int         `json:"today"`
	ThisMonth int         `json:"this_month"`
	ByStatus  []NameCount `json:"by_status"`
}

// ShiftStats holds live shift allocation aggregates.
type ShiftStats struct {
	AllocationsToday int         `json:"allocations_today"`
	ByShift          []NameCount `json:"by_shift"`
}

// EmployeeStatistics computes exact headcounts from the relational store.
// These are authoritative; the vector index is never consulted for counts.
func (s *Store) EmployeeStatistics(ctx context.Context, orgID string) (*EmployeeStats, error) {
	var stats EmployeeStats

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(active), 0) FROM employees WHERE org_id = ?`, orgID,
	).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return nil, fmt.Errorf("counting employees: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(d.name, 'Tanpa Departemen'), COUNT(*)
		 FROM employees e
		 LEFT JOIN departments d ON d.id = e.department_id
		 WHERE e.org_id = ?
		 GROUP BY d.name
		 ORDER BY COUNT(*) DESC, d.name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("grouping employees by department: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scanning department count: %w", err)
		}
		stats.ByDepartment = append(stats.ByDepartment, nc)
	}
	return &stats, rows.Err()
}

// AttendanceStatistics computes exact attendance aggregates for the month
// containing now.
func (s *Store) AttendanceStatistics(ctx context.Context, orgID string, now time.Time) (*AttendanceStats, error) {
	var stats AttendanceStats

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE org_id = ? AND date >= ? AND date < ?`,
		orgID, dayStart, dayEnd,
	).Scan(&stats.Today)
	if err != nil {
		return nil, fmt.Errorf("counting today's attendance: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE org_id = ? AND date >= ? AND date < ?`,
		orgID, monthStart, monthEnd,
	).Scan(&stats.ThisMonth)
	if err != nil {
		return nil, fmt.Errorf("counting this month's attendance: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*)
		 FROM attendance
		 WHERE org_id = ? AND date >= ? AND date < ?
		 GROUP BY status
		 ORDER BY COUNT(*) DESC, status`,
		orgID, monthStart, monthEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("grouping attendance by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus = append(stats.ByStatus, nc)
	}
	return &stats, rows.Err()
}

// ShiftStatistics computes exact shift allocation aggregates for the month
// containing now.
func (s *Store) ShiftStatistics(ctx context.Context, orgID string, now time.Time) (*ShiftStats, error) {
	var stats ShiftStats

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shift_allocations WHERE org_id = ? AND date >= ? AND date < ?`,
		orgID, dayStart, dayEnd,
	).Scan(&stats.AllocationsToday)
	if err != nil {
		return nil, fmt.Errorf("counting today's allocations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(sh.name, 'Tanpa Shift'), COUNT(*)
		 FROM shift_allocations sa
		 LEFT JOIN shifts sh ON sh.id = sa.shift_id
		 WHERE sa.org_id = ? AND sa.date >= ? AND sa.date < ?
		 GROUP BY sh.name
		 ORDER BY COUNT(*) DESC, sh.name`,
		orgID, monthStart, monthEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("grouping allocations by shift: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scanning shift count: %w", err)
		}
		stats.ByShift = append(stats.ByShift, nc)
	}
	return &stats, rows.Err()
}
