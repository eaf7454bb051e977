package hr

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hrchat/internal/db"
	"hrchat/internal/vectordb"
)

// ChangeFunc is notified after an entity mutation commits, so the semantic
// index can be refreshed without blocking the write path.
type ChangeFunc func(orgID string, t vectordb.DocumentType, entityID string, deleted bool)

// Store provides org-scoped access to the relational HR data.
type Store struct {
	db *db.DB

	// OnChange, when set, is invoked after every indexed-entity mutation.
	// It must not block.
	OnChange ChangeFunc
}

// NewStore creates a new HR store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) notify(orgID string, t vectordb.DocumentType, entityID string, deleted bool) {
	if s.OnChange != nil {
		s.OnChange(orgID, t, entityID, deleted)
	}
}

// --- Reference data ---

// CreateDepartment inserts a department.
func (s *Store) CreateDepartment(ctx context.Context, orgID, name string) (*Department, error) {
	d := Department{ID: uuid.New().String(), OrgID: orgID, Name: name}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO departments (id, org_id, name) VALUES (?, ?, ?)`,
		d.ID, d.OrgID, d.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting department: %w", err)
	}
	return &d, nil
}

// CreatePosition inserts a position.
func (s *Store) CreatePosition(ctx context.Context, orgID, name string) (*Position, error) {
	p := Position{ID: uuid.New().String(), OrgID: orgID, Name: name}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO positions (id, org_id, name) VALUES (?, ?, ?)`,
		p.ID, p.OrgID, p.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting position: %w", err)
	}
	return &p, nil
}

// CreateShift inserts a shift.
func (s *Store) CreateShift(ctx context.Context, orgID, name, startTime, endTime string) (*Shift, error) {
	sh := Shift{ID: uuid.New().String(), OrgID: orgID, Name: name, StartTime: startTime, EndTime: endTime}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (id, org_id, name, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		sh.ID, sh.OrgID, sh.Name, sh.StartTime, sh.EndTime,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting shift: %w", err)
	}
	return &sh, nil
}

// CreateAttendanceType inserts an attendance type.
func (s *Store) CreateAttendanceType(ctx context.Context, orgID, name string, requiresPresence bool) (*AttendanceType, error) {
	at := AttendanceType{ID: uuid.New().String(), OrgID: orgID, Name: name, RequiresPresence: requiresPresence}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance_types (id, org_id, name, requires_presence) VALUES (?, ?, ?, ?)`,
		at.ID, at.OrgID, at.Name, at.RequiresPresence,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting attendance type: %w", err)
	}
	return &at, nil
}

// --- Employees ---

// CreateEmployee inserts an employee and triggers index refresh.
func (s *Store) CreateEmployee(ctx context.Context, e Employee) (*Employee, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.HireDate.IsZero() {
		e.HireDate = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, org_id, name, email, department_id, position_id, salary, hire_date, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrgID, e.Name, e.Email, nullStr(e.DepartmentID), nullStr(e.PositionID), e.Salary, e.HireDate, e.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting employee: %w", err)
	}
	s.notify(e.OrgID, vectordb.TypeEmployee, e.ID, false)
	return &e, nil
}

// UpdateEmployee overwrites an employee record and triggers index refresh.
func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE employees SET name = ?, email = ?, department_id = ?, position_id = ?, salary = ?, hire_date = ?, active = ?
		 WHERE id = ? AND org_id = ?`,
		e.Name, e.Email, nullStr(e.DepartmentID), nullStr(e.PositionID), e.Salary, e.HireDate, e.Active, e.ID, e.OrgID,
	)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("employee not found: %s", e.ID)
	}
	s.notify(e.OrgID, vectordb.TypeEmployee, e.ID, false)
	return nil
}

// DeleteEmployee removes an employee and triggers index removal.
func (s *Store) DeleteEmployee(ctx context.Context, orgID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM employees WHERE id = ? AND org_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("employee not found: %s", id)
	}
	s.notify(orgID, vectordb.TypeEmployee, id, true)
	return nil
}

// GetEmployeeDetail loads an employee with joined department and position names.
func (s *Store) GetEmployeeDetail(ctx context.Context, orgID, id string) (*EmployeeDetail, error) {
	var d EmployeeDetail
	var deptID, posID, dept, pos sql.NullString
	var hireDate sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT e.id, e.org_id, e.name, e.email, e.department_id, e.position_id, e.salary, e.hire_date, e.active,
		        d.name, p.name
		 FROM employees e
		 LEFT JOIN departments d ON d.id = e.department_id
		 LEFT JOIN positions p ON p.id = e.position_id
		 WHERE e.id = ? AND e.org_id = ?`, id, orgID,
	).Scan(&d.ID, &d.OrgID, &d.Name, &d.Email, &deptID, &posID, &d.Salary, &hireDate, &d.Active, &dept, &pos)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	d.DepartmentID = deptID.String
	d.PositionID = posID.String
	d.Department = dept.String
	d.Position = pos.String
	if hireDate.Valid {
		d.HireDate = hireDate.Time
	}
	return &d, nil
}

// ListEmployeeIDs returns all employee ids for an organization.
func (s *Store) ListEmployeeIDs(ctx context.Context, orgID string) ([]string, error) {
	return s.listIDs(ctx, `SELECT id FROM employees WHERE org_id = ? ORDER BY id`, orgID)
}

// --- Attendance ---

// CreateAttendance inserts an attendance record and triggers index refresh.
func (s *Store) CreateAttendance(ctx context.Context, a Attendance) (*Attendance, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, org_id, employee_id, date, status, check_in, check_out, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OrgID, a.EmployeeID, a.Date, a.Status, a.CheckIn, a.CheckOut, a.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting attendance: %w", err)
	}
	s.notify(a.OrgID, vectordb.TypeAttendance, a.ID, false)
	return &a, nil
}

// DeleteAttendance removes an attendance record and triggers index removal.
func (s *Store) DeleteAttendance(ctx context.Context, orgID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM attendance WHERE id = ? AND org_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting attendance: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("attendance not found: %s", id)
	}
	s.notify(orgID, vectordb.TypeAttendance, id, true)
	return nil
}

// GetAttendanceDetail loads an attendance record with joined employee fields.
func (s *Store) GetAttendanceDetail(ctx context.Context, orgID, id string) (*AttendanceDetail, error) {
	var d AttendanceDetail
	var dept sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.org_id, a.employee_id, a.date, a.status, a.check_in, a.check_out, a.notes,
		        e.name, dep.name
		 FROM attendance a
		 JOIN employees e ON e.id = a.employee_id
		 LEFT JOIN departments dep ON dep.id = e.department_id
		 WHERE a.id = ? AND a.org_id = ?`, id, orgID,
	).Scan(&d.ID, &d.OrgID, &d.EmployeeID, &d.Date, &d.Status, &d.CheckIn, &d.CheckOut, &d.Notes,
		&d.EmployeeName, &dept)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting attendance: %w", err)
	}
	d.Department = dept.String
	return &d, nil
}

// ListAttendanceIDs returns attendance ids, optionally bounded by date.
func (s *Store) ListAttendanceIDs(ctx context.Context, orgID string, start, end *time.Time) ([]string, error) {
	query := `SELECT id FROM attendance WHERE org_id = ?`
	args := []interface{}{orgID}
	if start != nil {
		query += ` AND date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		query += ` AND date < ?`
		args = append(args, *end)
	}
	query += ` ORDER BY date, id`
	return s.listIDs(ctx, query, args...)
}

// --- Shift allocations ---

// CreateShiftAllocation inserts a shift allocation and triggers index refresh.
func (s *Store) CreateShiftAllocation(ctx context.Context, a ShiftAllocation) (*ShiftAllocation, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shift_allocations (id, org_id, employee_id, shift_id, attendance_type_id, date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OrgID, a.EmployeeID, nullStr(a.ShiftID), nullStr(a.AttendanceTypeID), a.Date, a.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting shift allocation: %w", err)
	}
	s.notify(a.OrgID, vectordb.TypeShift, a.ID, false)
	return &a, nil
}

// DeleteShiftAllocation removes a shift allocation and triggers index removal.
func (s *Store) DeleteShiftAllocation(ctx context.Context, orgID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM shift_allocations WHERE id = ? AND org_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting shift allocation: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("shift allocation not found: %s", id)
	}
	s.notify(orgID, vectordb.TypeShift, id, true)
	return nil
}

// GetShiftAllocationDetail loads a shift allocation with all joined display fields.
func (s *Store) GetShiftAllocationDetail(ctx context.Context, orgID, id string) (*ShiftAllocationDetail, error) {
	var d ShiftAllocationDetail
	var shiftID, typeID, dept, shiftName, shiftStart, shiftEnd, typeName sql.NullString
	var requiresPresence sql.NullBool

	err := s.db.QueryRowContext(ctx,
		`SELECT sa.id, sa.org_id, sa.employee_id, sa.shift_id, sa.attendance_type_id, sa.date, sa.notes,
		        e.name, dep.name, sh.name, sh.start_time, sh.end_time, at.name, at.requires_presence
		 FROM shift_allocations sa
		 JOIN employees e ON e.id = sa.employee_id
		 LEFT JOIN departments dep ON dep.id = e.department_id
		 LEFT JOIN shifts sh ON sh.id = sa.shift_id
		 LEFT JOIN attendance_types at ON at.id = sa.attendance_type_id
		 WHERE sa.id = ? AND sa.org_id = ?`, id, orgID,
	).Scan(&d.ID, &d.OrgID, &d.EmployeeID, &shiftID, &typeID, &d.Date, &d.Notes,
		&d.EmployeeName, &dept, &shiftName, &shiftStart, &shiftEnd, &typeName, &requiresPresence)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shift allocation: %w", err)
	}
	d.ShiftID = shiftID.String
	d.AttendanceTypeID = typeID.String
	d.Department = dept.String
	d.ShiftName = shiftName.String
	d.ShiftStart = shiftStart.String
	d.ShiftEnd = shiftEnd.String
	d.AttendanceTypeName = typeName.String
	d.RequiresPresence = !requiresPresence.Valid || requiresPresence.Bool
	return &d, nil
}

// ListShiftAllocationIDs returns shift allocation ids, optionally bounded by date.
func (s *Store) ListShiftAllocationIDs(ctx context.Context, orgID string, start, end *time.Time) ([]string, error) {
	query := `SELECT id FROM shift_allocations WHERE org_id = ?`
	args := []interface{}{orgID}
	if start != nil {
		query += ` AND date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		query += ` AND date < ?`
		args = append(args, *end)
	}
	query += ` ORDER BY date, id`
	return s.listIDs(ctx, query, args...)
}

// CountEntities returns the number of live entities behind a document type,
// used to compute index coverage.
func (s *Store) CountEntities(ctx context.Context, orgID string, t vectordb.DocumentType) (int, error) {
	var table string
	switch t {
	case vectordb.TypeEmployee:
		table = "employees"
	case vectordb.TypeAttendance:
		table = "attendance"
	case vectordb.TypeShift:
		table = "shift_allocations"
	default:
		return 0, fmt.Errorf("unknown document type %q", t)
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE org_id = ?`, orgID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return count, nil
}

func (s *Store) listIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
