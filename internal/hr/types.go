package hr

import "time"

// Department groups employees for reporting purposes.
type Department struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

// Position is a job title.
type Position struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

// Shift is a recurring working-hours window.
type Shift struct {
	ID        string `json:"id"`
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AttendanceType labels a shift allocation: regular work, leave, sick,
// permission, holiday. RequiresPresence is false for absence-like types.
type AttendanceType struct {
	ID               string `json:"id"`
	OrgID            string `json:"org_id"`
	Name             string `json:"name"`
	RequiresPresence bool   `json:"requires_presence"`
}

// Employee is a personnel record.
type Employee struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id"`
	PositionID   string    `json:"position_id"`
	Salary       float64   `json:"salary"`
	HireDate     time.Time `json:"hire_date"`
	Active       bool      `json:"active"`
}

// EmployeeDetail is an Employee with joined display names.
type EmployeeDetail struct {
	Employee
	Department string `json:"department"`
	Position   string `json:"position"`
}

// Attendance statuses.
const (
	StatusPresent    = "present"
	StatusLate       = "late"
	StatusAbsent     = "absent"
	StatusLeave      = "leave"
	StatusSick       = "sick"
	StatusPermission = "permission"
)

// Attendance is one clock-in/out record for an employee on a date.
type Attendance struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"org_id"`
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Notes      string    `json:"notes"`
}

// AttendanceDetail is an Attendance with joined display names.
type AttendanceDetail struct {
	Attendance
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
}

// ShiftAllocation assigns an employee to a shift (or an absence type) on a date.
type ShiftAllocation struct {
	ID               string    `json:"id"`
	OrgID            string    `json:"org_id"`
	EmployeeID       string    `json:"employee_id"`
	ShiftID          string    `json:"shift_id"`
	AttendanceTypeID string    `json:"attendance_type_id"`
	Date             time.Time `json:"date"`
	Notes            string    `json:"notes"`
}

// ShiftAllocationDetail is a ShiftAllocation with joined display fields.
type ShiftAllocationDetail struct {
	ShiftAllocation
	EmployeeName       string `json:"employee_name"`
	Department         string `json:"department"`
	ShiftName          string `json:"shift_name"`
	ShiftStart         string `json:"shift_start"`
	ShiftEnd           string `json:"shift_end"`
	AttendanceTypeName string `json:"attendance_type_name"`
	RequiresPresence   bool   `json:"requires_presence"`
}
