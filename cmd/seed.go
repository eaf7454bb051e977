package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hrchat/internal/hr"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample HR data",
	Long:  `Inserts a small demo organization: departments, positions, shifts, employees and a week of attendance. Run reindex afterwards to embed it.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("org", "default", "organization to seed")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	org, _ := cmd.Flags().GetString("org")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder := createEmbedder(cfg)
	database, _, err := openStores(cfg, embedder)
	if err != nil {
		return err
	}
	defer database.Close()

	hrStore := hr.NewStore(database)

	it, err := hrStore.CreateDepartment(ctx, org, "IT")
	if err != nil {
		return fmt.Errorf("seeding departments: %w", err)
	}
	finance, err := hrStore.CreateDepartment(ctx, org, "Keuangan")
	if err != nil {
		return fmt.Errorf("seeding departments: %w", err)
	}

	engineerPos, err := hrStore.CreatePosition(ctx, org, "Software Engineer")
	if err != nil {
		return fmt.Errorf("seeding positions: %w", err)
	}
	analystPos, err := hrStore.CreatePosition(ctx, org, "Analis Keuangan")
	if err != nil {
		return fmt.Errorf("seeding positions: %w", err)
	}

	morning, err := hrStore.CreateShift(ctx, org, "Shift Pagi", "08:00", "16:00")
	if err != nil {
		return fmt.Errorf("seeding shifts: %w", err)
	}
	if _, err := hrStore.CreateShift(ctx, org, "Shift Malam", "22:00", "06:00"); err != nil {
		return fmt.Errorf("seeding shifts: %w", err)
	}

	regular, err := hrStore.CreateAttendanceType(ctx, org, "Reguler", true)
	if err != nil {
		return fmt.Errorf("seeding attendance types: %w", err)
	}
	leave, err := hrStore.CreateAttendanceType(ctx, org, "Cuti Tahunan", false)
	if err != nil {
		return fmt.Errorf("seeding attendance types: %w", err)
	}

	employees := []hr.Employee{
		{OrgID: org, Name: "Budi Santoso", Email: "budi@example.com", DepartmentID: it.ID, PositionID: engineerPos.ID, Salary: 12000000, HireDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), Active: true},
		{OrgID: org, Name: "Siti Rahayu", Email: "siti@example.com", DepartmentID: it.ID, PositionID: engineerPos.ID, Salary: 11000000, HireDate: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), Active: true},
		{OrgID: org, Name: "Agus Wijaya", Email: "agus@example.com", DepartmentID: finance.ID, PositionID: analystPos.ID, Salary: 9500000, HireDate: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC), Active: true},
	}

	var created []*hr.Employee
	for _, e := range employees {
		emp, err := hrStore.CreateEmployee(ctx, e)
		if err != nil {
			return fmt.Errorf("seeding employee %s: %w", e.Name, err)
		}
		created = append(created, emp)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	statuses := []string{hr.StatusPresent, hr.StatusLate, hr.StatusLeave}
	for day := 0; day < 7; day++ {
		date := today.AddDate(0, 0, -day)
		for i, emp := range created {
			status := statuses[(day+i)%len(statuses)]
			a := hr.Attendance{
				OrgID:      org,
				EmployeeID: emp.ID,
				Date:       date,
				Status:     status,
				CheckIn:    "08:02",
				CheckOut:   "16:05",
			}
			if status == hr.StatusLeave {
				a.CheckIn, a.CheckOut = "", ""
			}
			if _, err := hrStore.CreateAttendance(ctx, a); err != nil {
				return fmt.Errorf("seeding attendance: %w", err)
			}

			attendanceType := regular.ID
			if status == hr.StatusLeave {
				attendanceType = leave.ID
			}
			alloc := hr.ShiftAllocation{
				OrgID:            org,
				EmployeeID:       emp.ID,
				ShiftID:          morning.ID,
				AttendanceTypeID: attendanceType,
				Date:             date,
			}
			if _, err := hrStore.CreateShiftAllocation(ctx, alloc); err != nil {
				return fmt.Errorf("seeding shift allocations: %w", err)
			}
		}
	}

	fmt.Printf("Seeded org %q: %d employees, 7 days of attendance and shifts\n", org, len(created))
	fmt.Println("Run `hrchat reindex` to embed the new records.")
	return nil
}
