package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input carries employee fields supplied by the caller.
type Input struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Designation string  `json:"designation" validate:"max=80"`
	BasicSalary float64 `json:"basicSalary" validate:"required,gt=0"`
	HRAPercent  float64 `json:"hraPercent" validate:"gte=0,lte=100"`
	DAPercent   float64 `json:"daPercent" validate:"gte=0,lte=100"`
	Conveyance  float64 `json:"conveyance" validate:"gte=0"`
	Medical     float64 `json:"medical" validate:"gte=0"`
	Special     float64 `json:"special" validate:"gte=0"`
	TDS         float64 `json:"tds" validate:"gte=0"`
	Loan        float64 `json:"loanDeduction" validate:"gte=0"`
	Advance     float64 `json:"advance" validate:"gte=0"`
}

// RunInput identifies a payroll month.
type RunInput struct {
	Month       int `json:"month" validate:"required,min=1,max=12"`
	Year        int `json:"year" validate:"required,min=2000,max=2100"`
	WorkingDays int `json:"workingDays" validate:"required,min=1,max=31"`
}

// SlipInput identifies one employee's slip with attendance.
type SlipInput struct {
	RunInput
	PresentDays int `json:"presentDays" validate:"required,min=0,max=31"`
}

// Service wraps employee persistence and slip computation.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListEmployees returns a client's employees sorted by name.
func (s *Service) ListEmployees(ctx context.Context, clientID uuid.UUID) ([]Employee, error) {
	return s.repo.List(ctx, clientID)
}

// SaveEmployee creates or updates an employee.
func (s *Service) SaveEmployee(ctx context.Context, clientID uuid.UUID, id *uuid.UUID, in Input) (Employee, error) {
	emp := Employee{ClientID: clientID}
	if id != nil {
		existing, err := s.repo.Get(ctx, clientID, *id)
		if err != nil {
			return Employee{}, err
		}
		emp = existing
	} else {
		emp.ID = uuid.New()
		emp.CreatedAt = time.Now().UTC()
	}

	emp.Name = strings.TrimSpace(in.Name)
	emp.Designation = strings.TrimSpace(in.Designation)
	emp.BasicSalary = in.BasicSalary
	emp.HRAPercent = in.HRAPercent
	emp.DAPercent = in.DAPercent
	emp.Conveyance = in.Conveyance
	emp.Medical = in.Medical
	emp.Special = in.Special
	emp.TDS = in.TDS
	emp.Loan = in.Loan
	emp.Advance = in.Advance

	return s.repo.Save(ctx, emp)
}

// DeleteEmployee removes an employee from the client's payroll.
func (s *Service) DeleteEmployee(ctx context.Context, clientID, id uuid.UUID) error {
	return s.repo.Delete(ctx, clientID, id)
}

// Slip computes one employee's slip for a month with explicit attendance.
func (s *Service) Slip(ctx context.Context, clientID, employeeID uuid.UUID, in SlipInput) (Slip, error) {
	emp, err := s.repo.Get(ctx, clientID, employeeID)
	if err != nil {
		return Slip{}, err
	}
	if in.PresentDays > in.WorkingDays {
		return Slip{}, fmt.Errorf("present days %d exceed working days %d", in.PresentDays, in.WorkingDays)
	}
	return ComputeSlip(emp, in.Month, in.Year, in.WorkingDays, in.PresentDays), nil
}

// RunMonth computes the payroll summary for a month across all employees.
func (s *Service) RunMonth(ctx context.Context, clientID uuid.UUID, in RunInput) (Summary, error) {
	employees, err := s.repo.List(ctx, clientID)
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(employees, in.Month, in.Year, in.WorkingDays), nil
}
