// Package payroll computes monthly salary slips for a client's employees
// following common Indian statutory deduction rules: Provident Fund on basic
// plus dearness allowance, ESI below the wage ceiling, and slab-based
// professional tax.
package payroll

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Statutory rates and thresholds. ESI applies only up to the wage ceiling;
// the employer contributes at a higher rate than the employee.
const (
	PFRatePercent        = 12
	ESIEmployeePercent   = 0.75
	ESIEmployerPercent   = 3.25
	ESIWageCeiling       = 21000
	PTUpperSlabThreshold = 15000
	PTLowerSlabThreshold = 10000
	PTUpperSlabAmount    = 200
	PTLowerSlabAmount    = 150
	DefaultHRAPercent    = 40
	DefaultDAPercent     = 10
)

// Employee is a salaried worker on a client's payroll.
type Employee struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"clientId"`
	Name        string    `json:"name"`
	Designation string    `json:"designation,omitempty"`
	BasicSalary float64   `json:"basicSalary"`
	HRAPercent  float64   `json:"hraPercent"`
	DAPercent   float64   `json:"daPercent"`
	Conveyance  float64   `json:"conveyance"`
	Medical     float64   `json:"medical"`
	Special     float64   `json:"special"`
	TDS         float64   `json:"tds"`
	Loan        float64   `json:"loanDeduction"`
	Advance     float64   `json:"advance"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Earnings breaks down the gross pay of one slip.
type Earnings struct {
	Basic      float64 `json:"basic"`
	HRA        float64 `json:"hra"`
	DA         float64 `json:"da"`
	Conveyance float64 `json:"conveyance"`
	Medical    float64 `json:"medical"`
	Special    float64 `json:"special"`
	Total      float64 `json:"total"`
}

// Deductions breaks down what is withheld from one slip.
type Deductions struct {
	PF      float64 `json:"pf"`
	ESI     float64 `json:"esi"`
	PT      float64 `json:"pt"`
	TDS     float64 `json:"tds"`
	Loan    float64 `json:"loan"`
	Advance float64 `json:"advance"`
	Total   float64 `json:"total"`
}

// Slip is one employee's computed salary for a month.
type Slip struct {
	EmployeeID   uuid.UUID  `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	WorkingDays  int        `json:"workingDays"`
	PresentDays  int        `json:"presentDays"`
	Earnings     Earnings   `json:"earnings"`
	Deductions   Deductions `json:"deductions"`
	NetSalary    float64    `json:"netSalary"`
	EmployerPF   float64    `json:"employerPF"`
	EmployerESI  float64    `json:"employerESI"`
}

// SummaryTotals aggregates the month across all employees. PF and ESI totals
// include the employer share since both sides are remitted together.
type SummaryTotals struct {
	GrossEarnings   float64 `json:"grossEarnings"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetSalary       float64 `json:"netSalary"`
	TotalPF         float64 `json:"totalPF"`
	TotalESI        float64 `json:"totalESI"`
}

// Summary is the payroll run for one month.
type Summary struct {
	Month         int           `json:"month"`
	Year          int           `json:"year"`
	WorkingDays   int           `json:"workingDays"`
	EmployeeCount int           `json:"employeeCount"`
	Payroll       []Slip        `json:"payroll"`
	Totals        SummaryTotals `json:"totals"`
}

// ComputeSlip calculates one employee's slip for a month. Basic pay is
// pro-rated by attendance; HRA and DA are percentages of the pro-rated basic.
func ComputeSlip(emp Employee, month, year, workingDays, presentDays int) Slip {
	hraPercent := emp.HRAPercent
	if hraPercent == 0 {
		hraPercent = DefaultHRAPercent
	}
	daPercent := emp.DAPercent
	if daPercent == 0 {
		daPercent = DefaultDAPercent
	}

	basic := emp.BasicSalary * float64(presentDays) / float64(workingDays)
	hra := basic * hraPercent / 100
	da := basic * daPercent / 100

	gross := basic + hra + da + emp.Conveyance + emp.Medical + emp.Special

	pf := (basic + da) * PFRatePercent / 100
	var esi, employerESI float64
	if gross <= ESIWageCeiling {
		esi = gross * ESIEmployeePercent / 100
		employerESI = math.Round(gross * ESIEmployerPercent / 100)
	}
	var pt float64
	switch {
	case gross > PTUpperSlabThreshold:
		pt = PTUpperSlabAmount
	case gross > PTLowerSlabThreshold:
		pt = PTLowerSlabAmount
	}

	totalDeductions := pf + esi + pt + emp.TDS + emp.Loan + emp.Advance

	return Slip{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Month:        month,
		Year:         year,
		WorkingDays:  workingDays,
		PresentDays:  presentDays,
		Earnings: Earnings{
			Basic:      math.Round(basic),
			HRA:        math.Round(hra),
			DA:         math.Round(da),
			Conveyance: emp.Conveyance,
			Medical:    emp.Medical,
			Special:    emp.Special,
			Total:      math.Round(gross),
		},
		Deductions: Deductions{
			PF:      math.Round(pf),
			ESI:     math.Round(esi),
			PT:      pt,
			TDS:     emp.TDS,
			Loan:    emp.Loan,
			Advance: emp.Advance,
			Total:   math.Round(totalDeductions),
		},
		NetSalary:   math.Round(gross - totalDeductions),
		EmployerPF:  math.Round(pf),
		EmployerESI: employerESI,
	}
}

// BuildSummary runs the month for every employee at full attendance and
// aggregates the totals.
func BuildSummary(employees []Employee, month, year, workingDays int) Summary {
	summary := Summary{
		Month:         month,
		Year:          year,
		WorkingDays:   workingDays,
		EmployeeCount: len(employees),
	}
	for _, emp := range employees {
		slip := ComputeSlip(emp, month, year, workingDays, workingDays)
		summary.Payroll = append(summary.Payroll, slip)
		summary.Totals.GrossEarnings += slip.Earnings.Total
		summary.Totals.TotalDeductions += slip.Deductions.Total
		summary.Totals.NetSalary += slip.NetSalary
		summary.Totals.TotalPF += slip.Deductions.PF + slip.EmployerPF
		summary.Totals.TotalESI += slip.Deductions.ESI + slip.EmployerESI
	}
	return summary
}
