package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	_ "github.com/mahesh-atx/capro/testing"
)

func TestComputeSlipFullAttendance(t *testing.T) {
	emp := Employee{
		ID: uuid.New(), Name: "Rahul Kumar",
		BasicSalary: 35000, HRAPercent: 40, DAPercent: 10,
		Conveyance: 1600, Medical: 1250, Special: 5000, TDS: 2000,
	}
	slip := ComputeSlip(emp, 12, 2024, 26, 26)

	if slip.Earnings.Basic != 35000 {
		t.Errorf("Basic = %v, want 35000", slip.Earnings.Basic)
	}
	if slip.Earnings.HRA != 14000 {
		t.Errorf("HRA = %v, want 14000", slip.Earnings.HRA)
	}
	if slip.Earnings.DA != 3500 {
		t.Errorf("DA = %v, want 3500", slip.Earnings.DA)
	}
	// Gross 35000+14000+3500+1600+1250+5000 = 60350.
	if slip.Earnings.Total != 60350 {
		t.Errorf("gross = %v, want 60350", slip.Earnings.Total)
	}
	// PF = 12% of basic+DA = 12% of 38500.
	if slip.Deductions.PF != 4620 {
		t.Errorf("PF = %v, want 4620", slip.Deductions.PF)
	}
	// Gross is over the ESI ceiling.
	if slip.Deductions.ESI != 0 || slip.EmployerESI != 0 {
		t.Errorf("ESI must not apply above the ceiling: %v / %v", slip.Deductions.ESI, slip.EmployerESI)
	}
	if slip.Deductions.PT != PTUpperSlabAmount {
		t.Errorf("PT = %v, want %v", slip.Deductions.PT, PTUpperSlabAmount)
	}
	// Deductions 4620+0+200+2000 = 6820; net 60350-6820 = 53530.
	if slip.NetSalary != 53530 {
		t.Errorf("net = %v, want 53530", slip.NetSalary)
	}
	if slip.EmployerPF != slip.Deductions.PF {
		t.Errorf("employer PF must match the employee share")
	}
}

func TestComputeSlipESIBelowCeiling(t *testing.T) {
	emp := Employee{ID: uuid.New(), Name: "Amit Verma", BasicSalary: 12000, HRAPercent: 40, DAPercent: 10}
	slip := ComputeSlip(emp, 12, 2024, 26, 26)

	// Gross = 12000 + 4800 + 1200 = 18000, under the 21000 ceiling.
	if slip.Earnings.Total != 18000 {
		t.Fatalf("gross = %v, want 18000", slip.Earnings.Total)
	}
	if slip.Deductions.ESI != 135 {
		t.Errorf("employee ESI = %v, want 135", slip.Deductions.ESI)
	}
	if slip.EmployerESI != 585 {
		t.Errorf("employer ESI = %v, want 585", slip.EmployerESI)
	}
	// 18000 sits in the upper PT slab.
	if slip.Deductions.PT != PTUpperSlabAmount {
		t.Errorf("PT = %v, want %v", slip.Deductions.PT, PTUpperSlabAmount)
	}
}

func TestComputeSlipProfessionalTaxSlabs(t *testing.T) {
	cases := []struct {
		basic float64
		want  float64
	}{
		{6000, 0},                  // gross 9000, below both thresholds
		{8000, PTLowerSlabAmount},  // gross 12000
		{9000, PTLowerSlabAmount},  // gross 13500
		{30000, PTUpperSlabAmount}, // gross 45000
	}
	for _, tc := range cases {
		emp := Employee{ID: uuid.New(), BasicSalary: tc.basic, HRAPercent: 40, DAPercent: 10}
		slip := ComputeSlip(emp, 12, 2024, 26, 26)
		if slip.Deductions.PT != tc.want {
			t.Errorf("basic %v: PT = %v, want %v (gross %v)",
				tc.basic, slip.Deductions.PT, tc.want, slip.Earnings.Total)
		}
	}
}

func TestComputeSlipProRatesByAttendance(t *testing.T) {
	emp := Employee{ID: uuid.New(), BasicSalary: 26000, HRAPercent: 40, DAPercent: 10}
	slip := ComputeSlip(emp, 12, 2024, 26, 13)

	if slip.Earnings.Basic != 13000 {
		t.Errorf("half attendance basic = %v, want 13000", slip.Earnings.Basic)
	}
	if slip.Earnings.HRA != 5200 {
		t.Errorf("HRA follows pro-rated basic: %v, want 5200", slip.Earnings.HRA)
	}
	// Fixed allowances do not pro-rate.
	emp.Conveyance = 1600
	slip = ComputeSlip(emp, 12, 2024, 26, 13)
	if slip.Earnings.Conveyance != 1600 {
		t.Errorf("conveyance = %v, want 1600", slip.Earnings.Conveyance)
	}
}

func TestComputeSlipDefaultsPercentages(t *testing.T) {
	emp := Employee{ID: uuid.New(), BasicSalary: 10000}
	slip := ComputeSlip(emp, 12, 2024, 26, 26)
	if slip.Earnings.HRA != 4000 {
		t.Errorf("default HRA 40%%: got %v", slip.Earnings.HRA)
	}
	if slip.Earnings.DA != 1000 {
		t.Errorf("default DA 10%%: got %v", slip.Earnings.DA)
	}
}

func TestBuildSummaryTotals(t *testing.T) {
	employees := []Employee{
		{ID: uuid.New(), Name: "A", BasicSalary: 12000, HRAPercent: 40, DAPercent: 10},
		{ID: uuid.New(), Name: "B", BasicSalary: 35000, HRAPercent: 40, DAPercent: 10},
	}
	summary := BuildSummary(employees, 12, 2024, 26)

	if summary.EmployeeCount != 2 || len(summary.Payroll) != 2 {
		t.Fatalf("expected 2 slips, got %+v", summary)
	}
	var gross, net float64
	for _, slip := range summary.Payroll {
		gross += slip.Earnings.Total
		net += slip.NetSalary
	}
	if summary.Totals.GrossEarnings != gross || summary.Totals.NetSalary != net {
		t.Fatalf("totals do not match slips: %+v", summary.Totals)
	}
	// PF totals include the employer share.
	wantPF := 2 * (summary.Payroll[0].Deductions.PF + summary.Payroll[1].Deductions.PF)
	if summary.Totals.TotalPF != wantPF {
		t.Fatalf("TotalPF = %v, want %v", summary.Totals.TotalPF, wantPF)
	}
}

// memEmployees is an in-memory Store for service tests.
type memEmployees struct {
	employees map[uuid.UUID]Employee
}

func (m *memEmployees) List(_ context.Context, clientID uuid.UUID) ([]Employee, error) {
	var out []Employee
	for _, e := range m.employees {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEmployees) Get(_ context.Context, clientID, id uuid.UUID) (Employee, error) {
	e, ok := m.employees[id]
	if !ok || e.ClientID != clientID {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

func (m *memEmployees) Save(_ context.Context, e Employee) (Employee, error) {
	m.employees[e.ID] = e
	return e, nil
}

func (m *memEmployees) Delete(_ context.Context, clientID, id uuid.UUID) error {
	e, ok := m.employees[id]
	if !ok || e.ClientID != clientID {
		return ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func TestServiceSlipRejectsExcessAttendance(t *testing.T) {
	store := &memEmployees{employees: map[uuid.UUID]Employee{}}
	svc := NewService(store)
	clientID := uuid.New()

	emp, err := svc.SaveEmployee(context.Background(), clientID, nil, Input{
		Name: "Rahul Kumar", BasicSalary: 35000,
	})
	if err != nil {
		t.Fatalf("save employee: %v", err)
	}

	_, err = svc.Slip(context.Background(), clientID, emp.ID, SlipInput{
		RunInput:    RunInput{Month: 12, Year: 2024, WorkingDays: 26},
		PresentDays: 30,
	})
	if err == nil {
		t.Fatal("present days over working days must be rejected")
	}
}

func TestServiceEmployeeScopedToClient(t *testing.T) {
	store := &memEmployees{employees: map[uuid.UUID]Employee{}}
	svc := NewService(store)
	clientID := uuid.New()

	emp, err := svc.SaveEmployee(context.Background(), clientID, nil, Input{Name: "Priya Sharma", BasicSalary: 28000})
	if err != nil {
		t.Fatalf("save employee: %v", err)
	}
	if _, err := svc.Slip(context.Background(), uuid.New(), emp.ID, SlipInput{
		RunInput:    RunInput{Month: 12, Year: 2024, WorkingDays: 26},
		PresentDays: 26,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign client: got %v, want ErrNotFound", err)
	}
}
