package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an employee id has no row for the client.
var ErrNotFound = errors.New("employee not found")

// Repository persists employees.
type Repository interface {
	List(ctx context.Context, clientID uuid.UUID) ([]Employee, error)
	Get(ctx context.Context, clientID, id uuid.UUID) (Employee, error)
	Save(ctx context.Context, emp Employee) (Employee, error)
	Delete(ctx context.Context, clientID, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const employeeColumns = `id, client_id, name, designation, basic_salary, hra_percent, da_percent,
	conveyance, medical, special, tds, loan_deduction, advance, created_at`

func (r *repository) List(ctx context.Context, clientID uuid.UUID) ([]Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE client_id = $1 ORDER BY name`, clientID)
	if err != nil {
		return nil, fmt.Errorf("payroll: list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("payroll: scan employee: %w", err)
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, clientID, id uuid.UUID) (Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE client_id = $1 AND id = $2`, clientID, id)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("payroll: get employee: %w", err)
	}
	return emp, nil
}

func (r *repository) Save(ctx context.Context, emp Employee) (Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (id, client_id, name, designation, basic_salary, hra_percent, da_percent,
			conveyance, medical, special, tds, loan_deduction, advance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			designation = EXCLUDED.designation,
			basic_salary = EXCLUDED.basic_salary,
			hra_percent = EXCLUDED.hra_percent,
			da_percent = EXCLUDED.da_percent,
			conveyance = EXCLUDED.conveyance,
			medical = EXCLUDED.medical,
			special = EXCLUDED.special,
			tds = EXCLUDED.tds,
			loan_deduction = EXCLUDED.loan_deduction,
			advance = EXCLUDED.advance
		RETURNING `+employeeColumns,
		emp.ID, emp.ClientID, emp.Name, emp.Designation, emp.BasicSalary, emp.HRAPercent, emp.DAPercent,
		emp.Conveyance, emp.Medical, emp.Special, emp.TDS, emp.Loan, emp.Advance)
	saved, err := scanEmployee(row)
	if err != nil {
		return Employee{}, fmt.Errorf("payroll: save employee: %w", err)
	}
	return saved, nil
}

func (r *repository) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM employees WHERE client_id = $1 AND id = $2`, clientID, id)
	if err != nil {
		return fmt.Errorf("payroll: delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.ClientID, &emp.Name, &emp.Designation, &emp.BasicSalary,
		&emp.HRAPercent, &emp.DAPercent, &emp.Conveyance, &emp.Medical, &emp.Special,
		&emp.TDS, &emp.Loan, &emp.Advance, &emp.CreatedAt)
	return emp, err
}
