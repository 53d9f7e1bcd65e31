package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nominadocs/payslip-server/internal/model"
)

var _ model.EmployeeStore = (*EmployeeRepository)(nil)
var _ model.TxRunner = (*EmployeeRepository)(nil)

type EmployeeRepository struct {
	db *Connection
}

func NewEmployeeRepository(db *Connection) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
	}
}

const employeeColumns = `id, cedula, first_name, last_name, email, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (model.Employee, error) {
	var e model.Employee
	err := row.Scan(
		&e.ID, &e.Cedula, &e.FirstName, &e.LastName, &e.Email, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *EmployeeRepository) GetByCedula(ctx context.Context, cedula string) (model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE cedula = $1`

	e, err := scanEmployee(r.db.QueryRow(ctx, query, cedula))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Employee{}, model.ErrNotFound
		}
		return model.Employee{}, fmt.Errorf("failed to get employee by cedula: %w", err)
	}

	return e, nil
}

func (r *EmployeeRepository) GetActiveByCedula(ctx context.Context, cedula string) (model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE cedula = $1 AND is_active ORDER BY id LIMIT 1`

	e, err := scanEmployee(r.db.QueryRow(ctx, query, cedula))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Employee{}, model.ErrInactiveEmployee
		}
		return model.Employee{}, fmt.Errorf("failed to get active employee by cedula: %w", err)
	}

	return e, nil
}

// GetByCedulas fetches all employees matching the given cedulas in one
// read. Cedulas without a matching row are simply absent from the result.
func (r *EmployeeRepository) GetByCedulas(ctx context.Context, cedulas []string) ([]model.Employee, error) {
	if len(cedulas) == 0 {
		return nil, nil
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE cedula = ANY($1)`

	rows, err := r.db.Query(ctx, query, cedulas)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by cedulas: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}

// WithTx runs fn against a transaction-scoped employee store. The
// transaction is rolled back when fn returns an error and committed
// otherwise; the pool's default read-committed isolation applies.
func (r *EmployeeRepository) WithTx(ctx context.Context, fn func(tx model.EmployeeTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&employeeTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ model.EmployeeTx = (*employeeTx)(nil)

// employeeTx is the transaction-bound write half of the repository.
type employeeTx struct {
	tx pgx.Tx
}

func (t *employeeTx) GetByCedula(ctx context.Context, cedula string) (model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE cedula = $1`

	e, err := scanEmployee(t.tx.QueryRow(ctx, query, cedula))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Employee{}, model.ErrNotFound
		}
		return model.Employee{}, fmt.Errorf("failed to get employee by cedula: %w", err)
	}

	return e, nil
}

func (t *employeeTx) Insert(ctx context.Context, emp model.Employee) error {
	query := `INSERT INTO employees (cedula, first_name, last_name, email, is_active)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := t.tx.Exec(ctx, query, emp.Cedula, emp.FirstName, emp.LastName, emp.Email, emp.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// UpdateFields applies COALESCE-on-null updates and reactivates the
// employee: a nil field never overwrites a stored value.
func (t *employeeTx) UpdateFields(ctx context.Context, id int64, firstName, lastName, email *string) error {
	query := `UPDATE employees
			  SET first_name = COALESCE($2, first_name),
			      last_name  = COALESCE($3, last_name),
			      email      = COALESCE($4, email),
			      is_active  = TRUE,
			      updated_at = NOW()
			  WHERE id = $1`

	cmd, err := t.tx.Exec(ctx, query, id, firstName, lastName, email)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (t *employeeTx) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	cmd, err := t.tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
