package model

import (
	"context"
	"time"
)

// EmployeeStore defines read operations on the employee directory.
type EmployeeStore interface {
	GetByCedula(ctx context.Context, cedula string) (Employee, error)
	GetActiveByCedula(ctx context.Context, cedula string) (Employee, error)
	GetByCedulas(ctx context.Context, cedulas []string) ([]Employee, error)
}

// EmployeeTx defines employee writes bound to a single transaction.
// All writes issued through one EmployeeTx commit or roll back together.
type EmployeeTx interface {
	GetByCedula(ctx context.Context, cedula string) (Employee, error)
	Insert(ctx context.Context, emp Employee) error
	UpdateFields(ctx context.Context, id int64, firstName, lastName, email *string) error
	Deactivate(ctx context.Context, id int64) error
}

// TxRunner runs fn inside one transaction. A non-nil error from fn rolls
// everything back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx EmployeeTx) error) error
}

// Employee is the durable directory record, keyed internally by ID and
// externally by cedula. Employees are soft-deactivated, never deleted.
type Employee struct {
	ID        int64
	Cedula    string
	FirstName *string
	LastName  *string
	Email     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
