package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/nominadocs/payslip-server/internal/logger"
	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/roster"
)

// Committer applies roster rows to the employee directory inside a single
// transaction. Rows are re-classified against the directory as it stands at
// transaction start, so the applied actions match what a fresh dry-run
// would have reported.
type Committer struct {
	tx     model.TxRunner
	logger *logger.Logger
}

// NewCommitter creates a Committer on top of a transaction runner.
func NewCommitter(tx model.TxRunner, logger *logger.Logger) *Committer {
	return &Committer{
		tx:     tx,
		logger: logger,
	}
}

// Commit applies the whole batch atomically and returns the report of
// actions actually taken. Any failed write rolls back every row and the
// error is returned wrapped in a *model.CommitError. Committing the same
// roster twice is safe: the second run classifies every applied row as
// NONE and writes nothing.
func (c *Committer) Commit(ctx context.Context, rows []model.RosterRow) (model.ImportReport, error) {
	report := model.ImportReport{
		Total:   len(rows),
		Invalid: []model.InvalidRow{},
		Preview: make([]model.PreviewRow, 0, len(rows)),
	}

	err := c.tx.WithTx(ctx, func(tx model.EmployeeTx) error {
		for i, row := range rows {
			action, why, err := c.applyRow(ctx, tx, row)
			if err != nil {
				return fmt.Errorf("row %d (cedula %s): %w", i+1, row.Cedula, err)
			}
			report.Count(model.PreviewRow{
				Row:    i + 1,
				Cedula: row.Cedula,
				Action: action,
				Why:    why,
			})
		}
		return nil
	})
	if err != nil {
		c.logger.Error("roster commit rolled back", "error", err)
		return model.ImportReport{}, &model.CommitError{Err: err}
	}

	return report, nil
}

// applyRow classifies one row against the current transaction state and
// applies the resulting action.
func (c *Committer) applyRow(ctx context.Context, tx model.EmployeeTx, row model.RosterRow) (model.Action, string, error) {
	var prev *model.Employee
	if roster.ValidCedula(row.Cedula) {
		stored, err := tx.GetByCedula(ctx, row.Cedula)
		switch {
		case err == nil:
			prev = &stored
		case errors.Is(err, model.ErrNotFound):
			// absent: insert path
		default:
			return "", "", fmt.Errorf("failed to look up employee: %w", err)
		}
	}

	action, why := Classify(row, prev)

	switch action {
	case model.ActionInsert:
		emp := model.Employee{
			Cedula:    row.Cedula,
			FirstName: optional(row.FirstName),
			LastName:  optional(row.LastName),
			Email:     optional(row.Email),
			IsActive:  true,
		}
		if err := tx.Insert(ctx, emp); err != nil {
			return "", "", fmt.Errorf("failed to insert employee: %w", err)
		}
	case model.ActionDeactivate:
		if err := tx.Deactivate(ctx, prev.ID); err != nil {
			return "", "", fmt.Errorf("failed to deactivate employee: %w", err)
		}
	case model.ActionUpdate:
		// Coalesce-on-null: blank incoming fields never overwrite stored
		// values. An applied update always leaves the employee active.
		if err := tx.UpdateFields(ctx, prev.ID, optional(row.FirstName), optional(row.LastName), optional(row.Email)); err != nil {
			return "", "", fmt.Errorf("failed to update employee: %w", err)
		}
	case model.ActionNone, model.ActionInvalid:
		// nothing to apply
	}

	return action, why, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
